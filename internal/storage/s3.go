package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
)

const s3KeyPrefix = "raw-exports"

// S3Archive stores raw exports in an S3 bucket under
// raw-exports/<importID>/<filename>.
type S3Archive struct {
	client *s3.Client
	bucket string
}

func newS3Archive(ctx context.Context, cfg config.StorageConfig) (*S3Archive, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket name")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Archive{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket}, nil
}

func (a *S3Archive) SaveRaw(ctx context.Context, importID, filename string, data []byte) error {
	key := path.Join(s3KeyPrefix, importID, path.Base(filename))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("put raw export to s3: %w", err)
	}
	return nil
}
