package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Parse reads a CSV export, resolves its schema and returns the normalized
// dataset. Structural failures (unreadable file, no keyword column) are
// returned as errors; cell-level issues degrade to safe defaults and rows
// with no usable keyword are dropped and counted in Dataset.RowErrors.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty export file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	std, domains, err := ResolveSchema(header)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || col == "" || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	brandTokens := brandTokensFor(domains)

	ds := &Dataset{Domains: domains, Columns: std}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ds.RowErrors++
			continue
		}

		keyword := cell(row, std.Keyword)
		if keyword == "" {
			ds.RowErrors++
			continue
		}

		rr := RankingRow{
			Keyword:    keyword,
			Volume:     NormalizeInt(cell(row, std.Volume)),
			Difficulty: capDifficulty(NormalizeInt(cell(row, std.Difficulty))),
			Intent:     cell(row, std.Intent),
			CPC:        NormalizeCurrency(cell(row, std.CPC)),
			Domains:    make(map[string]DomainMetrics, len(domains)),
		}

		for domain, cols := range domains {
			dm := DomainMetrics{
				Visibility: NormalizePercent(cell(row, cols.Visibility)),
				Position:   PositionUnranked,
			}
			if cols.HasPosition() {
				dm.Position = ParsePosition(cell(row, cols.Position))
			}
			rr.Domains[domain] = dm
		}

		rr.IsBranded = isBranded(keyword, brandTokens)
		ds.Rows = append(ds.Rows, rr)
	}

	return ds, nil
}

// capDifficulty normalizes difficulty to the 0-100 scale. Some tools use
// scales above 100; negatives are data noise.
func capDifficulty(d int) int {
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

// brandTokensFor extracts the first label of each competitor domain
// ("acme" from "acme.com") for branded-keyword detection.
func brandTokensFor(domains DomainMap) []string {
	tokens := make([]string, 0, len(domains))
	for domain := range domains {
		label := strings.ToLower(strings.SplitN(domain, ".", 2)[0])
		if label != "" {
			tokens = append(tokens, label)
		}
	}
	return tokens
}

func isBranded(keyword string, brandTokens []string) bool {
	kw := strings.ToLower(keyword)
	for _, tok := range brandTokens {
		if strings.Contains(kw, tok) {
			return true
		}
	}
	return false
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf)), r)
}
