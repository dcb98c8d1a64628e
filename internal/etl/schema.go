package etl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/pkg/textutil"
)

// ErrNoKeywordColumn is returned when no keyword header variant matches.
// Keyword is the sole grouping identity and cannot be defaulted, so this is
// the only schema condition that fails an import.
var ErrNoKeywordColumn = errors.New("no keyword column found in header")

// Standard-column header variants, in priority order. Matching is
// accent-insensitive, so "Posición" and "Posicion" are equivalent.
var (
	keywordVariants    = []string{"palabra clave", "keyword", "palabras clave", "kw"}
	volumeVariants     = []string{"volumen", "# de búsquedas", "search volume", "volumen de búsqueda", "volume"}
	difficultyVariants = []string{"dificultad de la palabra clave", "google dificultad palabra clave", "kd", "keyword difficulty", "difficulty"}
	intentVariants     = []string{"intención", "intent", "search intent"}
	cpcVariants        = []string{"cpc", "cpc prom.", "coste por clic", "avg. cpc"}
)

// visibilityBracketRe matches the bracketed anchor form "Visibility [domain]".
var visibilityBracketRe = regexp.MustCompile(`(?i)(visibilidad|visibility)\s*\[(.*?)\]`)

// Companion-column naming templates probed per anchored domain, in priority
// order. %s is the domain token exactly as extracted from the anchor.
var (
	positionTemplates = []string{
		"posición [%s]",
		"position [%s]",
		"posición en google %s",
		"position in google %s",
		"posición %s",
		"position %s",
		"ranking [%s]",
	}
	trafficTemplates = []string{
		"tráfico [%s]",
		"traffic [%s]",
		"tráfico %s",
		"traffic %s",
	}
)

// ResolveSchema inspects an export's header row and resolves (a) the standard
// metric columns and (b) one column group per competitor domain.
//
// Domain discovery is anchored on visibility: any header matching a
// visibility pattern registers a domain, and companion position/traffic
// columns are then located by probing known naming templates. Domains without
// a recognizable visibility column are never registered, even if position or
// traffic columns for them exist; visibility is the only unambiguous
// per-domain marker in the wild.
func ResolveSchema(headers []string) (StandardColumns, DomainMap, error) {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = textutil.Fold(h)
	}

	find := func(variants []string) string {
		for _, v := range variants {
			fv := textutil.Fold(v)
			for i, fh := range folded {
				if fh == fv {
					return headers[i]
				}
			}
		}
		return ""
	}

	std := StandardColumns{
		Keyword:    find(keywordVariants),
		Volume:     find(volumeVariants),
		Difficulty: find(difficultyVariants),
		Intent:     find(intentVariants),
		CPC:        find(cpcVariants),
	}
	if std.Keyword == "" {
		return std, nil, ErrNoKeywordColumn
	}

	domains := DomainMap{}
	for i, h := range headers {
		if !strings.Contains(folded[i], "visibilidad") && !strings.Contains(folded[i], "visibility") {
			continue
		}
		domain := extractDomain(h, folded[i])
		if domain == "" {
			// Anchor-shaped header with no extractable domain token; a
			// degenerate entry would poison SoV, so skip it entirely.
			continue
		}

		cols := domains[domain]
		cols.Visibility = h
		cols.Position = findCompanion(headers, folded, positionTemplates, domain)
		cols.Traffic = findCompanion(headers, folded, trafficTemplates, domain)
		domains[domain] = cols
	}

	return std, domains, nil
}

// extractDomain pulls the domain token out of a visibility header, trying the
// bracketed form, then the prefix form, then a last-word fallback.
func extractDomain(raw, folded string) string {
	if m := visibilityBracketRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[2])
	}
	for _, prefix := range []string{"visibilidad ", "visibility "} {
		if strings.HasPrefix(folded, prefix) {
			parts := strings.Fields(raw)
			if len(parts) >= 2 {
				return strings.TrimSpace(strings.Join(parts[1:], " "))
			}
		}
	}
	parts := strings.Fields(raw)
	if len(parts) >= 2 {
		return strings.Trim(parts[len(parts)-1], "[]")
	}
	return ""
}

// findCompanion probes the template list against the header set,
// case- and accent-insensitively. First match wins; no match leaves the
// role unset, which downstream code must treat as "unknown", not zero.
func findCompanion(headers, folded []string, templates []string, domain string) string {
	for _, tmpl := range templates {
		want := textutil.Fold(fmt.Sprintf(tmpl, domain))
		for i, fh := range folded {
			if fh == want {
				return headers[i]
			}
		}
	}
	return ""
}
