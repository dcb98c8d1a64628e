// Package intent assigns search-intent categories to keywords.
//
// Classification is a first-match ordered rule cascade rather than a scored
// ensemble: heuristic intent is inherently ambiguous, and a fixed priority
// order keeps behavior predictable and auditable. The token sets carry the
// Spanish vocabulary of the source exports plus English equivalents.
package intent

import (
	"regexp"
	"strings"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/pkg/textutil"
)

// Canonical intent labels.
const (
	Navigational  = "Navigational"
	Transactional = "Transactional"
	Commercial    = "Commercial"
	Informational = "Informational"
	Mixed         = "Mixed/Needs validation"
)

// Confidence levels attached to a suggestion.
const (
	ConfidenceHigh       = "High"
	ConfidenceMediumHigh = "Medium-High"
	ConfidenceLow        = "Low"
)

// Suggestion is the classifier's output for one keyword.
type Suggestion struct {
	Intent        string   `json:"intent"`
	Confidence    string   `json:"confidence"`
	Reasons       []string `json:"reasons"`
	LocalModifier string   `json:"local_modifier,omitempty"`
}

// NormalizeKeyword folds a keyword for matching: diacritics stripped,
// lowercased, whitespace collapsed. The same normalization is applied to the
// manual-override lookup key, so "Cómo   Llegar" and "como llegar" join.
func NormalizeKeyword(s string) string {
	return textutil.CollapseWhitespace(textutil.Fold(s))
}

// Trailing locational modifiers: "en <place>", "cerca de <place>",
// "<place> cerca". Recorded as metadata, never a terminal intent, so
// geo-qualified queries are not mis-routed into a pseudo-category.
var localPatterns = []*regexp.Regexp{
	regexp.MustCompile(` en ([a-z]+)$`),
	regexp.MustCompile(` cerca de ([a-z]+)$`),
	regexp.MustCompile(` ([a-z]+) cerca$`),
}

var navigationalTokens = []string{
	"login", "telefono", "phone", "contacto", "contact", "direccion",
	"horario", "como llegar", "maps", "acceder", "web", "oficial", "official",
}

var transactionalTokens = []string{
	"precio", "price", "tarifa", "presupuesto", "matricula", "inscripcion",
	"comprar", "buy", "contratar", "alquiler", "reserva", "booking", "cita",
	"oferta", "descuento", "barato", "cheap", "coste", "cost",
}

var commercialTokens = []string{
	"curso", "course", "master", "formacion", "escuela", "academia",
	"opiniones", "resenas", "review", "comparativa", "comparison", "mejor",
	"best", "top", "servicios", "services", "agencia", "agency", "empresa",
}

var informationalTokens = []string{
	"que es", "what is", "como", "how to", "guia", "guide", "tutorial",
	"consejos", "tips", "ejemplos", "plantilla", "template", "definicion",
	"significado", "porque",
}

var interrogativeStarters = []string{
	"que ", "como ", "donde ", "cuando ",
	"what ", "how ", "where ", "when ", "why ",
}

// Infer classifies a keyword with the fixed-priority rule cascade. Earlier
// rules pre-empt later ones: a keyword carrying both a navigational token and
// an informational starter resolves Navigational.
func Infer(keyword string) Suggestion {
	kw := NormalizeKeyword(keyword)

	var local string
	var reasons []string
	for _, p := range localPatterns {
		if m := p.FindStringSubmatch(kw); m != nil {
			local = m[1]
			reasons = append(reasons, "local modifier: "+local)
			break
		}
	}

	if containsAny(kw, navigationalTokens) {
		return Suggestion{
			Intent:        Navigational,
			Confidence:    ConfidenceHigh,
			Reasons:       append(reasons, "site/contact signals"),
			LocalModifier: local,
		}
	}

	if containsAny(kw, transactionalTokens) {
		return Suggestion{
			Intent:        Transactional,
			Confidence:    ConfidenceHigh,
			Reasons:       append(reasons, "purchase or pricing terms"),
			LocalModifier: local,
		}
	}

	if containsAny(kw, commercialTokens) {
		return Suggestion{
			Intent:        Commercial,
			Confidence:    ConfidenceMediumHigh,
			Reasons:       append(reasons, "product/service or comparison search"),
			LocalModifier: local,
		}
	}

	if containsAny(kw, informationalTokens) || startsWithAny(kw, interrogativeStarters) {
		return Suggestion{
			Intent:        Informational,
			Confidence:    ConfidenceHigh,
			Reasons:       append(reasons, "question or information-seeking pattern"),
			LocalModifier: local,
		}
	}

	return Suggestion{
		Intent:        Mixed,
		Confidence:    ConfidenceLow,
		Reasons:       append(reasons, "no clear signals detected"),
		LocalModifier: local,
	}
}

// Priority returns the sort rank used when opportunities tie on numeric
// merit: transactional and commercial intents convert better, so they outrank
// informational and navigational ones. Lower is better.
func Priority(label string) int {
	switch label {
	case Commercial:
		return 0
	case Transactional:
		return 1
	case Mixed:
		return 2
	case Informational:
		return 3
	case Navigational:
		return 4
	default:
		return 2
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
