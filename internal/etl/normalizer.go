package etl

import (
	"strconv"
	"strings"
)

// The normalizer functions are total over arbitrary input: any value that
// cannot be parsed degrades to a neutral default. One malformed cell must not
// abort an import of hundreds of valid rows.

// NormalizeCurrency parses a currency-like string into a float. It accepts
// both U.S. ("$1,234.56") and European ("1.234,56€") conventions and returns
// the same numeric value for either. Unparseable input yields 0.
func NormalizeCurrency(val string) float64 {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	return parseDecimal(s)
}

// NormalizePercent parses a percent-like string into a float, stripping the
// "%" sign and tolerating a decimal comma. Unparseable input yields 0.
func NormalizePercent(val string) float64 {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " ", "")
	return parseDecimal(s)
}

// NormalizeInt parses an integer-like string, stripping "." and "," as
// thousands separators regardless of locale. Unparseable input yields 0.
func NormalizeInt(val string) int {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// notRankedTokens are vendor spellings for "this domain does not rank".
var notRankedTokens = map[string]bool{
	"":           true,
	"-":          true,
	"n/d":        true,
	"n/a":        true,
	"none":       true,
	"no esta":    true,
	"no está":    true,
	"not ranked": true,
}

// ParsePosition parses a rank cell. Null-ish and known not-ranked tokens map
// to PositionUnranked; numeric-looking strings (including decimal-comma forms
// like "5,0") parse to their truncated integer; anything else also falls back
// to PositionUnranked. Results outside [1,101] are folded into the sentinel,
// since a rank of zero or beyond the tracked range carries no signal.
func ParsePosition(val string) int {
	s := strings.ToLower(strings.TrimSpace(val))
	if notRankedTokens[s] {
		return PositionUnranked
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return PositionUnranked
	}
	pos := int(f)
	if pos < 1 || pos > PositionUnranked {
		return PositionUnranked
	}
	return pos
}

// parseDecimal handles the mixed decimal-separator conventions found in the
// exports. When both "." and "," appear, the rightmost one is the decimal
// separator and the other is a thousands separator; a lone "," is treated as
// a decimal separator.
func parseDecimal(s string) float64 {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// European: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// U.S.: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
