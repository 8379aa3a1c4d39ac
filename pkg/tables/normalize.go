package tables

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugPattern collapses every run of non-alphanumerics to one underscore.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// asciiFold decomposes accented characters and strips the combining marks,
// transliterating them to their base ASCII letter.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts an arbitrary header to its slug form: trimmed,
// lower-cased, diacritics transliterated, non-alphanumeric runs collapsed
// to a single underscore, leading/trailing underscores removed.
func Slugify(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	s = slugPattern.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// PatternRule maps header slugs matching a regular expression to a
// canonical column name. Patterns cover looser historical spellings that
// an exact synonym map cannot enumerate.
type PatternRule struct {
	Pattern   *regexp.Regexp
	Canonical string
}

// Normalizer rewrites table headers to a canonical schema. Exact synonym
// matches take precedence over pattern rules; headers recognized by
// neither pass through under their slugified form.
type Normalizer struct {
	synonyms map[string]string
	patterns []PatternRule
}

// NewNormalizer creates a normalizer with the given synonym map and
// pattern rules. The synonym map keys are slugs.
func NewNormalizer(synonyms map[string]string, patterns []PatternRule) *Normalizer {
	return &Normalizer{synonyms: synonyms, patterns: patterns}
}

// Canonical returns the canonical name for a raw header.
func (n *Normalizer) Canonical(header string) string {
	slug := Slugify(header)
	if canonical, ok := n.synonyms[slug]; ok {
		return canonical
	}
	for _, rule := range n.patterns {
		if rule.Pattern.MatchString(slug) {
			return rule.Canonical
		}
	}
	return slug
}

// Normalize returns a copy of the table with canonical headers. Filler
// columns (spreadsheet exports name them "Unnamed: N") are dropped, and
// columns normalizing to an already-used canonical name are deduplicated
// keeping the first occurrence. Pure: the input table is not modified.
func (n *Normalizer) Normalize(t *Table) *Table {
	out := &Table{}
	mapping := make(map[string]string, len(t.Columns)) // raw -> canonical, winners only
	seen := make(map[string]bool, len(t.Columns))

	for _, raw := range t.Columns {
		slug := Slugify(raw)
		if strings.HasPrefix(slug, "unnamed") {
			continue
		}
		canonical := n.Canonical(raw)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		mapping[raw] = canonical
		out.Columns = append(out.Columns, canonical)
	}

	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		next := make(Row, len(mapping))
		for raw, canonical := range mapping {
			if v, ok := row[raw]; ok {
				next[canonical] = v
			}
		}
		out.Rows = append(out.Rows, next)
	}
	return out
}
