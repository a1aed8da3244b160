package leads

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Categorized items can be filtered by category glob.
type Categorized interface {
	ItemCategory() string
}

// Searchable items can be filtered by free text.
type Searchable interface {
	SearchText() string
}

// CategoryFilter matches items whose category matches the glob pattern,
// case-insensitively. An empty pattern matches everything.
func CategoryFilter[T Categorized](pattern string) (func(T) bool, error) {
	if pattern == "" {
		return nil, nil
	}

	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid category pattern %q", pattern)
	}

	return func(it T) bool {
		ok, _ := doublestar.Match(pattern, strings.ToLower(it.ItemCategory()))
		return ok
	}, nil
}

// SearchFilter matches items containing every whitespace separated term of
// query, ignoring case and accents. An empty query matches everything.
func SearchFilter[T Searchable](query string) func(T) bool {
	terms := strings.Fields(fold(query))
	if len(terms) == 0 {
		return nil
	}

	return func(it T) bool {
		text := fold(it.SearchText())
		for _, term := range terms {
			if !strings.Contains(text, term) {
				return false
			}
		}
		return true
	}
}

// All combines filters; nil filters are ignored and no filters yields nil.
func All[T any](filters ...func(T) bool) func(T) bool {
	var active []func(T) bool
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}

	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}

	return func(it T) bool {
		for _, f := range active {
			if !f(it) {
				return false
			}
		}
		return true
	}
}

var caseFolder = cases.Fold()

// fold strips combining marks and case folds s, so "Société" matches "societe".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return caseFolder.String(out)
}
