// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// RecordID validates an Airtable record id (recXXXXXXXXXXXXXX).
func RecordID(id string) error {
	return prefixedID("rec", id)
}

// BaseID validates an Airtable base id (appXXXXXXXXXXXXXX).
func BaseID(id string) error {
	return prefixedID("app", id)
}

// RecordIDField returns a criterio validator for record ids.
func RecordIDField(field, id string) error {
	return criterio.Run(field, id, RecordID)
}

func prefixedID(prefix, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("is required")
	}
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return fmt.Errorf("%q does not look like an Airtable id (%sXXXXXXXX)", id, prefix)
	}
	for _, r := range rest {
		if !isAlnum(r) {
			return fmt.Errorf("%q contains invalid character %q", id, r)
		}
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
