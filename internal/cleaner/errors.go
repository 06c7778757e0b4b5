package cleaner

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports that the raw header cannot be mapped onto the
// canonical schema. Missing lists canonical columns no header resolved to;
// Ambiguous lists canonical columns claimed by more than one raw header.
// Either condition aborts the run.
type SchemaError struct {
	Missing   []string
	Ambiguous map[string][]string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", ")))
	}
	keys := make([]string, 0, len(e.Ambiguous))
	for k := range e.Ambiguous {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("column %q claimed by multiple headers: %s", k, strings.Join(e.Ambiguous[k], ", ")))
	}
	if len(parts) == 0 {
		return "schema mismatch"
	}
	return "schema mismatch: " + strings.Join(parts, "; ")
}

// InsufficientDataError reports that a numeric column needs at least one
// repair but holds zero valid values, leaving no statistic to impute from.
type InsufficientDataError struct {
	Field string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("column %q has no valid values to impute a median from", e.Field)
}
