// Package rules implements record validation as explicit, ordered lists of
// predicate+message pairs per entity. Field checks are independent and all
// collected in one pass; a rule marked fatal stops later rules for the same
// field (a blank password is reported as missing, not also as too short).
package rules

// FieldErrors maps a field name to the messages it failed with. The
// NonFieldErrors key carries record-level failures.
type FieldErrors map[string][]string

// NonFieldErrors is the key for errors not tied to a single field.
const NonFieldErrors = "non_field_errors"

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Rule is a single validation predicate. Check returns true when the
// candidate passes.
type Rule struct {
	Field   string
	Message string
	Fatal   bool
	Check   func() bool
}

// Apply evaluates rules in order and aggregates failures per field. Once a
// fatal rule fails, later rules for that field are skipped.
func Apply(rules []Rule) FieldErrors {
	errs := FieldErrors{}
	fatal := map[string]bool{}
	for _, r := range rules {
		if fatal[r.Field] {
			continue
		}
		if r.Check() {
			continue
		}
		errs.Add(r.Field, r.Message)
		if r.Fatal {
			fatal[r.Field] = true
		}
	}
	return errs
}
