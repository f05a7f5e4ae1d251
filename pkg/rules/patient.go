package rules

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Patient messages are part of the API contract.
const (
	MsgPatientNameRequired = "Patient name is required."
	MsgAgeRequired         = "This field is required."
	MsgAgeNotNumber        = "Age must be a number."
	MsgAgeNegative         = "Age cannot be negative."
	MsgGenderRequired      = "Gender is required."
	MsgNotString           = "Not a valid string."
)

// PatientCandidate carries a patient payload before type coercion. Age is the
// raw decoded JSON value so a non-numeric age can be reported as a field
// error instead of a bind failure.
type PatientCandidate struct {
	Name   string
	Age    any
	Gender string
}

// Patient validates a candidate and, when the age is well-formed, returns its
// coerced integer value.
func Patient(c PatientCandidate) (int, FieldErrors) {
	age, ageOK := coerceAge(c.Age)

	errs := Apply([]Rule{
		{Field: "name", Message: MsgPatientNameRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Name) != ""
		}},
		{Field: "age", Message: MsgAgeRequired, Fatal: true, Check: func() bool {
			return c.Age != nil
		}},
		{Field: "age", Message: MsgAgeNotNumber, Fatal: true, Check: func() bool {
			return ageOK
		}},
		{Field: "age", Message: MsgAgeNegative, Check: func() bool {
			return age >= 0
		}},
		{Field: "gender", Message: MsgGenderRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Gender) != ""
		}},
	})
	return age, errs
}

// coerceAge accepts integer JSON numbers and integer-valued numeric strings.
// Values outside int32 cannot fit the age column and count as not a number.
func coerceAge(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return i, true
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
