package rules

import "strings"

// Doctor messages are part of the API contract.
const (
	MsgDoctorNameRequired     = "Doctor name is required."
	MsgSpecializationRequired = "Specialization is required."
)

// DoctorCandidate is a doctor payload before normalization.
type DoctorCandidate struct {
	Name           string
	Specialization string
}

func Doctor(c DoctorCandidate) FieldErrors {
	return Apply([]Rule{
		{Field: "name", Message: MsgDoctorNameRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Name) != ""
		}},
		{Field: "specialization", Message: MsgSpecializationRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Specialization) != ""
		}},
	})
}
