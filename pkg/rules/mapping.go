package rules

import "fmt"

// Mapping messages are part of the API contract.
const (
	MsgMappingFieldRequired = "This field is required."
	MsgMappingExists        = "This mapping already exists."
)

// MsgInvalidRef formats the error for a reference to a record that does not
// exist.
func MsgInvalidRef(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// MappingCandidate carries the referenced record ids; zero means absent.
type MappingCandidate struct {
	PatientID int64
	DoctorID  int64
}

// Mapping runs the structural checks. Reference existence and the duplicate
// pair check are cross-record concerns owned by the service layer, gated on
// these passing first.
func Mapping(c MappingCandidate) FieldErrors {
	return Apply([]Rule{
		{Field: "patient", Message: MsgMappingFieldRequired, Fatal: true, Check: func() bool {
			return c.PatientID > 0
		}},
		{Field: "doctor", Message: MsgMappingFieldRequired, Fatal: true, Check: func() bool {
			return c.DoctorID > 0
		}},
	})
}
