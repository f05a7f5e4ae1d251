package entity

import "time"

// PatientDoctorMapping joins one patient to one doctor. The (PatientID,
// DoctorID) pair is unique; the mappings table enforces it with a unique
// constraint, which is the authoritative guard against concurrent creates.
type PatientDoctorMapping struct {
	ID        int64
	PatientID int64
	DoctorID  int64
	CreatedAt time.Time
}
