package application

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/infrastructure/inmem"
	"github.com/medrec/healthcare-api/pkg/rules"
)

func newDoctorService() *DoctorService {
	return NewDoctorService(inmem.NewDoctorRepository(), nil, "", logrus.New())
}

func TestDoctorCRUD(t *testing.T) {
	svc := newDoctorService()
	ctx := context.Background()

	d, errs, err := svc.Create(ctx, rules.DoctorCandidate{Name: "Dr. Asha Menon", Specialization: "Cardiology"})
	if err != nil || !errs.Empty() {
		t.Fatalf("Create: err=%v errs=%v", err, errs)
	}
	if d.ID == 0 {
		t.Fatal("expected assigned id")
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: err=%v list=%v", err, list)
	}

	got, errs, err := svc.Update(ctx, d.ID, rules.DoctorCandidate{Name: "Dr. Asha Menon", Specialization: "Neurology"})
	if err != nil || !errs.Empty() {
		t.Fatalf("Update: err=%v errs=%v", err, errs)
	}
	if got.Specialization != "Neurology" {
		t.Fatalf("updated doctor = %+v", got)
	}

	if err := svc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestDoctorValidation(t *testing.T) {
	svc := newDoctorService()
	ctx := context.Background()

	_, errs, err := svc.Create(ctx, rules.DoctorCandidate{Name: "", Specialization: " "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := rules.FieldErrors{
		"name":           {rules.MsgDoctorNameRequired},
		"specialization": {rules.MsgSpecializationRequired},
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("errors = %v, want %v", errs, want)
	}
}

func TestDoctorUpdateUnknown(t *testing.T) {
	svc := newDoctorService()
	if _, _, err := svc.Update(context.Background(), 99, rules.DoctorCandidate{Name: "X", Specialization: "Y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update unknown err = %v, want ErrNotFound", err)
	}
}

func TestDoctorSearchWithoutIndexIsEmpty(t *testing.T) {
	svc := newDoctorService()
	hits, err := svc.Search(context.Background(), "cardio", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("hits = %v, want empty", hits)
	}
}
