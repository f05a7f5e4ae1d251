package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	"github.com/medrec/healthcare-api/pkg/rules"
)

func TestPatientCreateForcesOwner(t *testing.T) {
	fx := newPatientFixture("owner-1")

	// A client-supplied owner must be ignored.
	w, env := doJSON(t, fx.engine, http.MethodPost, "/api/patients", map[string]any{
		"name": "John Doe", "age": 30, "gender": "male", "user": "intruder",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var data struct {
		ID   int64  `json:"id"`
		User string `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User != "owner-1" {
		t.Fatalf("owner = %q, want owner-1", data.User)
	}
}

func TestPatientCreateAgeErrors(t *testing.T) {
	fx := newPatientFixture("owner-1")

	tests := []struct {
		name string
		body map[string]any
		want map[string][]string
	}{
		{
			name: "non-numeric age",
			body: map[string]any{"name": "John Doe", "age": "abc", "gender": "male"},
			want: map[string][]string{"age": {rules.MsgAgeNotNumber}},
		},
		{
			name: "negative age",
			body: map[string]any{"name": "John Doe", "age": -1, "gender": "male"},
			want: map[string][]string{"age": {rules.MsgAgeNegative}},
		},
		{
			name: "missing age",
			body: map[string]any{"name": "John Doe", "gender": "male"},
			want: map[string][]string{"age": {rules.MsgAgeRequired}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, fx.engine, http.MethodPost, "/api/patients", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if !reflect.DeepEqual(env.fieldErrors(t), tt.want) {
				t.Fatalf("error = %v, want %v", env.fieldErrors(t), tt.want)
			}
		})
	}
}

func TestPatientListScopedToCaller(t *testing.T) {
	fx := newPatientFixture("owner-1")

	if w, _ := doJSON(t, fx.engine, http.MethodPost, "/api/patients", map[string]any{
		"name": "John Doe", "age": 30, "gender": "male",
	}); w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}

	// A record owned by someone else, inserted behind the API.
	other := seedPatient(t, fx, "owner-2", "Jane Roe")

	w, env := doJSON(t, fx.engine, http.MethodGet, "/api/patients", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var list []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(list) != 1 || list[0].Name != "John Doe" {
		t.Fatalf("list = %+v, want only the caller's record", list)
	}

	// Cross-user access looks exactly like a missing record.
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w, _ := doJSON(t, fx.engine, method, patientPath(other), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s cross-user status = %d, want 404", method, w.Code)
		}
	}
	w, _ = doJSON(t, fx.engine, http.MethodPut, patientPath(other), map[string]any{
		"name": "Hijack", "age": 1, "gender": "male",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("PUT cross-user status = %d, want 404", w.Code)
	}
}

func TestPatientPatchMerge(t *testing.T) {
	fx := newPatientFixture("owner-1")

	_, env := doJSON(t, fx.engine, http.MethodPost, "/api/patients", map[string]any{
		"name": "John Doe", "age": 30, "gender": "male",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	w, env := doJSON(t, fx.engine, http.MethodPatch, patientPath(created.ID), map[string]any{"age": 31})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got struct {
		Name   string `json:"name"`
		Age    int    `json:"age"`
		Gender string `json:"gender"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Name != "John Doe" || got.Age != 31 || got.Gender != "male" {
		t.Fatalf("patched = %+v", got)
	}

	// A partial update cannot blank a required field.
	w, env = doJSON(t, fx.engine, http.MethodPatch, patientPath(created.ID), map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !reflect.DeepEqual(env.fieldErrors(t), map[string][]string{"name": {rules.MsgPatientNameRequired}}) {
		t.Fatalf("error = %v", env.fieldErrors(t))
	}
}

func TestPatientPatchRejectsNonStringFields(t *testing.T) {
	fx := newPatientFixture("owner-1")

	_, env := doJSON(t, fx.engine, http.MethodPost, "/api/patients", map[string]any{
		"name": "John Doe", "age": 30, "gender": "male",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	w, env := doJSON(t, fx.engine, http.MethodPatch, patientPath(created.ID), map[string]any{
		"name": 123, "gender": true,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	want := map[string][]string{
		"name":   {rules.MsgNotString},
		"gender": {rules.MsgNotString},
	}
	if !reflect.DeepEqual(env.fieldErrors(t), want) {
		t.Fatalf("error = %v, want %v", env.fieldErrors(t), want)
	}

	// The record is untouched.
	w, env = doJSON(t, fx.engine, http.MethodGet, patientPath(created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Name != "John Doe" {
		t.Fatalf("name = %q, want John Doe", got.Name)
	}
}

func TestPatientDeleteAndMalformedID(t *testing.T) {
	fx := newPatientFixture("owner-1")

	_, env := doJSON(t, fx.engine, http.MethodPost, "/api/patients", map[string]any{
		"name": "John Doe", "age": 30, "gender": "male",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	w, _ := doJSON(t, fx.engine, http.MethodDelete, patientPath(created.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w, _ = doJSON(t, fx.engine, http.MethodGet, patientPath(created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
	w, _ = doJSON(t, fx.engine, http.MethodGet, "/api/patients/abc", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id status = %d, want 404", w.Code)
	}
}
