package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, gin.H{"id": 7}, "created", nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Status    int            `json:"status"`
		RequestID string         `json:"request_id"`
		Success   bool           `json:"success"`
		Message   string         `json:"message"`
		Data      map[string]int `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success || got.Status != http.StatusCreated || got.RequestID != "req-1" || got.Message != "created" {
		t.Fatalf("envelope = %+v", got)
	}
	if got.Data["id"] != 7 {
		t.Fatalf("data = %v", got.Data)
	}
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error[any](c, http.StatusBadRequest, "validation failed", map[string][]string{"age": {"Age must be a number."}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Error   map[string][]string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Success || got.Message != "validation failed" {
		t.Fatalf("envelope = %+v", got)
	}
	if len(got.Error["age"]) != 1 {
		t.Fatalf("error = %v", got.Error)
	}
}
