package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/application"
	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/infrastructure/inmem"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// identityAs stands in for the auth middleware and injects a fixed caller.
func identityAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, userID)
		c.Next()
	}
}

// envelope mirrors response.APIResponse for decoding in assertions. Error
// stays raw because its shape differs per endpoint.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// fieldErrors decodes the error payload as the rules-engine field→messages
// map.
func (e envelope) fieldErrors(t *testing.T) map[string][]string {
	t.Helper()
	out := map[string][]string{}
	if len(e.Error) == 0 {
		return out
	}
	if err := json.Unmarshal(e.Error, &out); err != nil {
		t.Fatalf("decode field errors from %q: %v", e.Error, err)
	}
	return out
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}

type patientFixture struct {
	engine *gin.Engine
	repo   *inmem.PatientRepository
}

// newPatientFixture wires the patient routes behind a stub identity for the
// given caller.
func newPatientFixture(owner string) patientFixture {
	repo := inmem.NewPatientRepository()
	svc := application.NewPatientService(repo, nil, "", testLogger())
	h := NewPatientHandler(svc, testLogger())

	engine := gin.New()
	g := engine.Group("/api/patients", identityAs(owner))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Patch)
	g.DELETE("/:id", h.Delete)
	return patientFixture{engine: engine, repo: repo}
}

func patientPath(id int64) string {
	return "/api/patients/" + strconv.FormatInt(id, 10)
}

// seedPatient inserts a record behind the API, bypassing owner assignment.
func seedPatient(t *testing.T, fx patientFixture, owner, name string) int64 {
	t.Helper()
	p := &entity.Patient{OwnerID: owner, Name: name, Age: 40, Gender: "female"}
	if err := fx.repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p.ID
}

type mappingFixture struct {
	engine   *gin.Engine
	patients *inmem.PatientRepository
	doctors  *inmem.DoctorRepository
}

func newMappingFixture() mappingFixture {
	patients := inmem.NewPatientRepository()
	doctors := inmem.NewDoctorRepository()
	mappings := inmem.NewMappingRepository()
	svc := application.NewMappingService(mappings, patients, doctors)
	h := NewMappingHandler(svc, testLogger())

	engine := gin.New()
	g := engine.Group("/api/mappings", identityAs("owner-1"))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return mappingFixture{engine: engine, patients: patients, doctors: doctors}
}

func newDoctorEngine() *gin.Engine {
	repo := inmem.NewDoctorRepository()
	svc := application.NewDoctorService(repo, nil, "", testLogger())
	h := NewDoctorHandler(svc, testLogger())

	engine := gin.New()
	g := engine.Group("/api/doctors", identityAs("owner-1"))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return engine
}
