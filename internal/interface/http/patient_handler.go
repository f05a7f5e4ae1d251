package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/application"
	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/response"
	"github.com/medrec/healthcare-api/pkg/rules"
	"github.com/medrec/healthcare-api/pkg/validation"
)

const maxDocumentSize = 10 << 20 // 10 MiB

// PatientHandler serves the owner-scoped patient CRUD. The caller identity
// comes from the auth middleware; records owned by other users are outside
// the visible set and answer 404, never 403.
type PatientHandler struct {
	Svc    *application.PatientService
	Logger *logrus.Logger
}

func NewPatientHandler(svc *application.PatientService, logger *logrus.Logger) *PatientHandler {
	return &PatientHandler{Svc: svc, Logger: logger}
}

// patientRequest keeps age untyped so a non-numeric value becomes a field
// error ("Age must be a number.") instead of a bind failure.
type patientRequest struct {
	Name   string `json:"name"`
	Age    any    `json:"age"`
	Gender string `json:"gender"`
}

type patientResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	DocumentURL string    `json:"document_url,omitempty"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPatientResponse(p *entity.Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Age:         p.Age,
		Gender:      p.Gender,
		DocumentURL: p.DocumentURL,
		User:        p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// List handles GET /api/patients.
func (h *PatientHandler) List(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	patients, err := h.Svc.List(c.Request.Context(), owner)
	if err != nil {
		h.Logger.WithError(err).Error("list patients failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list patients", nil)
		return
	}
	out := make([]patientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	response.Success(c, http.StatusOK, out, "patients", nil)
}

// Create handles POST /api/patients. The owner is always the caller; any
// owner value in the body is ignored.
func (h *PatientHandler) Create(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	owner := c.GetString(middleware.CtxUserIDKey)
	p, errs, err := h.Svc.Create(c.Request.Context(), owner, rules.PatientCandidate{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create patient failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create patient", nil)
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusCreated, toPatientResponse(p), "patient created", nil)
}

// Get handles GET /api/patients/:id.
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id, c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.notFoundOrInternal(c, err, "get patient failed")
		return
	}
	response.Success(c, http.StatusOK, toPatientResponse(p), "patient", nil)
}

// Update handles PUT /api/patients/:id with full validation.
func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, errs, err := h.Svc.Update(c.Request.Context(), id, c.GetString(middleware.CtxUserIDKey), rules.PatientCandidate{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, "update patient failed")
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusOK, toPatientResponse(p), "patient updated", nil)
}

// Patch handles PATCH /api/patients/:id. Absent fields keep their prior
// values; the merged record is validated in full.
func (h *PatientHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	patch := application.PatientPatch{}
	typeErrs := rules.FieldErrors{}
	if v, ok := raw["name"]; ok {
		s, isStr := v.(string)
		if !isStr {
			typeErrs.Add("name", rules.MsgNotString)
		}
		patch.Name = &s
	}
	if v, ok := raw["age"]; ok {
		patch.Age = v
		patch.AgeSet = true
	}
	if v, ok := raw["gender"]; ok {
		s, isStr := v.(string)
		if !isStr {
			typeErrs.Add("gender", rules.MsgNotString)
		}
		patch.Gender = &s
	}
	if !typeErrs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", typeErrs)
		return
	}

	p, errs, err := h.Svc.Patch(c.Request.Context(), id, c.GetString(middleware.CtxUserIDKey), patch)
	if err != nil {
		h.notFoundOrInternal(c, err, "patch patient failed")
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusOK, toPatientResponse(p), "patient updated", nil)
}

// Delete handles DELETE /api/patients/:id.
func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, c.GetString(middleware.CtxUserIDKey)); err != nil {
		h.notFoundOrInternal(c, err, "delete patient failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDocument handles POST /api/patients/:id/documents (multipart field
// "file").
func (h *PatientHandler) UploadDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	if fh.Size > maxDocumentSize {
		response.Error[any](c, http.StatusBadRequest, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadDocument(c.Request.Context(), id, c.GetString(middleware.CtxUserIDKey), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.notFoundOrInternal(c, err, "upload document failed")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"document_url": url}, "document uploaded", nil)
}

func (h *PatientHandler) notFoundOrInternal(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "patient not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

// pathID parses the :id path parameter. A malformed id cannot reference any
// record, so it answers 404 like any other miss.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return id, true
}
