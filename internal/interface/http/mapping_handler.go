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
	"github.com/medrec/healthcare-api/pkg/response"
	"github.com/medrec/healthcare-api/pkg/rules"
	"github.com/medrec/healthcare-api/pkg/validation"
)

// MappingHandler serves patient-doctor mappings. Authentication only; a
// caller may map any patient to any doctor regardless of patient ownership.
type MappingHandler struct {
	Svc    *application.MappingService
	Logger *logrus.Logger
}

func NewMappingHandler(svc *application.MappingService, logger *logrus.Logger) *MappingHandler {
	return &MappingHandler{Svc: svc, Logger: logger}
}

type mappingRequest struct {
	Patient int64 `json:"patient"`
	Doctor  int64 `json:"doctor"`
}

type mappingResponse struct {
	ID        int64     `json:"id"`
	Patient   int64     `json:"patient"`
	Doctor    int64     `json:"doctor"`
	CreatedAt time.Time `json:"created_at"`
}

func toMappingResponse(m *entity.PatientDoctorMapping) mappingResponse {
	return mappingResponse{ID: m.ID, Patient: m.PatientID, Doctor: m.DoctorID, CreatedAt: m.CreatedAt}
}

// List handles GET /api/mappings[?patient={id}]. The patient filter narrows
// to mappings referencing that id with no existence check; an unknown id
// yields an empty list.
func (h *MappingHandler) List(c *gin.Context) {
	var patientID int64
	if raw := c.Query("patient"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid filter", map[string]string{"patient": "must be a number"})
			return
		}
		patientID = id
	}

	mappings, err := h.Svc.List(c.Request.Context(), patientID)
	if err != nil {
		h.Logger.WithError(err).Error("list mappings failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list mappings", nil)
		return
	}
	out := make([]mappingResponse, 0, len(mappings))
	for i := range mappings {
		out = append(out, toMappingResponse(&mappings[i]))
	}
	response.Success(c, http.StatusOK, out, "mappings", nil)
}

// Create handles POST /api/mappings.
func (h *MappingHandler) Create(c *gin.Context) {
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, errs, err := h.Svc.Create(c.Request.Context(), rules.MappingCandidate{
		PatientID: req.Patient,
		DoctorID:  req.Doctor,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create mapping failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create mapping", nil)
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusCreated, toMappingResponse(m), "mapping created", nil)
}

// Get handles GET /api/mappings/:id.
func (h *MappingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOrInternal(c, err, "get mapping failed")
		return
	}
	response.Success(c, http.StatusOK, toMappingResponse(m), "mapping", nil)
}

// Update handles PUT and PATCH /api/mappings/:id; both reference fields are
// required either way.
func (h *MappingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, errs, err := h.Svc.Update(c.Request.Context(), id, rules.MappingCandidate{
		PatientID: req.Patient,
		DoctorID:  req.Doctor,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, "update mapping failed")
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusOK, toMappingResponse(m), "mapping updated", nil)
}

// Delete handles DELETE /api/mappings/:id.
func (h *MappingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOrInternal(c, err, "delete mapping failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MappingHandler) notFoundOrInternal(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "mapping not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
