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

// DoctorHandler serves the shared doctor directory. Authentication only; no
// ownership scoping, so every authenticated user sees and may modify every
// doctor.
type DoctorHandler struct {
	Svc    *application.DoctorService
	Logger *logrus.Logger
}

func NewDoctorHandler(svc *application.DoctorService, logger *logrus.Logger) *DoctorHandler {
	return &DoctorHandler{Svc: svc, Logger: logger}
}

type doctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type doctorResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toDoctorResponse(d *entity.Doctor) doctorResponse {
	return doctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// List handles GET /api/doctors.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list doctors failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list doctors", nil)
		return
	}
	out := make([]doctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	response.Success(c, http.StatusOK, out, "doctors", nil)
}

// Create handles POST /api/doctors.
func (h *DoctorHandler) Create(c *gin.Context) {
	var req doctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, errs, err := h.Svc.Create(c.Request.Context(), rules.DoctorCandidate{
		Name:           req.Name,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create doctor failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create doctor", nil)
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusCreated, toDoctorResponse(d), "doctor created", nil)
}

// Get handles GET /api/doctors/:id.
func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOrInternal(c, err, "get doctor failed")
		return
	}
	response.Success(c, http.StatusOK, toDoctorResponse(d), "doctor", nil)
}

// Update handles PUT and PATCH /api/doctors/:id. Both fields are required
// either way, so the two verbs share full validation.
func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req doctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, errs, err := h.Svc.Update(c.Request.Context(), id, rules.DoctorCandidate{
		Name:           req.Name,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, "update doctor failed")
		return
	}
	if !errs.Empty() {
		response.Error[any](c, http.StatusBadRequest, "validation failed", errs)
		return
	}
	response.Success(c, http.StatusOK, toDoctorResponse(d), "doctor updated", nil)
}

// Delete handles DELETE /api/doctors/:id.
func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOrInternal(c, err, "delete doctor failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// Search handles GET /api/doctors/search?q=&size=.
func (h *DoctorHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("doctor search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

func (h *DoctorHandler) notFoundOrInternal(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "doctor not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
