package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medrec/healthcare-api/internal/container"
	handlers "github.com/medrec/healthcare-api/internal/interface/http"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/helpers"
)

// PatientModule registers the patient record routes. All of them require a
// session; listing and reads are scoped to the authenticated owner.

type PatientModule struct {
	Handler *handlers.PatientHandler
	JWT     *helpers.JWTManager
}

func NewPatientModule(h *handlers.PatientHandler, jwt *helpers.JWTManager) *PatientModule {
	return &PatientModule{Handler: h, JWT: jwt}
}

func (m *PatientModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/patients")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.Patch)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/documents", m.Handler.UploadDocument)
	}
}
