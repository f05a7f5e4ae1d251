package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medrec/healthcare-api/internal/container"
	handlers "github.com/medrec/healthcare-api/internal/interface/http"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/helpers"
)

// MappingModule registers the patient-doctor mapping routes, all behind
// authentication.

type MappingModule struct {
	Handler *handlers.MappingHandler
	JWT     *helpers.JWTManager
}

func NewMappingModule(h *handlers.MappingHandler, jwt *helpers.JWTManager) *MappingModule {
	return &MappingModule{Handler: h, JWT: jwt}
}

func (m *MappingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/mappings")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
