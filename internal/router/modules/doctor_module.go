package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medrec/healthcare-api/internal/container"
	handlers "github.com/medrec/healthcare-api/internal/interface/http"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/helpers"
)

// DoctorModule registers the doctor directory routes. The directory is not
// owner-scoped but every route still requires a session.

type DoctorModule struct {
	Handler *handlers.DoctorHandler
	JWT     *helpers.JWTManager
}

func NewDoctorModule(h *handlers.DoctorHandler, jwt *helpers.JWTManager) *DoctorModule {
	return &DoctorModule{Handler: h, JWT: jwt}
}

func (m *DoctorModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/doctors")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
