package router

import (
	"github.com/medrec/healthcare-api/internal/application"
	"github.com/medrec/healthcare-api/internal/container"
	pginfra "github.com/medrec/healthcare-api/internal/infrastructure/postgres"
	handlers "github.com/medrec/healthcare-api/internal/interface/http"
	"github.com/medrec/healthcare-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	patientRepo := pginfra.NewPatientRepository(pool)
	doctorRepo := pginfra.NewDoctorRepository(pool)
	mappingRepo := pginfra.NewMappingRepository(pool)

	accountSvc := application.NewAccountService(
		userRepo,
		jwt,
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)
	patientSvc := application.NewPatientService(patientRepo, container.GetGCS(), cfg.GCSBucket, logger)
	doctorSvc := application.NewDoctorService(doctorRepo, container.GetES(), cfg.ESDoctorsIndex, logger)
	mappingSvc := application.NewMappingService(mappingRepo, patientRepo, doctorRepo)

	accountHandler := handlers.NewAccountHandler(accountSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	patientHandler := handlers.NewPatientHandler(patientSvc, logger)
	doctorHandler := handlers.NewDoctorHandler(doctorSvc, logger)
	mappingHandler := handlers.NewMappingHandler(mappingSvc, logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAccountModule(accountHandler, jwt))
	r.Add(modules.NewPatientModule(patientHandler, jwt))
	r.Add(modules.NewDoctorModule(doctorHandler, jwt))
	r.Add(modules.NewMappingModule(mappingHandler, jwt))
}
