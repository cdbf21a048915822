package routes

import (
	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/handlers"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/metrics"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the routes are built from. Metrics may
// be nil, in which case /metrics is not served.
type Dependencies struct {
	Store   repository.Store
	Cfg     *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{deps.Cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	SetupRoutes(router, deps)
	return router
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authService := services.NewAuthService(deps.Store, deps.Log)
	patientService := services.NewPatientService(deps.Store, deps.Log)
	doctorService := services.NewDoctorService(deps.Store, deps.Log)
	secretaryService := services.NewSecretaryService(deps.Store, deps.Log)
	appointmentService := services.NewAppointmentService(deps.Store, deps.Metrics, deps.Log)

	authHandler := handlers.NewAuthHandler(authService, deps.Cfg, deps.Metrics, deps.Log)
	patientHandler := handlers.NewPatientHandler(patientService, deps.Log)
	doctorHandler := handlers.NewDoctorHandler(doctorService, deps.Log)
	secretaryHandler := handlers.NewSecretaryHandler(secretaryService, deps.Log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, deps.Log)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Log)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(deps.Cfg.JWTSecret))
	{
		private.GET("/auth/me", authHandler.Me)

		patientRoutes := private.Group("/pacientes")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.ListPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
		}

		doctorRoutes := private.Group("/medicos")
		{
			doctorRoutes.POST("", doctorHandler.CreateDoctor)
			doctorRoutes.GET("", doctorHandler.ListDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctor)
		}

		secretaryRoutes := private.Group("/secretaries")
		{
			secretaryRoutes.POST("", secretaryHandler.CreateSecretary)
			secretaryRoutes.GET("", secretaryHandler.ListSecretaries)
			secretaryRoutes.GET("/:id", secretaryHandler.GetSecretary)
		}

		// Any authenticated role may read; only secretaries and admins schedule.
		scheduler := middleware.RoleAuthMiddleware(models.RoleSecretaria, models.RoleAdmin)
		appointmentRoutes := private.Group("/consultas")
		{
			appointmentRoutes.GET("", appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointment)
			appointmentRoutes.POST("", scheduler, appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/:id", scheduler, appointmentHandler.UpdateAppointment)
			appointmentRoutes.PUT("/:id/cancelar", scheduler, appointmentHandler.CancelAppointment)
		}
	}

	router.GET("/health", healthHandler.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
}
