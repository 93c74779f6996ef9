package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agencyhub/internal/config"
	"agencyhub/internal/database"
	"agencyhub/internal/domain/appointment"
	"agencyhub/internal/domain/availability"
	"agencyhub/internal/domain/message"
	"agencyhub/internal/domain/schedule"
	"agencyhub/internal/middleware"
	"agencyhub/internal/notify"
	"agencyhub/internal/observability/metrics"
	"agencyhub/internal/pkg/jwt"
)

// Deps are the process-level collaborators. Only Config and DB are required.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Redis    *redis.Client
	Sender   notify.EmailSender
	Registry *prometheus.Registry
	Now      func() time.Time
}

// App holds the wired services and the HTTP router.
type App struct {
	Router       *gin.Engine
	Appointments *appointment.Service
	Schedule     *schedule.Service
	Messages     *message.Service
	Resolver     *availability.Resolver
	Hub          *availability.Hub
	Metrics      *metrics.BookingMetrics
}

// Migrate creates every table and the active-slot partial index.
func Migrate(db *gorm.DB) error {
	var models []any
	models = append(models, schedule.Models()...)
	models = append(models, appointment.Models()...)
	models = append(models, message.Models()...)
	return database.Migrate(db, models, appointment.Statements())
}

// NewRedis returns nil when url is empty.
func NewRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func New(d Deps) (*App, error) {
	if d.Config == nil || d.DB == nil {
		return nil, fmt.Errorf("server: config and db are required")
	}
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	m := metrics.NewBookingMetrics(registerer)

	sender := d.Sender
	if sender == nil {
		sender = notify.NewEmailSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, log.Named("email"))
	}

	templates := schedule.NewTemplateRepository(d.DB)
	blocked := schedule.NewBlockedDateRepository(d.DB)
	appts := appointment.NewRepository(d.DB)

	opts := []availability.Option{
		availability.WithLeadBuffer(cfg.LeadBuffer),
		availability.WithLogger(log.Named("availability")),
		availability.WithMetrics(m),
	}
	if d.Now != nil {
		opts = append(opts, availability.WithClock(d.Now))
	}
	resolver := availability.NewResolver(templates, blocked, appts, cfg.Location, opts...)
	hub := availability.NewHub(cfg.CORSAllowedOrigins, log.Named("hub"))

	notifier := notify.NewAppointmentNotifier(sender, notify.AppointmentNotifierConfig{
		PublicBaseURL: cfg.PublicBaseURL,
		StaffEmail:    cfg.StaffNotifyEmail,
		BusinessName:  cfg.EmailFromName,
	})

	app := &App{
		Appointments: appointment.NewService(appts, resolver, notifier, appointment.Config{
			ReminderWindow: cfg.ReminderWindow,
			Logger:         log.Named("appointment"),
			Metrics:        m,
			Events:         hub,
		}),
		Schedule: schedule.NewService(templates, blocked, cfg.Location, log.Named("schedule")),
		Messages: message.NewService(message.NewRepository(d.DB), sender, cfg.StaffNotifyEmail, log.Named("message")),
		Resolver: resolver,
		Hub:      hub,
		Metrics:  m,
	}

	var limiter middleware.Limiter = middleware.NewLocalLimiter(cfg.RateLimitPerMinute)
	if d.Redis != nil {
		limiter = middleware.NewRedisLimiter(d.Redis, cfg.RateLimitPerMinute, time.Minute, "agencyhub:rl")
	}

	app.Router = newRouter(app, routerDeps{
		cfg:      cfg,
		log:      log,
		jwt:      jwt.New(cfg.JWTSecret, cfg.JWTIssuer, time.Hour),
		limiter:  limiter,
		gatherer: gatherer,
	})
	return app, nil
}

type routerDeps struct {
	cfg      *config.Config
	log      *zap.Logger
	jwt      *jwt.Service
	limiter  middleware.Limiter
	gatherer prometheus.Gatherer
}

func newRouter(app *App, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.log.Named("http")),
		middleware.CORS(d.cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{})))

	apptHandler := appointment.NewHandler(app.Appointments)
	msgHandler := message.NewHandler(app.Messages)

	api := r.Group("/api/v1")
	{
		availability.RegisterRoutes(api, availability.NewHandler(app.Resolver, app.Hub))
		appointment.RegisterPublicRoutes(api, apptHandler, middleware.RateLimit(d.limiter, "booking", d.log))
		message.RegisterPublicRoutes(api, msgHandler, middleware.RateLimit(d.limiter, "contact", d.log))
	}

	staff := api.Group("/admin", middleware.JWTAuth(d.jwt), middleware.StaffOnly())
	{
		schedule.RegisterAdminRoutes(staff, schedule.NewHandler(app.Schedule), middleware.AdminOnly())
		appointment.RegisterAdminRoutes(staff, apptHandler)
		message.RegisterAdminRoutes(staff, msgHandler)
	}

	cron := api.Group("/cron", middleware.CronSecret(d.cfg.CronSecret, d.log))
	appointment.RegisterCronRoutes(cron, apptHandler)

	return r
}
