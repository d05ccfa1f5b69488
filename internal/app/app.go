package app

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/config"
	"github.com/justsurfingit/jobster-api/internal/database"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/handlers"
	"github.com/justsurfingit/jobster-api/internal/logging"
	"github.com/justsurfingit/jobster-api/internal/media"
	"github.com/justsurfingit/jobster-api/internal/services"
)

// App is the dependency container shared by the serve and worker commands.
type App struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB

	Media  *media.DiskStore
	Broker *events.RabbitMQ // nil when events are handled inline
	Events events.Publisher

	Users        *services.UserService
	Jobs         *services.JobService
	Companies    *services.CompanyService
	Applications *services.ApplicationService
	Activity     *services.ActivityService
	Matcher      *services.MatcherService
	Issuer       *auth.TokenIssuer
}

// New connects to the database and broker and wires the services. The
// schema is migrated before anything else touches it.
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}

	store, err := media.NewDiskStore(cfg.Media.Dir, cfg.Media.BaseURL, cfg.Media.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    log,
		DB:     db,
		Media:  store,
		Issuer: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire),
	}
	a.Activity = services.NewActivityService(db, log)
	a.Events = &events.Inline{Handler: a.Activity.Record}

	if cfg.RabbitMQ.URL != "" {
		broker, err := events.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, recording job events inline")
		} else {
			a.Broker = broker
			a.Events = broker
		}
	}

	a.Users = services.NewUserService(db, store, log)
	a.Jobs = services.NewJobService(db, a.Events, log)
	a.Companies = services.NewCompanyService(db, store, log)
	a.Applications = services.NewApplicationService(db, a.Events, log)
	a.Matcher = services.NewMatcherService(db)
	return a, nil
}

// Router builds the gin engine with middleware and the full route table.
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(a.Log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.Config.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	session := handlers.NewSession(a.Issuer, a.Config.Auth.CookieExpire)
	rt := &handlers.Router{
		Users:        handlers.NewUserHandler(a.Users, session),
		Jobs:         handlers.NewJobHandler(a.Jobs, a.Users, a.Applications, a.Matcher, a.Activity),
		Companies:    handlers.NewCompanyHandler(a.Companies, a.Users),
		Applications: handlers.NewApplicationHandler(a.Applications),
		Issuer:       a.Issuer,
		MediaDir:     a.Media.Dir,
	}
	rt.Register(r)
	return r
}

// Close releases the broker and database connections.
func (a *App) Close() error {
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			a.Log.WithError(err).Warn("failed to close RabbitMQ connection")
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
