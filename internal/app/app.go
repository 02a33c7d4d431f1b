// Package app builds the application context once at startup and hands every
// handler its dependencies.
package app

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yukikurage/showcase/internal/config"
	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/database"
	"github.com/yukikurage/showcase/internal/handlers"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/repository"
	"github.com/yukikurage/showcase/internal/services"
	"github.com/yukikurage/showcase/internal/session"
	"github.com/yukikurage/showcase/internal/storage"
	"github.com/yukikurage/showcase/internal/web"
	"gorm.io/gorm"
)

// App owns every long-lived dependency.
type App struct {
	Config *config.Config
	Logger logging.Logger
	DB     *gorm.DB
	Kind   models.Kind

	Sessions    *session.MemoryStore
	Storage     storage.Storage
	Identity    *services.IdentityService
	Auth        *services.AuthService
	Attachments *services.AttachmentService
	Entities    *services.EntityService

	router *gin.Engine
}

// New connects to the configured database, migrates it and builds the app.
func New(cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	a, err := NewWithDB(cfg, logger, db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return a, nil
}

// NewWithDB builds the app on an open database.
func NewWithDB(cfg *config.Config, logger logging.Logger, db *gorm.DB) (*App, error) {
	kind, err := models.LookupKind(cfg.EntityKind)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, kind); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	registry := session.NewMemoryStore()
	identity := services.NewIdentityService(repository.NewUserRepository(db), cfg.BcryptCost)
	auth, err := services.NewAuthService(identity, registry, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	attachments := services.NewAttachmentService(store, logger)
	entities := services.NewEntityService(repository.NewEntityRepository(db, kind), attachments, logger)

	a := &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Kind:        kind,
		Sessions:    registry,
		Storage:     store,
		Identity:    identity,
		Auth:        auth,
		Attachments: attachments,
		Entities:    entities,
	}

	router, err := a.buildRouter()
	if err != nil {
		return nil, err
	}
	a.router = router

	return a, nil
}

// NewStorage picks the attachment backend named by STORAGE_BACKEND.
func NewStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "s3":
		return storage.NewS3(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
			Prefix:    "uploads",
		})
	case "local":
		return storage.NewLocal(cfg.ContentDir)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageBackend, cfg.StorageBackend)
	}
}

func (a *App) buildRouter() (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.Logger))
	r.MaxMultipartMemory = a.Config.MaxUploadMB << 20
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(a.Config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(a.Config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.LoadIdentity(a.Auth))

	authHandler := handlers.NewAuthHandler(a.Identity, a.Auth, a.Kind, a.Logger)
	entityHandler := handlers.NewEntityHandler(a.Entities, a.Attachments, a.Logger)
	apiHandler := handlers.NewAPIHandler(a.Entities, a.Identity, a.Logger)
	plural := a.Kind.Plural
	requireAdd := middleware.RequireAuth(a.Auth, middleware.LoginNotice("add", plural))
	requireEdit := middleware.RequireAuth(a.Auth, middleware.LoginNotice("edit", plural))
	requireDelete := middleware.RequireAuth(a.Auth, middleware.LoginNotice("delete", plural))
	sameSite := middleware.RejectCrossSite()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"kind":   a.Kind.Name,
		})
	})

	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", sameSite, authHandler.Logout)

	r.GET("/", entityHandler.Index)
	r.GET("/uploads/:filename", entityHandler.Upload)

	r.GET("/add", requireAdd, entityHandler.AddForm)
	r.POST("/add", requireAdd, entityHandler.Add)
	r.GET("/edit/:id", requireEdit, entityHandler.EditForm)
	r.POST("/edit/:id", requireEdit, entityHandler.Edit)
	r.GET("/delete/:id", sameSite, requireDelete, entityHandler.Delete)

	api := r.Group("/api")
	{
		api.GET("/entities", apiHandler.ListEntities)
		api.GET("/entities/:id", apiHandler.GetEntity)
		api.GET("/auth/me", middleware.RequireAPIAuth(a.Auth), apiHandler.CurrentUser)
	}

	return r, nil
}

// Router returns the gin engine without CSRF protection.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Handler returns the router wrapped in CSRF protection when enabled.
func (a *App) Handler() http.Handler {
	if !a.Config.CSRFEnabled {
		return a.router
	}

	key := sha256.Sum256([]byte(a.Config.SessionSecret))
	protect := csrf.Protect(
		key[:],
		csrf.Secure(a.Config.IsProduction()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)(a.router)

	if a.Config.IsProduction() {
		return protect
	}
	// Without TLS the origin check must be told the request is plain HTTP.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// Close releases the database connection pool.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
