package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-reader/config"
	"news-reader/internal/cache"
	"news-reader/internal/database"
	"news-reader/internal/handler"
	"news-reader/internal/metrics"
	"news-reader/internal/middleware"
	"news-reader/internal/news"
	"news-reader/internal/repository"
	"news-reader/internal/service"
	"news-reader/internal/session"
	"news-reader/internal/view"
	"news-reader/pkg/email"
	"news-reader/pkg/security"
)

type Application struct {
	Router         *mux.Router
	Config         *config.Config
	Logger         *slog.Logger
	DBManager      *database.Manager
	Hub            *session.Hub
	Gate           *middleware.SessionGate
	AuthService    *service.AuthService
	ArticleService *service.ArticleService
	AuthHandler    *handler.AuthHandler
	NewsHandler    *handler.NewsHandler
	SessionHandler *handler.SessionHandler
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	dbManager, err := database.NewManager(ctx, DatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}

	app, err := build(cfg, logger, dbManager.GetDB(), NewProvider(cfg, logger))
	if err != nil {
		_ = dbManager.Close()
		return nil, err
	}
	app.DBManager = dbManager
	return app, nil
}

func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		ConnectionString: cfg.DatabaseURL,
		Host:             cfg.DBHost,
		Port:             cfg.DBPort,
		User:             cfg.DBUser,
		Password:         cfg.DBPassword,
		DBName:           cfg.DBName,
	}
}

// NewProvider builds the configured news provider. A configuration error
// yields a provider that always fails, so the feed renders empty.
func NewProvider(cfg *config.Config, logger *slog.Logger) news.Provider {
	provider, err := news.New(news.Config{
		Provider: cfg.NewsProvider,
		APIKey:   cfg.NewsAPIKey,
		BaseURL:  cfg.NewsAPIURL,
		Query:    cfg.NewsQuery,
		Timeout:  cfg.NewsTimeout,
	})
	if err != nil {
		logger.Warn("news provider not configured, the feed will be empty",
			slog.String("provider", cfg.NewsProvider),
			slog.Any("error", err))
		return news.Unavailable{ProviderName: cfg.NewsProvider, Reason: err}
	}
	return provider
}

func newEmailService(cfg *config.Config, logger *slog.Logger) email.Service {
	if !cfg.SMTPConfigured() {
		logger.Warn("SMTP not configured, reset codes will only be logged")
		return email.NewLogService(logger)
	}

	smtp, err := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		logger.Warn("email service initialization failed, reset codes will only be logged", slog.Any("error", err))
		return email.NewLogService(logger)
	}
	return smtp
}

func build(cfg *config.Config, logger *slog.Logger, db *sql.DB, provider news.Provider) (*Application, error) {
	views, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	hub := session.NewHub()
	hub.OnCountChange(func(n int) {
		metrics.SessionStreams.Set(float64(n))
	})

	authService := service.NewAuthService(
		repository.NewAccountRepository(db),
		repository.NewProfileRepository(db),
		repository.NewResetCodeRepository(db),
		newEmailService(cfg, logger),
		security.NewCodeGenerator(6),
		hub,
	)
	articleService := service.NewArticleService(provider, cache.NewArticles(cfg.ArticleCacheTTL))

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	gate := middleware.NewSessionGate(sessionStore)

	app := &Application{
		Router:         mux.NewRouter().UseEncodedPath(),
		Config:         cfg,
		Logger:         logger,
		Hub:            hub,
		Gate:           gate,
		AuthService:    authService,
		ArticleService: articleService,
		AuthHandler:    handler.NewAuthHandler(authService, views, gate),
		NewsHandler:    handler.NewNewsHandler(articleService, views, gate),
		SessionHandler: handler.NewSessionHandler(hub),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *Application) setupMiddleware() {
	a.Router.Use(middleware.RequestID(a.Logger))
	a.Router.Use(middleware.Recover)
	a.Router.Use(middleware.Logging)
	a.Router.Use(securityHeadersMiddleware(a.Config.IsProduction()))

	if a.Config.IsProduction() {
		a.Logger.Info("CSRF protection enabled")
		csrfOptions := []csrf.Option{
			csrf.Secure(true),
			csrf.HttpOnly(true),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
		}
		if a.Config.AppURL != "" {
			csrfOptions = append(csrfOptions, csrf.TrustedOrigins([]string{a.Config.AppURL}))
			a.Logger.Info("CSRF trusted origin configured", slog.String("origin", a.Config.AppURL))
		}
		a.Router.Use(csrf.Protect([]byte(a.Config.CSRFSecret), csrfOptions...))
	} else {
		a.Logger.Info("CSRF protection disabled in development mode")
	}
}

func securityHeadersMiddleware(isProduction bool) func(http.Handler) http.Handler {
	// Provider images are hotlinked.
	csp := "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:;"
	if !isProduction {
		csp = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: http: https:;"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}

func (a *Application) setupRoutes() {
	a.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	a.Router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", view.Static()))
	a.Router.Handle("/session/events", a.Gate.WithSession(http.HandlerFunc(a.SessionHandler.Events))).Methods("GET")

	pages := a.Router.NewRoute().Subrouter()
	pages.Use(a.Gate.Gate)

	pages.HandleFunc("/", a.NewsHandler.Home).Methods("GET")
	pages.HandleFunc("/articles", a.NewsHandler.Articles).Methods("GET")
	pages.HandleFunc("/about", a.NewsHandler.About).Methods("GET")
	pages.HandleFunc("/login", a.AuthHandler.Login).Methods("GET", "POST")
	pages.HandleFunc("/register", a.AuthHandler.Register).Methods("GET", "POST")
	pages.HandleFunc("/forgot-password", a.AuthHandler.ForgotPassword).Methods("GET", "POST")
	pages.HandleFunc("/completeProfile", a.AuthHandler.CompleteProfile).Methods("GET", "POST")
	pages.HandleFunc("/logout", a.AuthHandler.Logout).Methods("POST")

	// Registered last so the fixed paths above win. Matching runs on the
	// escaped path, so an id keeps its encoded slashes inside one segment.
	pages.HandleFunc("/{id}/comments", a.NewsHandler.AddComment).Methods("POST")
	pages.HandleFunc("/{id}", a.NewsHandler.Detail).Methods("GET")
}

func (a *Application) Close() error {
	if a.AuthService != nil {
		a.AuthService.Close()
	}
	if a.DBManager != nil {
		return a.DBManager.Close()
	}
	return nil
}
