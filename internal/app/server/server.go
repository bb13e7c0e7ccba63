package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/benefits"
	"hrms/internal/domain/contact"
	"hrms/internal/domain/department"
	"hrms/internal/domain/device"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/feedback"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/recruitment"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/storage"
	"hrms/internal/transport/http/api"
	authhandler "hrms/internal/transport/http/handlers/auth"
	benefitshandler "hrms/internal/transport/http/handlers/benefits"
	contacthandler "hrms/internal/transport/http/handlers/contact"
	departmenthandler "hrms/internal/transport/http/handlers/department"
	devicehandler "hrms/internal/transport/http/handlers/device"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	feedbackhandler "hrms/internal/transport/http/handlers/feedback"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	recruitmenthandler "hrms/internal/transport/http/handlers/recruitment"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

const shutdownTimeout = 15 * time.Second

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services is everything the router dispatches to.
type Services struct {
	Auth        *auth.Service
	Employees   *employee.Service
	Departments *department.Service
	Payroll     *payroll.Service
	Leave       *leave.Service
	Recruitment *recruitment.Service
	Devices     *device.Service
	Feedback    *feedback.Service
	Benefits    *benefits.Service
	Contact     *contact.Service
}

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Router    http.Handler
	Metrics   *metrics.Collector
	Scheduler *jobs.Scheduler
}

// New connects to the database, applies migrations and the seed when
// configured, and assembles the router and the background scheduler.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "db connect")
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "migrate")
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "seed")
		}
	}

	archive, err := storage.New(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "object storage")
	}

	services := NewServices(pool, cfg, archive)
	collector := metrics.New()

	scheduler, err := jobs.New(cfg.SweepSchedule(), services.Payroll)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "scheduler")
	}
	scheduler.OnSwept = collector.AddOverdue

	return &App{
		Config:    cfg,
		DB:        pool,
		Router:    NewRouter(cfg, services, collector, pool),
		Metrics:   collector,
		Scheduler: scheduler,
	}, nil
}

// NewServices builds the domain services over one connection pool. archive
// may be nil, in which case payslips are rendered on demand only.
func NewServices(pool *pgxpool.Pool, cfg config.Config, archive *storage.Archive) Services {
	employees := employee.NewService(employee.NewStore(pool))
	var archiver payroll.Archiver
	if archive != nil {
		archiver = archive
	}
	return Services{
		Auth:        auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL, cfg.AllowPrivilegedSignup),
		Employees:   employees,
		Departments: department.NewService(department.NewStore(pool)),
		Payroll:     payroll.NewService(payroll.NewStore(pool), archiver),
		Leave:       leave.NewService(leave.NewStore(pool), employees),
		Recruitment: recruitment.NewService(recruitment.NewStore(pool)),
		Devices:     device.NewService(device.NewStore(pool), employees),
		Feedback:    feedback.NewService(feedback.NewStore(pool)),
		Benefits:    benefits.NewService(benefits.NewStore(pool)),
		Contact:     contact.NewService(email.New(cfg), cfg.EmailFrom, cfg.ContactRecipient),
	}
}

// NewRouter wires the middleware chain and every route under /api.
func NewRouter(cfg config.Config, services Services, collector *metrics.Collector, pinger Pinger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	// Limiters key signed-in callers by user, so the actor must be resolved first.
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", shared.RequestID(r))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", shared.RequestID(r))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, shared.RequestID(r))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if pinger == nil || pinger.Ping(ctx) != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database not ready", shared.RequestID(r))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, shared.RequestID(r))
	})
	router.With(middleware.RequirePermission(auth.PermSystemMetrics)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), shared.RequestID(r))
	})

	router.Route("/api", func(r chi.Router) {
		authhandler.NewHandler(services.Auth, services.Employees).RegisterRoutes(r)
		contacthandler.NewHandler(services.Contact).RegisterRoutes(r)
		employeehandler.NewHandler(services.Employees).RegisterRoutes(r)
		departmenthandler.NewHandler(services.Departments).RegisterRoutes(r)
		payrollhandler.NewHandler(services.Payroll).RegisterRoutes(r)
		leavehandler.NewHandler(services.Leave).RegisterRoutes(r)
		recruitmenthandler.NewHandler(services.Recruitment).RegisterRoutes(r)
		devicehandler.NewHandler(services.Devices).RegisterRoutes(r)
		feedbackhandler.NewHandler(services.Feedback).RegisterRoutes(r)
		benefitshandler.NewHandler(services.Benefits).RegisterRoutes(r)
	})
	return router
}

// Run serves HTTP and the scheduler until ctx is cancelled, then drains both.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.Scheduler.Start()
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", a.Config.Addr).Info("HRM server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Scheduler.Stop(context.Background())
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
