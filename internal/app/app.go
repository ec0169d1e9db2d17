package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sideline-app/client/config"
	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/db"
	"github.com/sideline-app/client/internal/mq"
	"github.com/sideline-app/client/internal/overlay"
	"github.com/sideline-app/client/internal/services"
	"github.com/sideline-app/client/internal/session"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/internal/storage"
	"github.com/sideline-app/client/internal/store"
)

// App wires the client state layer to its backends.
type App struct {
	Config config.Config

	API      *apiclient.Client
	State    *store.StateRepository
	Sessions *session.Store
	History  *shell.History
	Shell    *shell.Shell
	Overlays *overlay.Orchestrator
	Events   *mq.Events

	Auth         *services.AuthService
	Passwords    *services.PasswordService
	Profiles     *services.ProfileService
	Jobs         *services.JobService
	Applications *services.ApplicationService

	db      *sql.DB
	objects storage.ObjectStorage

	mu    sync.Mutex
	views []*shell.View
}

// Option adjusts how New builds the App.
type Option func(*options)

type options struct {
	scheduler overlay.Scheduler
	migrate   bool
}

// WithScheduler replaces the timers used by overlays.
func WithScheduler(s overlay.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithoutMigrations skips applying state migrations on startup.
func WithoutMigrations() Option {
	return func(o *options) { o.migrate = false }
}

// New opens the state database, connects the optional storage and
// messaging backends, and constructs every service.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{migrate: true}
	for _, opt := range opts {
		opt(&o)
	}

	dbConn, err := db.Open(ctx, cfg.State)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	if o.migrate {
		if err := db.Migrate(cfg.State); err != nil {
			_ = dbConn.Close()
			return nil, err
		}
	}

	a := &App{Config: cfg, db: dbConn}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.objects = objects

	backend, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open message queue: %w", err)
	}

	a.API = apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	a.State = store.NewStateRepository(dbConn, cfg.State.Driver, cfg.State.Namespace)
	a.Sessions = session.NewStore(a.State, a.API)
	a.Events = mq.NewEvents(backend, cfg.MQ.Channel, cfg.State.Namespace)
	a.History = shell.NewHistory()
	a.Shell = shell.New(ctx, a.Sessions, a.History)

	var resumes services.ResumeUploader
	if objects != nil {
		resumes = storage.NewResumeStore(objects)
	}
	var events services.EventPublisher
	if a.Events != nil {
		events = a.Events
	}

	a.Auth = services.NewAuthService(a.Sessions, a.History)
	a.Passwords = services.NewPasswordService(a.API, a.History)
	a.Profiles = services.NewProfileService(a.API, a.Sessions)
	a.Jobs = services.NewJobService(a.API, a.Sessions, a.History)
	a.Applications = services.NewApplicationService(a.API, a.Sessions, a.History, resumes, events)
	a.Overlays = overlay.New(a.State, a.Profiles, a.History, o.scheduler, overlay.Timings{
		LoginRedirect: cfg.UI.LoginRedirectDelay,
		DeletedAlert:  cfg.UI.DeletedAlertDelay,
	})

	slog.Debug("client ready",
		"api", cfg.APIBaseURL,
		"state_driver", cfg.State.Driver,
		"storage", cfg.Storage.Backend,
		"mq", cfg.MQ.Backend,
	)
	return a, nil
}

// Close releases the backends opened by New.
// OpenView starts a screen scope under parent. Views still open when the
// App closes are closed with it.
func (a *App) OpenView(parent context.Context) *shell.View {
	if parent == nil {
		parent = context.Background()
	}
	v := shell.NewView(parent)
	a.mu.Lock()
	a.views = append(a.views, v)
	a.mu.Unlock()
	return v
}

func (a *App) Close() error {
	a.mu.Lock()
	views := a.views
	a.views = nil
	a.mu.Unlock()
	for _, v := range views {
		v.Close()
	}

	var errs []error
	if a.Shell != nil {
		a.Shell.Close()
	}
	if a.Events != nil {
		errs = append(errs, a.Events.Close())
	}
	if a.objects != nil {
		errs = append(errs, a.objects.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
