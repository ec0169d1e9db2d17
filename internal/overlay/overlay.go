package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/internal/store"
)

// SiteNoticeKey is the durable marker written once the site notice has
// been dismissed.
const SiteNoticeKey = "site_notice_shown"

// Blocking identifies the blocking overlay on screen. At most one is
// visible at a time.
type Blocking int

const (
	None Blocking = iota
	SiteNotice
	LoginSuccess
	VerifyAccount
)

func (b Blocking) String() string {
	switch b {
	case SiteNotice:
		return "site-notice"
	case LoginSuccess:
		return "login-success"
	case VerifyAccount:
		return "verify-account"
	default:
		return "none"
	}
}

// Choice is the answer given in the verify-account overlay.
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

var (
	ErrNoChoice       = errors.New("please select an option before submitting")
	ErrNotOpen        = errors.New("overlay is not open")
	ErrNothingPending = errors.New("no deletion awaiting confirmation")
)

// MarkerStore persists one-time markers.
type MarkerStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// EmailStatusSetter records the verify-account answer on the server.
type EmailStatusSetter interface {
	SetEmailSent(ctx context.Context, sent bool) error
}

// Timer is a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Timings holds the auto-dismiss delays.
type Timings struct {
	LoginRedirect time.Duration
	DeletedAlert  time.Duration
}

// Snapshot is the visible overlay state.
type Snapshot struct {
	Blocking Blocking

	// ApplicantsJobID is the job whose applicants are listed, 0 when closed.
	ApplicantsJobID int64

	// DeleteJobID is the job awaiting delete confirmation, 0 when none.
	DeleteJobID int64

	DeletedAlert bool
}

// Orchestrator owns every overlay shown above page content.
type Orchestrator struct {
	markers  MarkerStore
	verifier EmailStatusSetter
	nav      shell.Navigator
	sched    Scheduler
	timings  Timings

	mu            sync.Mutex
	blocking      Blocking
	blockingTimer Timer
	blockingGen   int
	onVerified    func()

	applicantsJob int64
	deleteJob     int64
	deletedAlert  bool
	alertTimer    Timer
	alertGen      int
}

// New constructs an Orchestrator. A nil sched uses real timers.
func New(markers MarkerStore, verifier EmailStatusSetter, nav shell.Navigator, sched Scheduler, timings Timings) *Orchestrator {
	if sched == nil {
		sched = realScheduler{}
	}
	return &Orchestrator{
		markers:  markers,
		verifier: verifier,
		nav:      nav,
		sched:    sched,
		timings:  timings,
	}
}

// Snapshot returns the current overlay state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Blocking:        o.blocking,
		ApplicantsJobID: o.applicantsJob,
		DeleteJobID:     o.deleteJob,
		DeletedAlert:    o.deletedAlert,
	}
}

// show replaces the blocking overlay. Callers hold o.mu.
func (o *Orchestrator) show(b Blocking) int {
	if o.blockingTimer != nil {
		o.blockingTimer.Stop()
		o.blockingTimer = nil
	}
	if o.blocking != b {
		slog.Debug("overlay", "from", o.blocking, "to", b)
	}
	o.blocking = b
	o.onVerified = nil
	o.blockingGen++
	return o.blockingGen
}

// Init shows the site notice unless it was dismissed before.
func (o *Orchestrator) Init(ctx context.Context) error {
	_, err := o.markers.Get(ctx, SiteNoticeKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read site notice marker: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.blocking == None {
		o.show(SiteNotice)
	}
	return nil
}

// DismissSiteNotice hides the site notice and remembers the dismissal.
func (o *Orchestrator) DismissSiteNotice(ctx context.Context) error {
	if err := o.markers.Set(ctx, SiteNoticeKey, "true"); err != nil {
		return fmt.Errorf("write site notice marker: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.blocking == SiteNotice {
		o.show(None)
	}
	return nil
}

// ShowLoginSuccess shows the login confirmation. It hides itself and
// moves to the find-work page after the login redirect delay.
func (o *Orchestrator) ShowLoginSuccess() {
	o.mu.Lock()
	defer o.mu.Unlock()
	gen := o.show(LoginSuccess)
	o.blockingTimer = o.sched.AfterFunc(o.timings.LoginRedirect, func() {
		o.finishLoginSuccess(gen)
	})
}

// DismissLoginSuccess finishes the login confirmation immediately.
func (o *Orchestrator) DismissLoginSuccess() {
	o.mu.Lock()
	gen := o.blockingGen
	o.mu.Unlock()
	o.finishLoginSuccess(gen)
}

func (o *Orchestrator) finishLoginSuccess(gen int) {
	o.mu.Lock()
	if o.blocking != LoginSuccess || o.blockingGen != gen {
		o.mu.Unlock()
		return
	}
	o.show(None)
	o.mu.Unlock()

	o.nav.Navigate(shell.RouteFindWork, nil)
}

// OpenVerify shows the verify-account overlay. onVerified runs after the
// server accepted a "yes" answer.
func (o *Orchestrator) OpenVerify(onVerified func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.show(VerifyAccount)
	o.onVerified = onVerified
}

func (o *Orchestrator) CloseVerify() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.blocking == VerifyAccount {
		o.show(None)
	}
}

// SubmitVerification sends the answer. The overlay stays open when the
// answer is missing or the server rejects it.
func (o *Orchestrator) SubmitVerification(ctx context.Context, choice Choice) error {
	switch choice {
	case ChoiceYes, ChoiceNo:
	case "":
		return ErrNoChoice
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}

	o.mu.Lock()
	if o.blocking != VerifyAccount {
		o.mu.Unlock()
		return ErrNotOpen
	}
	gen := o.blockingGen
	o.mu.Unlock()

	if err := o.verifier.SetEmailSent(ctx, choice == ChoiceYes); err != nil {
		return err
	}

	o.mu.Lock()
	if o.blocking != VerifyAccount || o.blockingGen != gen {
		o.mu.Unlock()
		return nil
	}
	onVerified := o.onVerified
	o.show(None)
	o.mu.Unlock()

	if choice == ChoiceYes && onVerified != nil {
		onVerified()
	}
	return nil
}

// OpenApplicants lists the applicants of one job.
func (o *Orchestrator) OpenApplicants(jobID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applicantsJob = jobID
}

func (o *Orchestrator) CloseApplicants() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applicantsJob = 0
}

// RequestDelete asks for confirmation before deleting jobID. Only one
// job's confirmation is visible at a time.
func (o *Orchestrator) RequestDelete(jobID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleteJob = jobID
}

func (o *Orchestrator) CancelDelete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleteJob = 0
}

// ConfirmDelete runs del for the job awaiting confirmation. On success
// the deleted alert is shown and dismisses itself after the alert delay.
func (o *Orchestrator) ConfirmDelete(ctx context.Context, del func(ctx context.Context, jobID int64) error) error {
	o.mu.Lock()
	jobID := o.deleteJob
	o.deleteJob = 0
	o.mu.Unlock()

	if jobID == 0 {
		return ErrNothingPending
	}
	if err := del(ctx, jobID); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.applicantsJob == jobID {
		o.applicantsJob = 0
	}
	if o.alertTimer != nil {
		o.alertTimer.Stop()
	}
	o.deletedAlert = true
	o.alertGen++
	gen := o.alertGen
	o.alertTimer = o.sched.AfterFunc(o.timings.DeletedAlert, func() {
		o.dismissAlert(gen)
	})
	return nil
}

// DismissDeletedAlert hides the deleted alert.
func (o *Orchestrator) DismissDeletedAlert() {
	o.mu.Lock()
	gen := o.alertGen
	o.mu.Unlock()
	o.dismissAlert(gen)
}

func (o *Orchestrator) dismissAlert(gen int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.alertGen {
		return
	}
	if o.alertTimer != nil {
		o.alertTimer.Stop()
		o.alertTimer = nil
	}
	o.deletedAlert = false
}
