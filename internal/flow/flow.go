// Package flow implements the client-side confirmation state machine:
// submit the lead, poll delivery status on a fixed interval, and let the
// user short-circuit with a manual receipt confirmation or a resend.
package flow

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

type Step string

const (
	StepEmail        Step = "email"
	StepConfirmation Step = "confirmation"
	StepSuccess      Step = "success"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultPollCeiling  = 2 * time.Minute
)

// Flow drives one lead-capture session. At most one poll loop is active
// per Flow; submitting or resending cancels the previous loop before
// starting a new one.
type Flow struct {
	api      API
	slug     string
	interval time.Duration
	ceiling  time.Duration
	log      *zap.Logger

	mu          sync.Mutex
	step        Step
	email       string
	emailSendID string
	status      models.SendStatus
	generation  int
	cancelPoll  context.CancelFunc
}

type Option func(*Flow)

func WithInterval(d time.Duration) Option {
	return func(f *Flow) { f.interval = d }
}

func WithCeiling(d time.Duration) Option {
	return func(f *Flow) { f.ceiling = d }
}

func New(api API, slug string, log *zap.Logger, opts ...Option) *Flow {
	f := &Flow{
		api:      api,
		slug:     slug,
		interval: DefaultPollInterval,
		ceiling:  DefaultPollCeiling,
		log:      log,
		step:     StepEmail,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit dispatches the lead and enters the confirmation step, starting
// the status poll loop.
func (f *Flow) Submit(ctx context.Context, email string) error {
	id, err := f.api.SubmitLead(ctx, f.slug, email)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.stopPollLocked()
	f.email = email
	f.emailSendID = id
	f.status = ""
	f.step = StepConfirmation
	gen, pollCtx := f.startPollLocked()
	f.mu.Unlock()

	go f.poll(pollCtx, gen, id)
	return nil
}

// Resend cancels the active poll loop and re-submits with a corrected
// address, resetting delivery tracking for the new send.
func (f *Flow) Resend(ctx context.Context, email string) error {
	f.StopPolling()
	return f.Submit(ctx, email)
}

// Confirm calls the confirm-delivery operation and transitions to the
// success step regardless of polling outcome.
func (f *Flow) Confirm(ctx context.Context) error {
	f.StopPolling()

	f.mu.Lock()
	id := f.emailSendID
	f.mu.Unlock()

	var err error
	if id != "" {
		err = f.api.ConfirmDelivery(ctx, id)
	}

	f.mu.Lock()
	f.step = StepSuccess
	f.mu.Unlock()
	return err
}

// StopPolling cancels the active poll loop, if any. Callers navigating
// away must stop the loop so it cannot race a later one.
func (f *Flow) StopPolling() {
	f.mu.Lock()
	f.stopPollLocked()
	f.mu.Unlock()
}

func (f *Flow) stopPollLocked() {
	if f.cancelPoll != nil {
		f.cancelPoll()
		f.cancelPoll = nil
	}
	f.generation++
}

// startPollLocked arms a new poll context bounded by the ceiling and
// returns the generation guarding against stale loops.
func (f *Flow) startPollLocked() (int, context.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), f.ceiling)
	f.cancelPoll = cancel
	return f.generation, ctx
}

func (f *Flow) poll(ctx context.Context, gen int, emailSendID string) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Ceiling reached or canceled. The confirmation step stays
			// visually "sending"; there is no timeout error state.
			return
		case <-ticker.C:
			status, err := f.api.DeliveryStatus(ctx, emailSendID)
			if err != nil {
				// Transient poll failures are ignored; keep polling.
				continue
			}
			switch status {
			case models.StatusDelivered, models.StatusBounced, models.StatusFailed:
				f.mu.Lock()
				if f.generation == gen {
					f.status = status
					f.stopPollLocked()
				}
				f.mu.Unlock()
				return
			}
		}
	}
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// DeliveryStatus is the last terminal status observed by the poll loop,
// or empty while the send is still in flight.
func (f *Flow) DeliveryStatus() models.SendStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *Flow) EmailSendID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emailSendID
}
