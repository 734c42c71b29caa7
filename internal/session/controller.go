package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventStateChanged EventType = "state_changed"
	EventTick         EventType = "tick"
	EventAnswered     EventType = "answered"
	EventError        EventType = "error"
	EventErrorCleared EventType = "error_cleared"
)

// Event is delivered to subscribers on every observable change. Err is set
// only for EventError.
type Event struct {
	Type      EventType
	State     State
	Remaining int
	Err       error
}

// Controller owns one timed attempt from load to submission. All methods are
// safe for concurrent use; the countdown goroutine is the only non-caller
// source of change and is acquired on entering Active and released on every
// path out of it.
type Controller struct {
	provider QuestionProvider
	sink     SubmissionSink
	prefs    Preferences
	identity string

	tickInterval time.Duration
	errorDisplay time.Duration

	mu        sync.Mutex
	state     State
	subject   string
	diff      Difficulty
	questions []Question
	answers   map[uint]string
	remaining int
	focus     int
	result    *Result
	displayed error
	countdown *countdown
	errTimer  *time.Timer
	subs      []func(Event)
}

type Option func(*Controller)

// WithIdentity attaches the opaque credential passed to the SubmissionSink.
// Without it the sink is skipped and the attempt is scored locally only.
func WithIdentity(identity string) Option {
	return func(c *Controller) { c.identity = identity }
}

// WithPreferences injects the collaborator holding the user's persisted
// difficulty and count defaults.
func WithPreferences(prefs Preferences) Option {
	return func(c *Controller) { c.prefs = prefs }
}

// WithTickInterval overrides the one-second countdown cadence. Zero disables
// the autonomous timer; callers then drive Tick themselves.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tickInterval = d }
}

// WithErrorDisplay overrides how long validation and submission errors stay
// visible before auto-clearing. Zero disables auto-clear.
func WithErrorDisplay(d time.Duration) Option {
	return func(c *Controller) { c.errorDisplay = d }
}

func NewController(provider QuestionProvider, sink SubmissionSink, opts ...Option) *Controller {
	c := &Controller{
		provider:     provider,
		sink:         sink,
		tickInterval: time.Second,
		errorDisplay: 5 * time.Second,
		state:        StateLoading,
		answers:      make(map[uint]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers a state-change observer. Events are delivered
// synchronously after the transition completes; observers must not call back
// into the controller from the handler.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Load fetches the question set and arms the countdown. A single attempt, no
// retry: on provider failure the session stays in Loading and is reported
// unusable to the caller. Empty difficulty or zero count fall back to the
// injected preferences.
func (c *Controller) Load(ctx context.Context, subject string, difficulty Difficulty, count int) error {
	if subject == "" {
		return fmt.Errorf("subject is required")
	}

	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return fmt.Errorf("session already loaded (state %s)", c.state)
	}
	if c.prefs != nil {
		if saved, ok := c.prefs.Get(); ok {
			if difficulty == "" {
				difficulty = saved.Difficulty
			}
			if count <= 0 {
				count = saved.Count
			}
		}
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	if count <= 0 {
		return fmt.Errorf("question count must be positive, got %d", count)
	}
	c.subject = subject
	c.diff = difficulty
	c.mu.Unlock()

	questions, err := c.provider.Questions(ctx, subject, difficulty, count)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to load questions")
		return fmt.Errorf("loading questions for %s: %w", subject, err)
	}

	c.mu.Lock()
	// A concurrent Load may have won the race while the provider was in
	// flight; its session stands.
	if c.state != StateLoading {
		c.mu.Unlock()
		return fmt.Errorf("session already loaded (state %s)", c.state)
	}
	if len(questions) == 0 {
		c.state = StateEmpty
		c.mu.Unlock()
		c.emit(Event{Type: EventStateChanged, State: StateEmpty})
		return nil
	}

	c.questions = questions
	// The provider may return fewer than requested; the clock follows what
	// actually arrived.
	c.remaining = SecondsPerQuestion * len(questions)
	c.state = StateActive
	c.startCountdownLocked()
	remaining := c.remaining
	c.mu.Unlock()

	if c.prefs != nil {
		if err := c.prefs.Set(Prefs{Subject: subject, Difficulty: difficulty, Count: count}); err != nil {
			log.Warn().Err(err).Msg("Failed to persist session preferences")
		}
	}

	log.Info().Str("subject", subject).Int("questions", len(questions)).Int("seconds", remaining).Msg("Session active")
	c.emit(Event{Type: EventStateChanged, State: StateActive, Remaining: remaining})
	return nil
}

// SelectAnswer records the chosen option for a question. Re-selection
// overwrites; there is no toggle-off. No-op outside Active.
func (c *Controller) SelectAnswer(questionID uint, option string) {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	c.answers[questionID] = option
	remaining := c.remaining
	c.mu.Unlock()
	c.emit(Event{Type: EventAnswered, State: StateActive, Remaining: remaining})
}

// Tick advances the countdown by one second. At zero it forces submission.
// No-op outside Active, so a straggling tick after submission cannot fire
// into a dead session.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining <= 0
	if expired {
		c.remaining = 0
		remaining = 0
		c.stopCountdownLocked()
	}
	c.mu.Unlock()

	c.emit(Event{Type: EventTick, State: StateActive, Remaining: remaining})
	if expired {
		if err := c.Submit(context.Background(), true); err != nil {
			log.Error().Err(err).Msg("Timed-out submission failed")
		}
	}
}

// Submit finishes the attempt. Without force every question must be
// answered, otherwise an IncompleteError is surfaced and the session stays
// Active. The score is computed exactly once, before the sink is invoked.
// A sink failure returns the session to Active with answers intact; no
// identity means the sink is skipped and the attempt is scored locally.
// No-op outside Active, which also makes re-entrant calls during an
// in-flight submission harmless.
func (c *Controller) Submit(ctx context.Context, force bool) error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return nil
	}

	if !force && len(c.answers) != len(c.questions) {
		err := &IncompleteError{Answered: len(c.answers), Required: len(c.questions)}
		c.displayErrorLocked(err)
		c.mu.Unlock()
		c.emit(Event{Type: EventError, State: StateActive, Err: err})
		return err
	}

	c.state = StateSubmitting
	c.stopCountdownLocked()
	c.clearErrorLocked()

	score := Score(c.questions, c.answers)
	total := len(c.questions)
	accuracy := Accuracy(score, total)

	attempt := Attempt{
		Subject:        c.subject,
		Score:          score,
		TotalQuestions: total,
		Answers:        make(map[uint]string, len(c.answers)),
	}
	for id, selected := range c.answers {
		attempt.Answers[id] = selected
	}
	c.mu.Unlock()
	c.emit(Event{Type: EventStateChanged, State: StateSubmitting})

	var persisted *Result
	if c.sink != nil && c.identity != "" {
		var err error
		persisted, err = c.sink.Submit(ctx, attempt)
		if err != nil {
			log.Error().Err(err).Msg("Submission failed, session stays retryable")
			c.mu.Lock()
			c.state = StateActive
			c.displayErrorLocked(err)
			if c.remaining > 0 {
				c.startCountdownLocked()
			}
			remaining := c.remaining
			c.mu.Unlock()
			c.emit(Event{Type: EventError, State: StateActive, Remaining: remaining, Err: err})
			return fmt.Errorf("submitting assessment: %w", err)
		}
	}

	result := Result{
		Subject:        attempt.Subject,
		Score:          score,
		TotalQuestions: total,
		Accuracy:       accuracy,
		CreatedAt:      time.Now(),
	}
	if persisted != nil {
		result.ID = persisted.ID
		result.Reference = persisted.Reference
		if !persisted.CreatedAt.IsZero() {
			result.CreatedAt = persisted.CreatedAt
		}
	}

	c.mu.Lock()
	c.result = &result
	c.state = StateSubmitted
	c.mu.Unlock()

	log.Info().Int("score", score).Int("total", total).Int("accuracy", accuracy).Msg("Session submitted")
	c.emit(Event{Type: EventStateChanged, State: StateSubmitted})
	return nil
}

// Close releases the countdown on teardown. It does not submit.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopCountdownLocked()
	c.clearErrorLocked()
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Questions returns the loaded set. The slice is shared; callers must treat
// it as read-only.
func (c *Controller) Questions() []Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions
}

// Answers returns a copy of the current answer map.
func (c *Controller) Answers() map[uint]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	answers := make(map[uint]string, len(c.answers))
	for id, selected := range c.answers {
		answers[id] = selected
	}
	return answers
}

func (c *Controller) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.answers)
}

// Result returns the scored outcome once Submitted, nil before.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}

// DisplayedError returns the currently visible error message, if any.
func (c *Controller) DisplayedError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

func (c *Controller) displayErrorLocked(err error) {
	c.displayed = err
	if c.errTimer != nil {
		c.errTimer.Stop()
	}
	if c.errorDisplay <= 0 {
		return
	}
	c.errTimer = time.AfterFunc(c.errorDisplay, func() {
		c.mu.Lock()
		cleared := c.displayed != nil
		c.displayed = nil
		state := c.state
		c.mu.Unlock()
		if cleared {
			c.emit(Event{Type: EventErrorCleared, State: state})
		}
	})
}

func (c *Controller) clearErrorLocked() {
	c.displayed = nil
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
}
