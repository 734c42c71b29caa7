package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	questions []Question
	err       error
	calls     int

	gotSubject    string
	gotDifficulty Difficulty
	gotCount      int
}

func (p *fakeProvider) Questions(_ context.Context, subject string, difficulty Difficulty, count int) ([]Question, error) {
	p.calls++
	p.gotSubject = subject
	p.gotDifficulty = difficulty
	p.gotCount = count
	return p.questions, p.err
}

// racingProvider blocks its first call on gate so a test can interleave a
// second Load while the first is waiting on the provider.
type racingProvider struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	gate    chan struct{}
	first   []Question
	second  []Question
}

func (p *racingProvider) Questions(context.Context, string, Difficulty, int) ([]Question, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()
	if call == 1 {
		close(p.entered)
		<-p.gate
		return p.first, nil
	}
	return p.second, nil
}

type fakeSink struct {
	err      error
	result   *Result
	attempts []Attempt
}

func (s *fakeSink) Submit(_ context.Context, attempt Attempt) (*Result, error) {
	s.attempts = append(s.attempts, attempt)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &Result{}, nil
}

func sampleQuestions(n int) []Question {
	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{
			ID:            uint(i + 1),
			Subject:       "Go",
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		}
	}
	return questions
}

// newTestController builds a controller with the autonomous timer and error
// auto-clear disabled so tests drive every transition themselves.
func newTestController(provider QuestionProvider, sink SubmissionSink, opts ...Option) *Controller {
	base := []Option{WithTickInterval(0), WithErrorDisplay(0)}
	return NewController(provider, sink, append(base, opts...)...)
}

func mustLoad(t *testing.T, c *Controller, subject string, diff Difficulty, count int) {
	t.Helper()
	require.NoError(t, c.Load(context.Background(), subject, diff, count))
	require.Equal(t, StateActive, c.State())
}

func TestLoad(t *testing.T) {
	t.Run("arms one minute per loaded question", func(t *testing.T) {
		provider := &fakeProvider{questions: sampleQuestions(3)}
		c := newTestController(provider, &fakeSink{})

		mustLoad(t, c, "Go", DifficultyMedium, 3)

		assert.Equal(t, 180, c.Remaining())
		assert.Len(t, c.Questions(), 3)
	})

	t.Run("clock follows delivered count not the request", func(t *testing.T) {
		provider := &fakeProvider{questions: sampleQuestions(2)}
		c := newTestController(provider, &fakeSink{})

		mustLoad(t, c, "Go", DifficultyMedium, 25)

		assert.Equal(t, 120, c.Remaining())
	})

	t.Run("empty set ends the session before it starts", func(t *testing.T) {
		c := newTestController(&fakeProvider{}, &fakeSink{})

		require.NoError(t, c.Load(context.Background(), "Go", DifficultyMedium, 10))

		assert.Equal(t, StateEmpty, c.State())
		assert.Equal(t, 0, c.Remaining())
	})

	t.Run("provider failure leaves the session in loading", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("connection refused")}
		c := newTestController(provider, &fakeSink{})

		err := c.Load(context.Background(), "Go", DifficultyMedium, 10)

		require.Error(t, err)
		assert.Equal(t, StateLoading, c.State())
		assert.Equal(t, 1, provider.calls, "a single attempt, no retry")
	})

	t.Run("rejects a second load", func(t *testing.T) {
		provider := &fakeProvider{questions: sampleQuestions(1)}
		c := newTestController(provider, &fakeSink{})
		mustLoad(t, c, "Go", DifficultyMedium, 1)

		err := c.Load(context.Background(), "Go", DifficultyMedium, 1)

		require.Error(t, err)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("concurrent loads settle on a single winner", func(t *testing.T) {
		provider := &racingProvider{
			entered: make(chan struct{}),
			gate:    make(chan struct{}),
			first:   sampleQuestions(5),
			second:  sampleQuestions(2),
		}
		c := newTestController(provider, &fakeSink{})

		errCh := make(chan error, 1)
		go func() { errCh <- c.Load(context.Background(), "Go", DifficultyMedium, 5) }()
		<-provider.entered

		// The second call overtakes the first while its provider is in
		// flight.
		require.NoError(t, c.Load(context.Background(), "Go", DifficultyMedium, 2))
		require.Equal(t, StateActive, c.State())

		close(provider.gate)
		require.Error(t, <-errCh, "the loser must not overwrite the winner's session")
		assert.Len(t, c.Questions(), 2)
		assert.Equal(t, 120, c.Remaining())
	})

	t.Run("requires a subject", func(t *testing.T) {
		c := newTestController(&fakeProvider{}, &fakeSink{})
		require.Error(t, c.Load(context.Background(), "", DifficultyMedium, 5))
	})

	t.Run("falls back to saved preferences", func(t *testing.T) {
		prefs := NewMemoryPreferences()
		require.NoError(t, prefs.Set(Prefs{Subject: "SQL", Difficulty: DifficultyHard, Count: 5}))
		provider := &fakeProvider{questions: sampleQuestions(5)}
		c := newTestController(provider, &fakeSink{}, WithPreferences(prefs))

		mustLoad(t, c, "SQL", "", 0)

		assert.Equal(t, DifficultyHard, provider.gotDifficulty)
		assert.Equal(t, 5, provider.gotCount)
	})

	t.Run("defaults to medium without preferences", func(t *testing.T) {
		provider := &fakeProvider{questions: sampleQuestions(2)}
		c := newTestController(provider, &fakeSink{})

		mustLoad(t, c, "Go", "", 2)

		assert.Equal(t, DifficultyMedium, provider.gotDifficulty)
	})

	t.Run("persists the chosen configuration", func(t *testing.T) {
		prefs := NewMemoryPreferences()
		provider := &fakeProvider{questions: sampleQuestions(2)}
		c := newTestController(provider, &fakeSink{}, WithPreferences(prefs))

		mustLoad(t, c, "Go", DifficultyHard, 2)

		saved, ok := prefs.Get()
		require.True(t, ok)
		assert.Equal(t, Prefs{Subject: "Go", Difficulty: DifficultyHard, Count: 2}, saved)
	})
}

func TestSelectAnswer(t *testing.T) {
	t.Run("re-selection overwrites", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, &fakeSink{})
		mustLoad(t, c, "Go", DifficultyMedium, 1)

		c.SelectAnswer(1, "B")
		c.SelectAnswer(1, "C")

		assert.Equal(t, map[uint]string{1: "C"}, c.Answers())
		assert.Equal(t, 1, c.AnsweredCount())
	})

	t.Run("ignored outside active", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, &fakeSink{}, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 1)
		c.SelectAnswer(1, "A")
		require.NoError(t, c.Submit(context.Background(), false))
		require.Equal(t, StateSubmitted, c.State())

		c.SelectAnswer(1, "B")

		assert.Equal(t, map[uint]string{1: "A"}, c.Answers())
	})
}

func TestTick(t *testing.T) {
	t.Run("counts down one second at a time", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(2)}, &fakeSink{})
		mustLoad(t, c, "Go", DifficultyMedium, 2)

		c.Tick()
		c.Tick()

		assert.Equal(t, 118, c.Remaining())
	})

	t.Run("forces submission at zero", func(t *testing.T) {
		sink := &fakeSink{}
		c := newTestController(&fakeProvider{questions: sampleQuestions(2)}, sink, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 2)
		c.SelectAnswer(1, "A")

		for i := 0; i < 120; i++ {
			c.Tick()
		}

		assert.Equal(t, StateSubmitted, c.State())
		require.Len(t, sink.attempts, 1)
		assert.Equal(t, 1, sink.attempts[0].Score, "partial answers are scored as-is")
		assert.Equal(t, 2, sink.attempts[0].TotalQuestions)
	})

	t.Run("ignored after submission", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, &fakeSink{}, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 1)
		c.SelectAnswer(1, "A")
		require.NoError(t, c.Submit(context.Background(), false))

		c.Tick()

		assert.Equal(t, StateSubmitted, c.State())
	})
}

func TestSubmit(t *testing.T) {
	t.Run("rejects an incomplete attempt with the counts", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(5)}, &fakeSink{}, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 5)
		c.SelectAnswer(1, "A")
		c.SelectAnswer(2, "B")

		err := c.Submit(context.Background(), false)

		var incomplete *IncompleteError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, 2, incomplete.Answered)
		assert.Equal(t, 5, incomplete.Required)
		assert.Equal(t, "you must answer all 5 questions, you have only answered 2", err.Error())
		assert.Equal(t, StateActive, c.State(), "session stays answerable")
		assert.Equal(t, err, c.DisplayedError())
	})

	t.Run("force bypasses the completeness check", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(5)}, &fakeSink{}, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 5)
		c.SelectAnswer(1, "A")

		require.NoError(t, c.Submit(context.Background(), true))

		assert.Equal(t, StateSubmitted, c.State())
	})

	t.Run("scores exact matches only", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(3)}, &fakeSink{}, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 3)
		c.SelectAnswer(1, "A")
		c.SelectAnswer(2, "A")
		c.SelectAnswer(3, "B")

		require.NoError(t, c.Submit(context.Background(), false))

		result := c.Result()
		require.NotNil(t, result)
		assert.Equal(t, 2, result.Score)
		assert.Equal(t, 3, result.TotalQuestions)
		assert.Equal(t, 67, result.Accuracy, "2/3 rounds to 67")
	})

	t.Run("without identity the sink is skipped", func(t *testing.T) {
		sink := &fakeSink{}
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, sink)
		mustLoad(t, c, "Go", DifficultyMedium, 1)
		c.SelectAnswer(1, "A")

		require.NoError(t, c.Submit(context.Background(), false))

		assert.Empty(t, sink.attempts)
		result := c.Result()
		require.NotNil(t, result)
		assert.Equal(t, 1, result.Score, "the attempt is still scored locally")
		assert.Zero(t, result.ID)
		assert.Empty(t, result.Reference)
	})

	t.Run("sink failure returns to active with answers intact", func(t *testing.T) {
		sink := &fakeSink{err: errors.New("database is down")}
		c := newTestController(&fakeProvider{questions: sampleQuestions(2)}, sink, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 2)
		c.SelectAnswer(1, "A")
		c.SelectAnswer(2, "B")

		err := c.Submit(context.Background(), false)

		require.Error(t, err)
		assert.Equal(t, StateActive, c.State())
		assert.Equal(t, map[uint]string{1: "A", 2: "B"}, c.Answers())
		assert.Nil(t, c.Result())
		require.NotNil(t, c.DisplayedError())

		// The retry succeeds once the sink recovers.
		sink.err = nil
		sink.result = &Result{ID: 42, Reference: "ref-42"}
		require.NoError(t, c.Submit(context.Background(), false))
		assert.Equal(t, StateSubmitted, c.State())
		assert.Equal(t, uint(42), c.Result().ID)
		assert.Equal(t, "ref-42", c.Result().Reference)
		assert.Len(t, sink.attempts, 2)
	})

	t.Run("sink failure after timeout keeps the clock at zero", func(t *testing.T) {
		sink := &fakeSink{err: errors.New("database is down")}
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, sink, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 1)

		for i := 0; i < 60; i++ {
			c.Tick()
		}

		assert.Equal(t, StateActive, c.State())
		assert.Equal(t, 0, c.Remaining())
	})

	t.Run("adopts the persisted identity of the stored result", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		sink := &fakeSink{result: &Result{ID: 7, Reference: "ref-7", CreatedAt: created}}
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, sink, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 1)
		c.SelectAnswer(1, "A")

		require.NoError(t, c.Submit(context.Background(), false))

		result := c.Result()
		assert.Equal(t, uint(7), result.ID)
		assert.Equal(t, "ref-7", result.Reference)
		assert.Equal(t, created, result.CreatedAt)
		assert.Equal(t, 1, result.Score, "the score is computed before the sink, not echoed back")
	})

	t.Run("no-op outside active", func(t *testing.T) {
		sink := &fakeSink{}
		c := newTestController(&fakeProvider{questions: sampleQuestions(1)}, sink, WithIdentity("token"))
		mustLoad(t, c, "Go", DifficultyMedium, 1)
		c.SelectAnswer(1, "A")
		require.NoError(t, c.Submit(context.Background(), false))

		require.NoError(t, c.Submit(context.Background(), false))

		assert.Len(t, sink.attempts, 1)
	})
}

func TestEvents(t *testing.T) {
	t.Run("full session event sequence", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(2)}, &fakeSink{}, WithIdentity("token"))
		var types []EventType
		c.Subscribe(func(ev Event) { types = append(types, ev.Type) })

		mustLoad(t, c, "Go", DifficultyMedium, 2)
		c.SelectAnswer(1, "A")
		c.Tick()
		c.SelectAnswer(2, "B")
		require.NoError(t, c.Submit(context.Background(), false))

		assert.Equal(t, []EventType{
			EventStateChanged, // active
			EventAnswered,
			EventTick,
			EventAnswered,
			EventStateChanged, // submitting
			EventStateChanged, // submitted
		}, types)
	})

	t.Run("incomplete submission emits an error event", func(t *testing.T) {
		c := newTestController(&fakeProvider{questions: sampleQuestions(2)}, &fakeSink{}, WithIdentity("token"))
		var got Event
		c.Subscribe(func(ev Event) {
			if ev.Type == EventError {
				got = ev
			}
		})
		mustLoad(t, c, "Go", DifficultyMedium, 2)

		_ = c.Submit(context.Background(), false)

		require.NotNil(t, got.Err)
		assert.Equal(t, StateActive, got.State)
	})

	t.Run("displayed errors auto-clear", func(t *testing.T) {
		c := NewController(&fakeProvider{questions: sampleQuestions(2)}, &fakeSink{},
			WithTickInterval(0), WithErrorDisplay(10*time.Millisecond), WithIdentity("token"))
		cleared := make(chan struct{})
		c.Subscribe(func(ev Event) {
			if ev.Type == EventErrorCleared {
				close(cleared)
			}
		})
		mustLoad(t, c, "Go", DifficultyMedium, 2)

		_ = c.Submit(context.Background(), false)
		require.NotNil(t, c.DisplayedError())

		select {
		case <-cleared:
		case <-time.After(time.Second):
			t.Fatal("error was never cleared")
		}
		assert.Nil(t, c.DisplayedError())
	})
}

func TestCountdownGoroutine(t *testing.T) {
	t.Run("ticks autonomously", func(t *testing.T) {
		c := NewController(&fakeProvider{questions: sampleQuestions(1)}, &fakeSink{},
			WithTickInterval(5*time.Millisecond), WithErrorDisplay(0))
		defer c.Close()
		ticked := make(chan struct{})
		var once sync.Once
		c.Subscribe(func(ev Event) {
			if ev.Type == EventTick {
				once.Do(func() { close(ticked) })
			}
		})
		mustLoad(t, c, "Go", DifficultyMedium, 1)

		select {
		case <-ticked:
		case <-time.After(time.Second):
			t.Fatal("countdown never ticked")
		}
		assert.Less(t, c.Remaining(), 60)
	})

	t.Run("close releases the timer", func(t *testing.T) {
		c := NewController(&fakeProvider{questions: sampleQuestions(1)}, &fakeSink{},
			WithTickInterval(time.Millisecond), WithErrorDisplay(0))
		mustLoad(t, c, "Go", DifficultyMedium, 1)

		c.Close()
		time.Sleep(10 * time.Millisecond)
		frozen := c.Remaining()
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, frozen, c.Remaining())
	})
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 67},
		{1, 3, 33},
		{1, 6, 17},
		{3, 5, 60},
		{0, 0, 0},
		{1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_of_%d", tc.score, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.want, Accuracy(tc.score, tc.total))
		})
	}
}

func TestScore(t *testing.T) {
	questions := sampleQuestions(4)

	t.Run("unanswered never counts", func(t *testing.T) {
		assert.Equal(t, 0, Score(questions, map[uint]string{}))
	})

	t.Run("counts exact string matches", func(t *testing.T) {
		answers := map[uint]string{1: "A", 2: "a", 3: "A", 4: "B"}
		assert.Equal(t, 2, Score(questions, answers), "comparison is case-sensitive")
	})

	t.Run("answers for unknown questions are ignored", func(t *testing.T) {
		answers := map[uint]string{99: "A"}
		assert.Equal(t, 0, Score(questions, answers))
	})
}
