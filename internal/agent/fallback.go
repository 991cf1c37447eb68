package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
)

// Notifier receives a line whenever a fallback replaces a failed agent
// call. The logbook satisfies this.
type Notifier interface {
	Warn(format string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) Warn(string, ...any) {}

// SafeSpymaster bounds every call to the wrapped spymaster with a
// timeout and substitutes a minimal safe clue when the call errors,
// times out, or hangs. A collaborator failure must never stall the
// turn state machine, so the substitution is unconditional.
type SafeSpymaster struct {
	inner   Spymaster
	team    board.Team
	timeout time.Duration
	rng     *rand.Rand
	log     Notifier
}

// NewSafeSpymaster wraps inner. A zero timeout disables the bound.
func NewSafeSpymaster(inner Spymaster, team board.Team, timeout time.Duration, seed int64, log Notifier) *SafeSpymaster {
	if log == nil {
		log = nopNotifier{}
	}
	return &SafeSpymaster{inner: inner, team: team, timeout: timeout, rng: rand.New(rand.NewSource(seed)), log: log}
}

// Name implements Spymaster.
func (s *SafeSpymaster) Name() string { return s.inner.Name() }

// GenerateClue implements Spymaster.
func (s *SafeSpymaster) GenerateClue(ctx context.Context, view engine.View) (CluePlan, error) {
	plan, err := callBounded(ctx, s.timeout, func(ctx context.Context) (CluePlan, error) {
		return s.inner.GenerateClue(ctx, view)
	})
	if err == nil {
		return plan, nil
	}
	s.log.Warn("spymaster %s failed (%v); substituting a single-word clue", s.inner.Name(), err)
	own := ownUnrevealedWords(view, s.team)
	if len(own) == 0 {
		return CluePlan{}, err
	}
	target := own[s.rng.Intn(len(own))]
	return CluePlan{Word: pickClueWord(s.rng, view), Targets: []string{target}}, nil
}

// SafeOperative bounds every call to the wrapped operative and
// degrades to a uniformly random unrevealed word or the end sentinel
// on failure, per the mandatory fallback-on-failure rule.
type SafeOperative struct {
	inner   Operative
	timeout time.Duration
	rng     *rand.Rand
	log     Notifier
}

// NewSafeOperative wraps inner. A zero timeout disables the bound.
func NewSafeOperative(inner Operative, timeout time.Duration, seed int64, log Notifier) *SafeOperative {
	if log == nil {
		log = nopNotifier{}
	}
	return &SafeOperative{inner: inner, timeout: timeout, rng: rand.New(rand.NewSource(seed)), log: log}
}

// Name implements Operative.
func (o *SafeOperative) Name() string { return o.inner.Name() }

// GenerateGuess implements Operative.
func (o *SafeOperative) GenerateGuess(ctx context.Context, view engine.View, clue ClueContext) (Proposal, error) {
	proposal, err := callBounded(ctx, o.timeout, func(ctx context.Context) (Proposal, error) {
		return o.inner.GenerateGuess(ctx, view, clue)
	})
	if err == nil {
		return proposal, nil
	}
	o.log.Warn("operative %s guess failed (%v); substituting random play", o.inner.Name(), err)
	return Proposal{Word: o.randomWord(view), Reasoning: "fallback after a failed agent call"}, nil
}

// DebateContribution implements Operative.
func (o *SafeOperative) DebateContribution(ctx context.Context, transcript []TranscriptEntry, view engine.View, clue ClueContext) (string, error) {
	message, err := callBounded(ctx, o.timeout, func(ctx context.Context) (string, error) {
		return o.inner.DebateContribution(ctx, transcript, view, clue)
	})
	if err == nil {
		return message, nil
	}
	o.log.Warn("operative %s debate call failed (%v)", o.inner.Name(), err)
	return "I have no strong view this round.", nil
}

// FinalVote implements Operative. The result is always a member of
// options.
func (o *SafeOperative) FinalVote(ctx context.Context, transcript []TranscriptEntry, options []string, view engine.View, clue ClueContext) (string, error) {
	vote, err := callBounded(ctx, o.timeout, func(ctx context.Context) (string, error) {
		return o.inner.FinalVote(ctx, transcript, options, view, clue)
	})
	if err == nil {
		if matched, ok := MatchVote(vote, options); ok {
			return matched, nil
		}
		o.log.Warn("operative %s voted %q, not on the ballot; substituting", o.inner.Name(), vote)
	} else {
		o.log.Warn("operative %s vote failed (%v); substituting", o.inner.Name(), err)
	}
	if len(options) == 0 {
		return EndTurnOption, nil
	}
	return options[o.rng.Intn(len(options))], nil
}

func (o *SafeOperative) randomWord(view engine.View) string {
	unrevealed := view.UnrevealedWords()
	if len(unrevealed) == 0 {
		return EndTurnOption
	}
	return unrevealed[o.rng.Intn(len(unrevealed))]
}

// callBounded runs fn with a timeout and detaches from calls that
// ignore cancellation: when the deadline passes, the caller moves on
// and the stray result is dropped.
func callBounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()
	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
