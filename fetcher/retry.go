package fetcher

import (
	"context"
	"time"
)

const (
	defaultAttempts = 3
	defaultInterval = 5 * time.Second
)

// Phase is where a retry loop for one channel stands.
type Phase int

const (
	PhasePending Phase = iota
	PhaseDone
	PhaseExhausted
)

// State is the retry state machine for a single channel identity:
// Pending(n) moves to Done on a successful attempt, to Pending(n-1) on
// a failed one, and to Exhausted when the budget runs out. Done and
// Exhausted are terminal.
type State struct {
	Phase     Phase
	Remaining int
}

func StartState(attempts int) State {
	return State{Phase: PhasePending, Remaining: attempts}
}

// Next is the transition function. It is pure, the sleeping between
// attempts belongs to the loop driving it.
func (s State) Next(succeeded bool) State {
	if s.Phase != PhasePending {
		return s
	}
	if succeeded {
		return State{Phase: PhaseDone}
	}
	if s.Remaining <= 1 {
		return State{Phase: PhaseExhausted}
	}

	return State{Phase: PhasePending, Remaining: s.Remaining - 1}
}

// Loop drives the state machine with a fixed interval between attempts.
// Sleep is injectable so tests never wait for real time.
type Loop struct {
	Attempts int
	Interval time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error
}

func DefaultLoop() Loop {
	return Loop{
		Attempts: defaultAttempts,
		Interval: defaultInterval,
		Sleep:    sleepContext,
	}
}

// Run calls attempt until the state machine reaches a terminal phase
// and returns that phase. A sleep interrupted by cancellation ends the
// loop in Exhausted without another attempt.
func (l Loop) Run(ctx context.Context, attempt func(ctx context.Context) bool) Phase {
	state := StartState(l.Attempts)
	for state.Phase == PhasePending {
		state = state.Next(attempt(ctx))
		if state.Phase != PhasePending {
			break
		}
		if err := l.Sleep(ctx, l.Interval); err != nil {
			return PhaseExhausted
		}
	}

	return state.Phase
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
