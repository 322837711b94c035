// internal/orders/saga.go
package orders

import (
	"context"

	"github.com/rs/zerolog"
)

// saga runs an ordered list of (apply, compensate) steps. On the first apply
// failure, the compensations of every completed step run in reverse order and
// the apply error is returned unchanged. Compensation errors never mask it:
// each compensate handles and logs its own failures.
//
// This generalizes the order-line reservation loop: a multi-record mutation
// is a sequence of locally-committed steps instead of one storage
// transaction.
type saga struct {
	log   zerolog.Logger
	steps []sagaStep
}

type sagaStep struct {
	name       string
	apply      func(ctx context.Context) error
	compensate func(ctx context.Context)
}

func newSaga(log zerolog.Logger) *saga {
	return &saga{log: log}
}

// add appends a step. compensate may be nil for steps with no undo.
func (s *saga) add(name string, apply func(ctx context.Context) error, compensate func(ctx context.Context)) {
	s.steps = append(s.steps, sagaStep{name: name, apply: apply, compensate: compensate})
}

func (s *saga) run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.apply(ctx); err != nil {
			s.log.Info().
				Str("step", step.name).
				Int("completed_steps", i).
				Err(err).
				Msg("saga step failed, compensating")
			s.compensate(ctx, i)
			return err
		}
	}
	return nil
}

// compensate unwinds steps [0, upto) in reverse order.
func (s *saga) compensate(ctx context.Context, upto int) {
	for i := upto - 1; i >= 0; i-- {
		if s.steps[i].compensate != nil {
			s.steps[i].compensate(ctx)
		}
	}
}
