// internal/orders/saga_test.go
package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSagaRunsAllSteps(t *testing.T) {
	applied := []string{}
	s := newSaga(zerolog.Nop())
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.add(name,
			func(ctx context.Context) error {
				applied = append(applied, name)
				return nil
			},
			func(ctx context.Context) {
				t.Errorf("compensation for %s must not run on success", name)
			},
		)
	}

	require.NoError(t, s.run(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, applied)
}

func TestSagaCompensatesInReverseOrder(t *testing.T) {
	failure := errors.New("step failed")
	var log []string
	s := newSaga(zerolog.Nop())

	step := func(name string, err error) {
		s.add(name,
			func(ctx context.Context) error {
				if err != nil {
					return err
				}
				log = append(log, "apply "+name)
				return nil
			},
			func(ctx context.Context) {
				log = append(log, "undo "+name)
			},
		)
	}
	step("a", nil)
	step("b", nil)
	step("c", failure)
	step("d", nil)

	err := s.run(context.Background())
	assert.Same(t, failure, err, "the apply error is returned unchanged")
	assert.Equal(t, []string{"apply a", "apply b", "undo b", "undo a"}, log,
		"completed steps unwind in reverse, the failed and later steps do not")
}

func TestSagaNilCompensation(t *testing.T) {
	failure := errors.New("boom")
	s := newSaga(zerolog.Nop())
	s.add("no undo", func(ctx context.Context) error { return nil }, nil)
	s.add("fails", func(ctx context.Context) error { return failure }, nil)

	assert.Same(t, failure, s.run(context.Background()))
}
