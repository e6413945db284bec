//go:build unit

package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStep struct {
	name string
	err  error
	ran  *[]string
}

func (s *stubStep) Name() string { return s.name }

func (s *stubStep) Run(ctx context.Context) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("RunsStepsInOrder", func(t *testing.T) {
		var ran []string
		pipeline := New(
			&stubStep{name: "first", ran: &ran},
			&stubStep{name: "second", ran: &ran},
			&stubStep{name: "third", ran: &ran},
		)

		require.NoError(t, pipeline.Run(ctx))
		assert.Equal(t, []string{"first", "second", "third"}, ran)
	})

	t.Run("FirstErrorStopsTheRun", func(t *testing.T) {
		var ran []string
		boom := errors.New("boom")
		pipeline := New(
			&stubStep{name: "first", ran: &ran},
			&stubStep{name: "second", err: boom, ran: &ran},
			&stubStep{name: "third", ran: &ran},
		)

		err := pipeline.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "step second")
		assert.Equal(t, []string{"first", "second"}, ran)
	})

	t.Run("CancelledContextStopsBeforeNextStep", func(t *testing.T) {
		var ran []string
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		pipeline := New(&stubStep{name: "first", ran: &ran})
		err := pipeline.Run(cancelled)
		require.Error(t, err)
		assert.Empty(t, ran)
	})
}
