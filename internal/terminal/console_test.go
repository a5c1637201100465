package terminal

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsole_NonInteractive(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	c.Logo()
	c.Info("Creating droplet")
	c.Link("Access JupyterLab at", "http://10.0.0.1/?token=t")
	assert.Equal(t, "Creating droplet\nAccess JupyterLab at http://10.0.0.1/?token=t\n", buf.String())
}

func TestConsole_SpinNonInteractive(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	called := false
	err := c.Spin(context.Background(), "Tearing down", func() error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, "Tearing down...\n", buf.String())
}

func TestAwaitStep_WaitsForStepAfterCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	finished := false
	start := time.Now()
	err := awaitStep(func() error {
		time.Sleep(200 * time.Millisecond)
		finished = true
		return nil
	}, func(func()) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.True(t, finished, "step still running when awaitStep returned")
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitStep_StepErrorWins(t *testing.T) {
	err := awaitStep(func() error {
		return errors.New("ecs-cli up failed")
	}, func(wait func()) error {
		wait()
		return errors.New("program was killed")
	})
	assert.EqualError(t, err, "ecs-cli up failed")
}

func TestAwaitStep_ShowWaits(t *testing.T) {
	var steps atomic.Int32
	err := awaitStep(func() error {
		steps.Add(1)
		return nil
	}, func(wait func()) error {
		wait()
		assert.Equal(t, int32(1), steps.Load())
		return nil
	})
	assert.NoError(t, err)
}

func TestRequired(t *testing.T) {
	v := Required("You must provide a password")
	assert.EqualError(t, v(""), "You must provide a password")
	assert.NoError(t, v("x"))
}
