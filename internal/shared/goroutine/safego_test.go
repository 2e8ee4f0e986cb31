package goroutine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/casework-hq/casework/internal/shared/logger"
)

func TestSafeFunc(t *testing.T) {
	log := logger.NewNop()

	err := SafeFunc(log, "source:sections", func() error { panic("boom") })()
	assert.ErrorContains(t, err, "source:sections panicked: boom")

	sentinel := errors.New("failed")
	assert.ErrorIs(t, SafeFunc(log, "x", func() error { return sentinel })(), sentinel)
	assert.NoError(t, SafeFunc(log, "x", func() error { return nil })())
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNop(), "test", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
