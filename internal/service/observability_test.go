package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUseCaseObserver_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(zerolog.New(&buf))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "subtask.patch",
		Duration: 42 * time.Millisecond,
		Success:  false,
		Err:      errors.New("boom"),
		Fields:   map[string]any{"subtask_id": "st-1"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "service_use_case", line["message"])
	assert.Equal(t, "subtask.patch", line["use_case"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "st-1", line["subtask_id"])
	assert.EqualValues(t, 42, line["duration_ms"])
}

func TestLogUseCaseObserver_DisabledLoggerIsNoop(t *testing.T) {
	obs := NewLogUseCaseObserver(zerolog.Nop())
	_, ok := obs.(NoopUseCaseObserver)
	assert.True(t, ok)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	_, ok := useCaseObserverOrNoop(nil).(NoopUseCaseObserver)
	assert.True(t, ok)

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)

	assert.Equal(t, context.Background(), WithActor(context.Background(), ""))

	id, ok := ActorFrom(WithActor(context.Background(), "u-1"))
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
}
