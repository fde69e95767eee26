package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"talento/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	calls   [][]string
	results map[string]bool
}

func (d *recordingDispatcher) SendVia(ctx context.Context, channel string, payload *models.NotificationPayload) bool {
	return d.results[channel]
}

func (d *recordingDispatcher) SendViaAll(ctx context.Context, channels []string, payload *models.NotificationPayload) map[string]bool {
	d.mu.Lock()
	d.calls = append(d.calls, channels)
	d.mu.Unlock()

	out := make(map[string]bool, len(channels))
	for _, ch := range channels {
		out[ch] = d.results[ch]
	}
	return out
}

func (d *recordingDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func newTestWorker(dispatcher *recordingDispatcher, client *redis.Client) *NotifyWorker {
	logger := zerolog.Nop()
	return NewNotifyWorker(dispatcher, client, "test:notify", RetryPolicy{}, &logger)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // clamped
		{0, time.Second},      // below range treated as first attempt
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicyZeroValueDefaults(t *testing.T) {
	var p RetryPolicy
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
}

func TestEnqueueValidation(t *testing.T) {
	w := newTestWorker(&recordingDispatcher{}, nil)
	ctx := context.Background()

	err := w.Enqueue(ctx, NotifyTask{Channels: []string{"email"}})
	assert.EqualError(t, err, "payload is required")

	err = w.Enqueue(ctx, NotifyTask{Payload: &models.NotificationPayload{}})
	assert.EqualError(t, err, "at least one channel is required")
}

func TestEnqueueMemoryFallback(t *testing.T) {
	w := newTestWorker(&recordingDispatcher{}, nil)

	task := NotifyTask{
		Channels: []string{"email"},
		Payload:  &models.NotificationPayload{Title: "hola"},
	}
	require.NoError(t, w.Enqueue(context.Background(), task))

	got, ok := w.tryLocalQueue()
	require.True(t, ok)
	assert.Equal(t, []string{"email"}, got.Channels)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEnqueueRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	w := newTestWorker(&recordingDispatcher{}, client)
	task := NotifyTask{
		Channels: []string{"email", "app"},
		Payload:  &models.NotificationPayload{Title: "hola"},
	}
	require.NoError(t, w.Enqueue(context.Background(), task))

	raw, err := mr.Lpop("test:notify")
	require.NoError(t, err)

	var decoded NotifyTask
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, []string{"email", "app"}, decoded.Channels)
	assert.Equal(t, "hola", decoded.Payload.Title)
}

func TestWorkerProcessesLocalQueue(t *testing.T) {
	dispatcher := &recordingDispatcher{results: map[string]bool{"email": true}}
	w := newTestWorker(dispatcher, nil)

	require.NoError(t, w.Enqueue(context.Background(), NotifyTask{
		Channels: []string{"email"},
		Payload:  &models.NotificationPayload{Title: "hola"},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return dispatcher.callCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestProcessTaskRequeuesOnlyFailedChannels(t *testing.T) {
	dispatcher := &recordingDispatcher{results: map[string]bool{"email": true, "telegram": false}}
	logger := zerolog.Nop()
	w := NewNotifyWorker(dispatcher, nil, "test:notify",
		RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}, &logger)

	w.processTask(context.Background(), NotifyTask{
		Channels: []string{"email", "telegram"},
		Payload:  &models.NotificationPayload{Title: "hola"},
	})

	var requeued NotifyTask
	require.Eventually(t, func() bool {
		t, ok := w.tryLocalQueue()
		if ok {
			requeued = t
		}
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"telegram"}, requeued.Channels)
	assert.Equal(t, 1, requeued.Attempt)
}

func TestProcessTaskDeadLettersAfterMaxRetries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dispatcher := &recordingDispatcher{results: map[string]bool{"telegram": false}}
	logger := zerolog.Nop()
	w := NewNotifyWorker(dispatcher, client, "test:notify",
		RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}, &logger)

	w.processTask(context.Background(), NotifyTask{
		Channels: []string{"telegram"},
		Payload:  &models.NotificationPayload{Title: "hola"},
		Attempt:  1, // next failure hits the budget
	})

	raw, err := mr.Lpop("test:notify:deadletter")
	require.NoError(t, err)

	var dead NotifyTask
	require.NoError(t, json.Unmarshal([]byte(raw), &dead))
	assert.Equal(t, []string{"telegram"}, dead.Channels)
	assert.Equal(t, 2, dead.Attempt)
}
