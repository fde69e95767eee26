package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talento/internal/domain"
	"talento/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotifyTask is one queued fan-out: a payload plus the channels it still has
// to reach. Attempt counts delivery rounds, not individual channels.
type NotifyTask struct {
	Channels  []string                    `json:"channels"`
	Payload   *models.NotificationPayload `json:"payload"`
	Attempt   int                         `json:"attempt"`
	CreatedAt time.Time                   `json:"created_at"`
}

// NotifyWorker drains queued notification tasks and hands them to the
// dispatcher. Redis backs the queue when available; a bounded in-memory
// channel covers redis being down or absent.
type NotifyWorker struct {
	dispatcher  domain.Dispatcher
	redis       *redis.Client
	retryPolicy RetryPolicy

	queue         chan NotifyTask
	queueKey      string
	deadLetterKey string
	logger        *zerolog.Logger
}

func NewNotifyWorker(dispatcher domain.Dispatcher, redisClient *redis.Client, queueKey string, retry RetryPolicy, logger *zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if queueKey == "" {
		queueKey = "talento:notify"
	}

	return &NotifyWorker{
		dispatcher:    dispatcher,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan NotifyTask, 128),
		queueKey:      queueKey,
		deadLetterKey: queueKey + ":deadletter",
		logger:        logger,
	}
}

// Enqueue schedules a task via redis, falling back to the in-memory queue.
func (w *NotifyWorker) Enqueue(ctx context.Context, task NotifyTask) error {
	if task.Payload == nil {
		return errors.New("payload is required")
	}
	if len(task.Channels) == 0 {
		return errors.New("at least one channel is required")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("notification queue full")
	}
}

// Start launches the drain loop; stops when ctx is done.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.logger.Info().Str("queue", w.queueKey).Msg("notify worker started")
	defer w.logger.Info().Msg("notify worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		// Nothing queued anywhere; the redis BRPOP already blocked for a
		// second, but without redis we need our own pause.
		if w.redis == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (w *NotifyWorker) tryLocalQueue() (NotifyTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return NotifyTask{}, false
	}
}

func (w *NotifyWorker) tryRedis(ctx context.Context) (NotifyTask, bool) {
	if w.redis == nil {
		return NotifyTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.queueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return NotifyTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return NotifyTask{}, false
	}
	if len(res) != 2 {
		return NotifyTask{}, false
	}
	var task NotifyTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode queued task")
		return NotifyTask{}, false
	}
	return task, true
}

// processTask fans the payload out and re-queues only the channels that
// failed, with backoff, until the retry budget runs out.
func (w *NotifyWorker) processTask(ctx context.Context, task NotifyTask) {
	results := w.dispatcher.SendViaAll(ctx, task.Channels, task.Payload)

	var failed []string
	for channel, ok := range results {
		if !ok {
			failed = append(failed, channel)
		}
	}
	if len(failed) == 0 {
		return
	}

	attempt := task.Attempt + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().
			Strs("channels", failed).
			Str("title", task.Payload.Title).
			Msg("notification delivery exhausted retries")
		w.pushDeadLetter(ctx, NotifyTask{Channels: failed, Payload: task.Payload, Attempt: attempt, CreatedAt: task.CreatedAt})
		return
	}

	retry := NotifyTask{Channels: failed, Payload: task.Payload, Attempt: attempt, CreatedAt: task.CreatedAt}
	delay := w.retryPolicy.NextDelay(attempt)

	time.AfterFunc(delay, func() {
		if err := w.Enqueue(context.Background(), retry); err != nil {
			w.logger.Error().Err(err).Msg("requeue notification task")
		}
	})
}

func (w *NotifyWorker) pushRedis(ctx context.Context, task NotifyTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return w.redis.LPush(ctx, w.queueKey, data).Err()
}

func (w *NotifyWorker) pushDeadLetter(ctx context.Context, task NotifyTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("deadletter push")
	}
}
