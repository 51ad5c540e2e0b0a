package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/mailer"
	"github.com/stemsi/coeval-backend/internal/metrics"
)

// Invitation is one queued course invitation mail.
type Invitation struct {
	Email      string `json:"email"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	Code       string `json:"code"`
}

// InvitationQueue pushes invitations onto the Redis list the worker drains.
type InvitationQueue struct {
	rdb   *redis.Client
	queue string
}

// NewInvitationQueue creates an InvitationQueue.
func NewInvitationQueue(rdb *redis.Client) *InvitationQueue {
	return &InvitationQueue{rdb: rdb, queue: config.WorkerKey.InvitationMailQueue}
}

// Enqueue schedules the invitation mails.
func (q *InvitationQueue) Enqueue(ctx context.Context, invitations ...Invitation) error {
	if len(invitations) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(invitations))
	for _, inv := range invitations {
		b, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("marshal invitation: %w", err)
		}
		values = append(values, b)
	}
	return q.rdb.RPush(ctx, q.queue, values...).Err()
}

// InvitationWorker consumes invitation_mail_queue and sends the mails.
type InvitationWorker struct {
	rdb     *redis.Client
	mail    mailer.Mailer
	appName string
	metrics *metrics.Metrics
	queue   string
	backoff time.Duration
	log     zerolog.Logger
}

// NewInvitationWorker creates a new InvitationWorker. m may be nil.
func NewInvitationWorker(rdb *redis.Client, mail mailer.Mailer, appName string, m *metrics.Metrics, log zerolog.Logger) *InvitationWorker {
	return &InvitationWorker{
		rdb:     rdb,
		mail:    mail,
		appName: appName,
		metrics: m,
		queue:   config.WorkerKey.InvitationMailQueue,
		backoff: 5 * time.Second,
		log:     log.With().Str("component", "invitation_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *InvitationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *InvitationWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Send error, retrying later")
		w.rdb.RPush(ctx, w.queue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.backoff):
		}
	}
}

// handle sends one queued invitation. Malformed payloads are dropped.
func (w *InvitationWorker) handle(ctx context.Context, raw string) error {
	var inv Invitation
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		w.count("dropped")
		return nil
	}
	if strings.TrimSpace(inv.Email) == "" {
		w.log.Warn().Str("course_id", inv.CourseID).Msg("Invitation without email, dropping payload")
		w.count("dropped")
		return nil
	}

	msg := mailer.InvitationMessage(w.appName, inv.Email, inv.CourseName, inv.Code)
	if err := w.mail.Send(ctx, msg); err != nil {
		if errors.Is(err, mailer.ErrNoRecipient) {
			w.count("dropped")
			return nil
		}
		w.count("failed")
		return fmt.Errorf("send invitation to %s: %w", inv.Email, err)
	}

	w.count("sent")
	w.log.Debug().Str("course_id", inv.CourseID).Str("email", inv.Email).Msg("Invitation sent")
	return nil
}

// drain sends what is left in the queue before shutdown.
func (w *InvitationWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, raw); err != nil {
			w.log.Error().Err(err).Msg("Drain send error")
			w.rdb.RPush(ctx, w.queue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

func (w *InvitationWorker) count(outcome string) {
	w.metrics.Invitation(outcome)
}
