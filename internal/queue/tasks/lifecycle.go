package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/internal/models"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

// TypeGadgetLifecycle is the asynq task type for gadget status transitions.
const TypeGadgetLifecycle = "gadget:lifecycle"

const lifecycleMaxRetry = 3

// LifecyclePayload is the task payload for lifecycle transitions.
type LifecyclePayload struct {
	GadgetID   string    `json:"gadget_id"`
	Codename   string    `json:"codename"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewLifecycleTask(ev models.LifecycleEvent) (*asynq.Task, error) {
	pb, err := json.Marshal(LifecyclePayload{
		GadgetID:   ev.GadgetID.String(),
		Codename:   ev.Codename,
		From:       string(ev.From),
		To:         string(ev.To),
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "marshal lifecycle payload failed")
	}
	return asynq.NewTask(TypeGadgetLifecycle, pb, asynq.MaxRetry(lifecycleMaxRetry)), nil
}

// Enqueuer is the part of *asynq.Client the publisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher enqueues lifecycle events for the worker.
type Publisher struct {
	client Enqueuer
}

func NewPublisher(client Enqueuer) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, ev models.LifecycleEvent) error {
	task, err := NewLifecycleTask(ev)
	if err != nil {
		return err
	}
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "enqueue lifecycle task failed")
	}
	logger.L().Debug("lifecycle task enqueued",
		zap.String("task_id", info.ID),
		zap.String("gadget_id", ev.GadgetID.String()),
		zap.String("to", string(ev.To)),
	)
	return nil
}

// LifecycleHandler consumes lifecycle tasks and writes the audit trail.
type LifecycleHandler struct {
	log *zap.Logger
}

func NewLifecycleHandler(log *zap.Logger) *LifecycleHandler {
	if log == nil {
		log = logger.L()
	}
	return &LifecycleHandler{log: log.Named("audit")}
}

func (h *LifecycleHandler) HandleLifecycle(_ context.Context, t *asynq.Task) error {
	var p LifecyclePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error("invalid lifecycle task payload", zap.Error(err))
		return fmt.Errorf("decode lifecycle payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(p.GadgetID)
	if err != nil {
		h.log.Error("invalid gadget id in task", zap.String("gadget_id", p.GadgetID))
		return fmt.Errorf("parse gadget id: %v: %w", err, asynq.SkipRetry)
	}
	to, ok := models.ParseGadgetStatus(p.To)
	if !ok {
		h.log.Error("unknown target status in task", zap.String("to", p.To))
		return fmt.Errorf("unknown status %q: %w", p.To, asynq.SkipRetry)
	}

	h.log.Info("gadget status changed",
		zap.String("gadget_id", id.String()),
		zap.String("codename", p.Codename),
		zap.String("from", p.From),
		zap.String("to", string(to)),
		zap.Time("occurred_at", p.OccurredAt),
	)
	if to == models.StatusDestroyed {
		h.log.Warn("gadget destroyed", zap.String("gadget_id", id.String()), zap.String("codename", p.Codename))
	}
	return nil
}
