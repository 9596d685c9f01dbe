package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/internal/models"
	"github.com/imf-ops/gadget-api/internal/repository"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
	"github.com/imf-ops/gadget-api/pkg/validation"
)

var (
	ErrGadgetNotFound          = appErr.New(appErr.CodeNotFound, "gadget not found")
	ErrInvalidConfirmationCode = appErr.New(appErr.CodeInvalid, "invalid confirmation code format")
	ErrNoPendingChallenge      = appErr.New(appErr.CodeInvalid, "no pending self-destruct challenge")
	ErrChallengeMismatch       = appErr.New(appErr.CodeInvalid, "confirmation code does not match")
)

// SelfDestructMessage accompanies the gadget returned by a confirmed self-destruct.
const SelfDestructMessage = "Gadget self-destruct sequence completed"

// GadgetService owns the gadget lifecycle. Callers are expected to have
// authenticated already.
type GadgetService interface {
	CreateGadget(ctx context.Context, input CreateGadgetInput) (*models.Gadget, error)
	GetGadget(ctx context.Context, id string) (*models.Gadget, error)
	ListGadgets(ctx context.Context, filters GadgetFilters) ([]GadgetView, error)
	UpdateGadget(ctx context.Context, id string, input UpdateGadgetInput) (*models.Gadget, error)
	DeployGadget(ctx context.Context, id string) (*models.Gadget, error)
	DecommissionGadget(ctx context.Context, id string) (*models.Gadget, error)
	SelfDestruct(ctx context.Context, id, confirmationCode string) (*SelfDestructResult, error)
}

type CreateGadgetInput struct {
	Name string `json:"name" validate:"required"`
}

type UpdateGadgetInput struct {
	Name *string `json:"name" validate:"omitnil,min=1"`
}

// GadgetFilters come straight from the query string. Unknown status values
// are ignored.
type GadgetFilters struct {
	Status string
}

// GadgetView is a gadget annotated for presentation. The probability is
// computed on every read and never stored.
type GadgetView struct {
	models.Gadget
	MissionSuccessProbability int `json:"missionSuccessProbability"`
}

// Annotate attaches a freshly computed probability to g.
func Annotate(g models.Gadget, probability func() int) GadgetView {
	return GadgetView{Gadget: g, MissionSuccessProbability: probability()}
}

// SelfDestructResult holds the challenge in phase one and the destroyed
// gadget in phase two. Exactly one of the fields is set.
type SelfDestructResult struct {
	ExpectedCode string
	Gadget       *models.Gadget
}

// EventPublisher receives lifecycle transitions after they are stored.
type EventPublisher interface {
	Publish(ctx context.Context, event models.LifecycleEvent) error
}

type GadgetServiceOption func(*gadgetService)

// WithClock overrides time.Now for decommission timestamps and events.
func WithClock(now func() time.Time) GadgetServiceOption {
	return func(s *gadgetService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCodenameGenerator(gen func() string) GadgetServiceOption {
	return func(s *gadgetService) {
		if gen != nil {
			s.codename = gen
		}
	}
}

func WithProbabilityGenerator(gen func() int) GadgetServiceOption {
	return func(s *gadgetService) {
		if gen != nil {
			s.probability = gen
		}
	}
}

func WithConfirmationCodeGenerator(gen func() string) GadgetServiceOption {
	return func(s *gadgetService) {
		if gen != nil {
			s.confirmationCode = gen
		}
	}
}

// WithVerifiedConfirmation stores each phase one challenge for ttl and
// requires phase two to present the same code. Without it any well-formed
// code confirms the self-destruct.
func WithVerifiedConfirmation(store repository.ChallengeStore, ttl time.Duration) GadgetServiceOption {
	return func(s *gadgetService) {
		s.challenges = store
		s.challengeTTL = ttl
	}
}

func WithEventPublisher(p EventPublisher) GadgetServiceOption {
	return func(s *gadgetService) {
		if p != nil {
			s.events = p
		}
	}
}

type gadgetService struct {
	gadgets          repository.GadgetRepository
	now              func() time.Time
	codename         func() string
	probability      func() int
	confirmationCode func() string
	challenges       repository.ChallengeStore
	challengeTTL     time.Duration
	events           EventPublisher
}

func NewGadgetService(gadgets repository.GadgetRepository, opts ...GadgetServiceOption) GadgetService {
	s := &gadgetService{
		gadgets:          gadgets,
		now:              time.Now,
		codename:         GenerateCodename,
		probability:      MissionSuccessProbability,
		confirmationCode: NewConfirmationCode,
		events:           noopPublisher{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ GadgetService = (*gadgetService)(nil)

func (s *gadgetService) CreateGadget(ctx context.Context, input CreateGadgetInput) (*models.Gadget, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	g := &models.Gadget{
		Name:     input.Name,
		Codename: s.codename(),
		Status:   models.StatusAvailable,
	}
	if err := s.gadgets.Create(ctx, g); err != nil {
		return nil, err
	}

	logger.L().Info("gadget created", zap.String("gadget_id", g.ID.String()), zap.String("codename", g.Codename))
	return g, nil
}

func (s *gadgetService) GetGadget(ctx context.Context, id string) (*models.Gadget, error) {
	return s.load(ctx, id)
}

func (s *gadgetService) ListGadgets(ctx context.Context, filters GadgetFilters) ([]GadgetView, error) {
	var f repository.GadgetListFilter
	if filters.Status != "" {
		if st, ok := models.ParseGadgetStatus(filters.Status); ok {
			f.Status = &st
		} else {
			logger.L().Debug("ignoring unknown status filter", zap.String("status", filters.Status))
		}
	}

	gadgets, err := s.gadgets.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]GadgetView, 0, len(gadgets))
	for _, g := range gadgets {
		out = append(out, Annotate(g, s.probability))
	}
	return out, nil
}

func (s *gadgetService) UpdateGadget(ctx context.Context, id string, input UpdateGadgetInput) (*models.Gadget, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name == nil {
		return g, nil
	}

	updated, err := s.gadgets.Update(ctx, g.ID, repository.GadgetPatch{Name: input.Name})
	if err != nil {
		return nil, notFoundAsGadget(err)
	}

	logger.L().Info("gadget updated", zap.String("gadget_id", g.ID.String()))
	return updated, nil
}

func (s *gadgetService) DeployGadget(ctx context.Context, id string) (*models.Gadget, error) {
	return s.transition(ctx, id, actionDeploy)
}

func (s *gadgetService) DecommissionGadget(ctx context.Context, id string) (*models.Gadget, error) {
	return s.transition(ctx, id, actionDecommission)
}

// SelfDestruct runs the two-phase destroy protocol. An empty code requests
// a challenge and leaves the gadget untouched; a code confirms destruction.
func (s *gadgetService) SelfDestruct(ctx context.Context, id, confirmationCode string) (*SelfDestructResult, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status == models.StatusDestroyed {
		return nil, ErrAlreadyDestroyed
	}

	if confirmationCode == "" {
		code := s.confirmationCode()
		if s.challenges != nil {
			if err := s.challenges.Save(ctx, g.ID, code, s.challengeTTL); err != nil {
				return nil, err
			}
		}
		logger.L().Info("self-destruct challenge issued", zap.String("gadget_id", g.ID.String()))
		return &SelfDestructResult{ExpectedCode: code}, nil
	}

	if !ValidConfirmationCode(confirmationCode) {
		return nil, ErrInvalidConfirmationCode
	}
	if s.challenges != nil {
		if err := s.checkChallenge(ctx, g.ID, confirmationCode); err != nil {
			return nil, err
		}
	}

	destroyed, err := s.apply(ctx, g, actionDestroy)
	if err != nil {
		return nil, err
	}
	logger.L().Warn("gadget self-destructed", zap.String("gadget_id", g.ID.String()), zap.String("codename", g.Codename))
	return &SelfDestructResult{Gadget: destroyed}, nil
}

func (s *gadgetService) checkChallenge(ctx context.Context, id uuid.UUID, code string) error {
	expected, err := s.challenges.Consume(ctx, id)
	if errors.Is(err, repository.ErrChallengeNotFound) {
		return ErrNoPendingChallenge
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) != 1 {
		return ErrChallengeMismatch
	}
	return nil
}

func (s *gadgetService) transition(ctx context.Context, id string, action lifecycleAction) (*models.Gadget, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, g, action)
}

func (s *gadgetService) apply(ctx context.Context, g *models.Gadget, action lifecycleAction) (*models.Gadget, error) {
	next, err := nextStatus(g.Status, action)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := repository.GadgetPatch{Status: &next}
	if next == models.StatusDecommissioned {
		patch.DecommissionedAt = &now
	}

	updated, err := s.gadgets.Update(ctx, g.ID, patch)
	if err != nil {
		return nil, notFoundAsGadget(err)
	}

	logger.L().Info("gadget transitioned",
		zap.String("gadget_id", g.ID.String()),
		zap.Stringer("action", action),
		zap.String("from", string(g.Status)),
		zap.String("to", string(next)),
	)

	if g.Status != next {
		s.publish(ctx, models.LifecycleEvent{
			GadgetID:   g.ID,
			Codename:   g.Codename,
			From:       g.Status,
			To:         next,
			OccurredAt: now,
		})
	}
	return updated, nil
}

// publish never fails the caller: the transition is already stored.
func (s *gadgetService) publish(ctx context.Context, ev models.LifecycleEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		logger.L().Error("publish lifecycle event failed",
			zap.String("gadget_id", ev.GadgetID.String()),
			zap.String("to", string(ev.To)),
			zap.Error(err),
		)
	}
}

// load treats ids that are not UUIDs as unknown gadgets.
func (s *gadgetService) load(ctx context.Context, id string) (*models.Gadget, error) {
	gid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrGadgetNotFound
	}
	var g models.Gadget
	if err := s.gadgets.GetByID(ctx, gid, &g); err != nil {
		return nil, notFoundAsGadget(err)
	}
	return &g, nil
}

func notFoundAsGadget(err error) error {
	if appErr.IsCode(err, appErr.CodeNotFound) {
		return ErrGadgetNotFound
	}
	return err
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.LifecycleEvent) error { return nil }
