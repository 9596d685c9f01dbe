package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imf-ops/gadget-api/internal/models"
	"github.com/imf-ops/gadget-api/internal/repository"
	"github.com/imf-ops/gadget-api/internal/testutil"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event models.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newGadgetService(t *testing.T, opts ...GadgetServiceOption) (GadgetService, repository.GadgetRepository) {
	t.Helper()
	repo := repository.NewGadgetRepository(testutil.NewDB(t))
	base := []GadgetServiceOption{WithClock(func() time.Time { return fixedNow })}
	return NewGadgetService(repo, append(base, opts...)...), repo
}

func mustCreate(t *testing.T, svc GadgetService, name string) *models.Gadget {
	t.Helper()
	g, err := svc.CreateGadget(context.Background(), CreateGadgetInput{Name: name})
	require.NoError(t, err)
	return g
}

func TestCreateGadget(t *testing.T) {
	svc, _ := newGadgetService(t, WithCodenameGenerator(func() string { return "Operation Kraken-42" }))

	g := mustCreate(t, svc, "Exploding Pen")
	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.Equal(t, "Exploding Pen", g.Name)
	assert.Equal(t, "Operation Kraken-42", g.Codename)
	assert.Equal(t, models.StatusAvailable, g.Status)
	assert.Nil(t, g.DecommissionedAt)

	_, err := svc.CreateGadget(context.Background(), CreateGadgetInput{})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestCreateGadgetGeneratesCodename(t *testing.T) {
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Laser Watch")
	assert.Regexp(t, codenameShape, g.Codename)
	assert.NotEqual(t, g.Name, g.Codename)
}

func TestGetGadget(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Face Mask")

	got, err := svc.GetGadget(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	_, err = svc.GetGadget(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrGadgetNotFound)
	_, err = svc.GetGadget(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrGadgetNotFound)
}

func TestListGadgetsAnnotatesProbability(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	mustCreate(t, svc, "Pen")
	mustCreate(t, svc, "Watch")
	deployed := mustCreate(t, svc, "Car")
	_, err := svc.DeployGadget(ctx, deployed.ID.String())
	require.NoError(t, err)

	all, err := svc.ListGadgets(ctx, GadgetFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, v := range all {
		assert.GreaterOrEqual(t, v.MissionSuccessProbability, 60)
		assert.LessOrEqual(t, v.MissionSuccessProbability, 100)
	}

	only, err := svc.ListGadgets(ctx, GadgetFilters{Status: "DEPLOYED"})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, deployed.ID, only[0].ID)

	ignored, err := svc.ListGadgets(ctx, GadgetFilters{Status: "deployed"})
	require.NoError(t, err)
	assert.Len(t, ignored, 3, "unknown status values do not filter")
}

func TestListGadgetsRecomputesProbability(t *testing.T) {
	ctx := context.Background()
	next := 59
	svc, _ := newGadgetService(t, WithProbabilityGenerator(func() int { next++; return next }))
	mustCreate(t, svc, "Pen")

	first, err := svc.ListGadgets(ctx, GadgetFilters{})
	require.NoError(t, err)
	second, err := svc.ListGadgets(ctx, GadgetFilters{})
	require.NoError(t, err)

	assert.Equal(t, 60, first[0].MissionSuccessProbability)
	assert.Equal(t, 61, second[0].MissionSuccessProbability)
}

func TestUpdateGadget(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Pen")

	name := "Exploding Pen"
	updated, err := svc.UpdateGadget(ctx, g.ID.String(), UpdateGadgetInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Exploding Pen", updated.Name)
	assert.Equal(t, g.Codename, updated.Codename)
	assert.Equal(t, models.StatusAvailable, updated.Status)

	same, err := svc.UpdateGadget(ctx, g.ID.String(), UpdateGadgetInput{})
	require.NoError(t, err)
	assert.Equal(t, "Exploding Pen", same.Name)

	empty := ""
	_, err = svc.UpdateGadget(ctx, g.ID.String(), UpdateGadgetInput{Name: &empty})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, err = svc.UpdateGadget(ctx, uuid.NewString(), UpdateGadgetInput{Name: &name})
	assert.ErrorIs(t, err, ErrGadgetNotFound)
}

func TestUpdateGadgetAllowedInEveryStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t, WithConfirmationCodeGenerator(func() string { return "abc123" }))
	g := mustCreate(t, svc, "Pen")

	_, err := svc.SelfDestruct(ctx, g.ID.String(), "abc123")
	require.NoError(t, err)

	name := "Remains of a Pen"
	updated, err := svc.UpdateGadget(ctx, g.ID.String(), UpdateGadgetInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDestroyed, updated.Status)
	assert.Equal(t, name, updated.Name)
}

func TestDecommissionGadgetIsIdempotentInEffect(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Exploding Pen")

	first, err := svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecommissioned, first.Status)
	require.NotNil(t, first.DecommissionedAt)
	assert.True(t, fixedNow.Equal(*first.DecommissionedAt))

	second, err := svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecommissioned, second.Status)
	assert.NotNil(t, second.DecommissionedAt)

	_, err = svc.DecommissionGadget(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrGadgetNotFound)
}

func TestDecommissionDeployedGadget(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Car")
	_, err := svc.DeployGadget(ctx, g.ID.String())
	require.NoError(t, err)

	out, err := svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecommissioned, out.Status)
	assert.NotNil(t, out.DecommissionedAt)
}

func TestDeployRejectsRetiredGadgets(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Pen")

	_, err := svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err)
	_, err = svc.DeployGadget(ctx, g.ID.String())
	assert.ErrorIs(t, err, ErrDecommissioned)
}

func TestSelfDestructChallengeLeavesGadgetUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Exploding Pen")

	res, err := svc.SelfDestruct(ctx, g.ID.String(), "")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{6}$`, res.ExpectedCode)
	assert.Nil(t, res.Gadget)

	after, err := svc.GetGadget(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, after.Status)
}

func TestSelfDestructAcceptsAnyWellFormedCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t, WithConfirmationCodeGenerator(func() string { return "aaaaaa" }))
	g := mustCreate(t, svc, "Exploding Pen")

	res, err := svc.SelfDestruct(ctx, g.ID.String(), "")
	require.NoError(t, err)
	require.Equal(t, "aaaaaa", res.ExpectedCode)

	res, err = svc.SelfDestruct(ctx, g.ID.String(), "123abc")
	require.NoError(t, err)
	require.NotNil(t, res.Gadget)
	assert.Equal(t, models.StatusDestroyed, res.Gadget.Status)
	assert.Empty(t, res.ExpectedCode)
	assert.Nil(t, res.Gadget.DecommissionedAt)
}

func TestSelfDestructErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Exploding Pen")

	_, err := svc.SelfDestruct(ctx, uuid.NewString(), "")
	assert.ErrorIs(t, err, ErrGadgetNotFound)

	for _, bad := range []string{"ABCDEF", "abc", "zzzzzz", "abcdef0"} {
		_, err = svc.SelfDestruct(ctx, g.ID.String(), bad)
		assert.ErrorIs(t, err, ErrInvalidConfirmationCode, bad)
	}

	_, err = svc.SelfDestruct(ctx, g.ID.String(), "abcdef")
	require.NoError(t, err)

	_, err = svc.SelfDestruct(ctx, g.ID.String(), "abcdef")
	assert.ErrorIs(t, err, ErrAlreadyDestroyed)
	assert.True(t, appErr.IsCode(err, appErr.CodeConflict))
	_, err = svc.SelfDestruct(ctx, g.ID.String(), "")
	assert.ErrorIs(t, err, ErrAlreadyDestroyed)

	_, err = svc.DecommissionGadget(ctx, g.ID.String())
	assert.ErrorIs(t, err, ErrGadgetDestroyed)
}

func TestSelfDestructKeepsDecommissionTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newGadgetService(t)
	g := mustCreate(t, svc, "Pen")

	_, err := svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err)

	res, err := svc.SelfDestruct(ctx, g.ID.String(), "00ff00")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDestroyed, res.Gadget.Status)
	assert.NotNil(t, res.Gadget.DecommissionedAt)
}

func TestSelfDestructVerifiedConfirmation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryChallengeStore()
	svc, _ := newGadgetService(t,
		WithVerifiedConfirmation(store, time.Minute),
		WithConfirmationCodeGenerator(func() string { return "c0ffee" }),
	)
	g := mustCreate(t, svc, "Exploding Pen")

	_, err := svc.SelfDestruct(ctx, g.ID.String(), "c0ffee")
	assert.ErrorIs(t, err, ErrNoPendingChallenge, "phase two before phase one")

	res, err := svc.SelfDestruct(ctx, g.ID.String(), "")
	require.NoError(t, err)
	require.Equal(t, "c0ffee", res.ExpectedCode)

	_, err = svc.SelfDestruct(ctx, g.ID.String(), "bada55")
	assert.ErrorIs(t, err, ErrChallengeMismatch)

	// A mismatch consumes the challenge; request a new one.
	_, err = svc.SelfDestruct(ctx, g.ID.String(), "")
	require.NoError(t, err)
	res, err = svc.SelfDestruct(ctx, g.ID.String(), "c0ffee")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDestroyed, res.Gadget.Status)
}

func TestTransitionsPublishLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	svc, _ := newGadgetService(t, WithEventPublisher(pub))
	g := mustCreate(t, svc, "Car")

	pub.On("Publish", mock.Anything, models.LifecycleEvent{
		GadgetID: g.ID, Codename: g.Codename,
		From: models.StatusAvailable, To: models.StatusDeployed, OccurredAt: fixedNow,
	}).Return(nil).Once()
	pub.On("Publish", mock.Anything, models.LifecycleEvent{
		GadgetID: g.ID, Codename: g.Codename,
		From: models.StatusDeployed, To: models.StatusDecommissioned, OccurredAt: fixedNow,
	}).Return(errors.New("queue unavailable")).Once()
	pub.On("Publish", mock.Anything, models.LifecycleEvent{
		GadgetID: g.ID, Codename: g.Codename,
		From: models.StatusDecommissioned, To: models.StatusDestroyed, OccurredAt: fixedNow,
	}).Return(nil).Once()

	_, err := svc.DeployGadget(ctx, g.ID.String())
	require.NoError(t, err)
	_, err = svc.DeployGadget(ctx, g.ID.String())
	require.NoError(t, err, "re-deploy is accepted and publishes nothing")

	_, err = svc.DecommissionGadget(ctx, g.ID.String())
	require.NoError(t, err, "publish failures do not fail the transition")

	_, err = svc.SelfDestruct(ctx, g.ID.String(), "abcdef")
	require.NoError(t, err)

	pub.AssertExpectations(t)
	pub.AssertNumberOfCalls(t, "Publish", 3)
}
