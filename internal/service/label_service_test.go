package service_test

import (
	"context"
	"testing"

	"betteredible/internal/dto"
	"betteredible/internal/model"
	"betteredible/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLabelSvc() (service.LabelService, *stubLabelRepo, *stubClientRepo, *stubProductRepo) {
	labelRepo := newStubLabelRepo()
	clientRepo := newStubClientRepo()
	productRepo := newStubProductRepo()
	svc := service.NewLabelService(labelRepo, clientRepo, productRepo, nil)
	return svc, labelRepo, clientRepo, productRepo
}

var testActor = service.Actor{ID: "user-1", Type: "admin"}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateLabel_ResolvesPriceFromCatalog(t *testing.T) {
	svc, labelRepo, clientRepo, productRepo := buildLabelSvc()
	client := seedClient(clientRepo, "Green Leaf Dispensary")
	product := seedProduct(productRepo, "Sour Gummies", 12.50)

	resp, err := svc.Create(context.Background(), client.ID, dto.CreateLabelRequest{
		FlavorName: "Blue Razz",
		ProductID:  product.ID.String(),
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "submitted", resp.CurrentStage)
	assert.Equal(t, "12.5", resp.UnitPrice.String())
	assert.False(t, resp.PriceWarning)
	// Creation leaves an initial history event
	assert.Len(t, labelRepo.history, 1)
	assert.Equal(t, model.StageSubmitted, labelRepo.history[0].Stage)
}

func TestCreateLabel_ZeroPriceIsWarningNotError(t *testing.T) {
	svc, _, clientRepo, productRepo := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	product := seedProduct(productRepo, "Unpriced Product", 0)

	resp, err := svc.Create(context.Background(), client.ID, dto.CreateLabelRequest{
		FlavorName: "Mystery Flavor",
		ProductID:  product.ID.String(),
	}, testActor)
	require.NoError(t, err)
	assert.True(t, resp.PriceWarning)
	assert.True(t, resp.UnitPrice.IsZero())
}

func TestCreateLabel_ExplicitPriceOverridesResolver(t *testing.T) {
	svc, _, clientRepo, productRepo := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	product := seedProduct(productRepo, "Sour Gummies", 12.50)
	override := decimal.NewFromFloat(9.99)

	resp, err := svc.Create(context.Background(), client.ID, dto.CreateLabelRequest{
		FlavorName: "Custom Priced",
		ProductID:  product.ID.String(),
		UnitPrice:  &override,
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "9.99", resp.UnitPrice.String())
}

// ── Advance ──────────────────────────────────────────────────────────────────

func TestAdvance_ForwardMoveSucceeds(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageSubmitted, 10)

	resp, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{
		TargetStage: "design",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "design", resp.CurrentStage)
	require.Len(t, labelRepo.history, 1)
	assert.Equal(t, model.StageDesign, labelRepo.history[0].Stage)
	assert.Equal(t, "user-1", labelRepo.history[0].ActorID)
}

func TestAdvance_SkippingStagesIsAllowed(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageSubmitted, 10)

	resp, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{
		TargetStage: "approved",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.CurrentStage)
	assert.Empty(t, resp.AvailableStages)
}

func TestAdvance_BackwardMoveRejected(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageProofSent, 10)

	_, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{
		TargetStage: "design",
	}, testActor)

	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "proof_sent", ite.From)
	assert.Equal(t, "design", ite.To)

	// Stage untouched
	stored, _ := labelRepo.FindByID(context.Background(), label.ID)
	assert.Equal(t, model.StageProofSent, stored.CurrentStage)
	assert.Empty(t, labelRepo.history)
}

func TestAdvance_SameStageRejected(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageDesign, 10)

	_, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{
		TargetStage: "design",
	}, testActor)

	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
}

func TestAdvance_UnknownStageRejected(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageDesign, 10)

	_, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{
		TargetStage: "shipped",
	}, testActor)

	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "unknown stage")
}

func TestAdvance_TerminalStageHasNoTargets(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageApproved, 10)

	for _, target := range []string{"submitted", "design", "proof_sent", "client_review", "approved"} {
		_, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{TargetStage: target}, testActor)
		var ite *service.InvalidTransitionError
		assert.ErrorAs(t, err, &ite, "target %s must be rejected", target)
	}
}

// ── BulkAdvance ──────────────────────────────────────────────────────────────

func TestBulkAdvance_SkipsLabelsAtOrPastTarget(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")

	// Three labels behind the target, one already there, one past it.
	a := seedLabel(labelRepo, client.ID, "A", model.StageSubmitted, 10)
	b := seedLabel(labelRepo, client.ID, "B", model.StageDesign, 10)
	c := seedLabel(labelRepo, client.ID, "C", model.StageProofSent, 10)
	d := seedLabel(labelRepo, client.ID, "D", model.StageClientReview, 10)
	e := seedLabel(labelRepo, client.ID, "E", model.StageApproved, 10)

	resp, err := svc.BulkAdvance(context.Background(), client.ID, dto.AdvanceStageRequest{
		TargetStage: "client_review",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UpdatedCount)
	assert.Equal(t, "client_review", resp.TargetStage)

	for _, id := range []struct {
		label *model.Label
		want  model.LabelStage
	}{
		{a, model.StageClientReview},
		{b, model.StageClientReview},
		{c, model.StageClientReview},
		{d, model.StageClientReview}, // already there, untouched
		{e, model.StageApproved},     // past the target, untouched
	} {
		stored, _ := labelRepo.FindByID(context.Background(), id.label.ID)
		assert.Equal(t, id.want, stored.CurrentStage, "label %s", id.label.FlavorName)
	}

	// History only for the three that moved
	assert.Len(t, labelRepo.history, 3)
}

func TestBulkAdvance_NoEligibleLabelsIsZeroNotError(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	seedLabel(labelRepo, client.ID, "A", model.StageApproved, 10)

	resp, err := svc.BulkAdvance(context.Background(), client.ID, dto.AdvanceStageRequest{
		TargetStage: "design",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.UpdatedCount)
}

func TestBulkAdvance_UnknownClientRejected(t *testing.T) {
	svc, _, _, _ := buildLabelSvc()

	_, err := svc.BulkAdvance(context.Background(), uuid.New(), dto.AdvanceStageRequest{
		TargetStage: "design",
	}, testActor)

	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// ── History ──────────────────────────────────────────────────────────────────

func TestHistory_RecordsEveryTransitionInOrder(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	label := seedLabel(labelRepo, client.ID, "Mango", model.StageSubmitted, 10)

	for _, target := range []string{"design", "proof_sent", "approved"} {
		_, err := svc.Advance(context.Background(), label.ID, dto.AdvanceStageRequest{TargetStage: target}, testActor)
		require.NoError(t, err)
	}

	events, err := svc.History(context.Background(), label.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "design", events[0].Stage)
	assert.Equal(t, "proof_sent", events[1].Stage)
	assert.Equal(t, "approved", events[2].Stage)
}

func TestBulkAdvance_ApprovedGroupFeedsOrderAssembly(t *testing.T) {
	svc, labelRepo, clientRepo, _ := buildLabelSvc()
	client := seedClient(clientRepo, "Test Store")
	seedLabel(labelRepo, client.ID, "Mango", model.StageSubmitted, 10)
	seedLabel(labelRepo, client.ID, "Cherry", model.StageDesign, 11)
	seedLabel(labelRepo, client.ID, "Grape", model.StageProofSent, 12)

	resp, err := svc.BulkAdvance(context.Background(), client.ID, dto.AdvanceStageRequest{
		TargetStage: "approved",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UpdatedCount)

	approved, err := svc.ApprovedByClient(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, approved, 3)
	for _, l := range approved {
		assert.Equal(t, "approved", l.CurrentStage)
		assert.Empty(t, l.AvailableStages)
	}
}
