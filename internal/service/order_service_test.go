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

func buildOrderSvc() (service.OrderService, *stubOrderRepo, *stubLabelRepo, *stubClientRepo) {
	orderRepo := newStubOrderRepo()
	labelRepo := newStubLabelRepo()
	clientRepo := newStubClientRepo()
	svc := service.NewOrderService(orderRepo, labelRepo, clientRepo, nil, nil)
	return svc, orderRepo, labelRepo, clientRepo
}

func lineReq(labelID uuid.UUID, qty int) dto.OrderLineRequest {
	return dto.OrderLineRequest{LabelID: labelID.String(), Quantity: qty}
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateOrder_SnapshotsApprovedLabels(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	l1 := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)
	l2 := seedLabel(labelRepo, client.ID, "Mango", model.StageApproved, 8.50)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(l1.ID, 10), lineReq(l2.ID, 4)},
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "waiting", resp.Status)
	assert.Len(t, resp.Items, 2)
	// 10×10.00 + 4×8.50 = 134.00
	assert.Equal(t, "134", resp.Subtotal.String())
	assert.Equal(t, "134", resp.Total.String())
	assert.Greater(t, resp.OrderNumber, 1000)
}

func TestCreateOrder_SnapshotIsImmuneToLaterPriceChanges(t *testing.T) {
	svc, orderRepo, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)
	require.NoError(t, err)

	// Reprice the source label after the order exists
	label.UnitPrice = decimal.NewFromFloat(99.99)
	labelRepo.labels[label.ID] = label

	stored, err := orderRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "10", stored.Items[0].UnitPrice.String())
	assert.Equal(t, "50", stored.Items[0].LineTotal.String())
}

func TestCreateOrder_ZeroQuantityLinesAreSkipped(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	l1 := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)
	l2 := seedLabel(labelRepo, client.ID, "Mango", model.StageApproved, 8.50)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(l1.ID, 3), lineReq(l2.ID, 0)},
	}, testActor)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "30", resp.Subtotal.String())
}

func TestCreateOrder_AllZeroQuantitiesRejected(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 0)},
	}, testActor)
	assert.ErrorContains(t, err, "at least one line")
}

func TestCreateOrder_UnapprovedLabelRejected(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageClientReview, 10.00)

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)

	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "not approved")
}

func TestCreateOrder_ForeignLabelRejected(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	other := seedClient(clientRepo, "Other Store")
	label := seedLabel(labelRepo, other.ID, "Not Yours", model.StageApproved, 10.00)

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)

	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "different client")
}

func TestCreateOrder_PercentageDiscount(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID:     client.ID.String(),
		Lines:        []dto.OrderLineRequest{lineReq(label.ID, 10)},
		Discount:     decimal.NewFromInt(10),
		DiscountType: "percentage",
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Subtotal.String())
	assert.Equal(t, "10", resp.DiscountAmount.String())
	assert.Equal(t, "90", resp.Total.String())
}

// ── Edit gating ──────────────────────────────────────────────────────────────

func TestUpdateOrder_OnlyWhileWaiting(t *testing.T) {
	svc, orderRepo, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	// Editable while waiting
	updated, err := svc.Update(context.Background(), orderID, dto.UpdateOrderRequest{
		Lines: []dto.OrderLineRequest{lineReq(label.ID, 8)},
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "80", updated.Subtotal.String())

	// Push into production, then edits must be refused
	_, err = svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), orderID, dto.UpdateOrderRequest{
		Lines: []dto.OrderLineRequest{lineReq(label.ID, 2)},
	}, testActor)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "waiting")

	// Items unchanged by the refused edit
	stored, _ := orderRepo.FindByID(context.Background(), orderID)
	assert.Equal(t, 8, stored.Items[0].Quantity)
}

// ── Push to production ───────────────────────────────────────────────────────

func TestPushToProduction_MovesWaitingToStage1Once(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	pushed, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)
	assert.Equal(t, "stage_1", pushed.Status)

	// Second push is a gated rejection, not idempotent success
	_, err = svc.PushToProduction(context.Background(), orderID, testActor)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
}

// ── Status gating ────────────────────────────────────────────────────────────

func seedOrder(svc service.OrderService, labelRepo *stubLabelRepo, clientRepo *stubClientRepo) uuid.UUID {
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageApproved, 10.00)
	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: client.ID.String(),
		Lines:    []dto.OrderLineRequest{lineReq(label.ID, 5)},
	}, testActor)
	if err != nil {
		panic(err)
	}
	return uuid.MustParse(resp.ID)
}

func setStatus(t *testing.T, svc service.OrderService, id uuid.UUID, status string) {
	t.Helper()
	_, err := svc.UpdateStatus(context.Background(), id, dto.UpdateOrderStatusRequest{Status: status}, testActor)
	require.NoError(t, err)
}

func TestUpdateStatus_WaitingEntersProductionOnlyThroughPush(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)

	_, err := svc.UpdateStatus(context.Background(), orderID, dto.UpdateOrderStatusRequest{Status: "stage_2"}, testActor)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "push")
}

func TestUpdateStatus_WaitingCanBeCancelled(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)

	resp, err := svc.UpdateStatus(context.Background(), orderID, dto.UpdateOrderStatusRequest{Status: "cancelled"}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestUpdateStatus_NeverBackToWaiting(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), orderID, dto.UpdateOrderStatusRequest{Status: "waiting"}, testActor)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
}

func TestUpdateStatus_ShippedIsTerminal(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)
	setStatus(t, svc, orderID, "ready_to_ship")
	setStatus(t, svc, orderID, "shipped")

	for _, target := range []string{"stage_1", "ready_to_ship", "cancelled", "waiting"} {
		_, err := svc.UpdateStatus(context.Background(), orderID, dto.UpdateOrderStatusRequest{Status: target}, testActor)
		var ite *service.InvalidTransitionError
		assert.ErrorAs(t, err, &ite, "target %s must be rejected", target)
	}
}

func TestUpdateStatus_ProductionMovesFreely(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)

	// Forward through stages, then a backward rework move
	setStatus(t, svc, orderID, "stage_3")
	setStatus(t, svc, orderID, "stage_2")
	setStatus(t, svc, orderID, "stage_4")
	setStatus(t, svc, orderID, "ready_to_ship")
}

// ── Delete gating ────────────────────────────────────────────────────────────

func TestDeleteOrder_BlockedInProduction(t *testing.T) {
	svc, orderRepo, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), orderID, testActor)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Contains(t, ite.Reason, "production")

	// Still there
	_, err = orderRepo.FindByID(context.Background(), orderID)
	assert.NoError(t, err)
}

func TestDeleteOrder_AllowedWhileWaiting(t *testing.T) {
	svc, orderRepo, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)

	require.NoError(t, svc.Delete(context.Background(), orderID, testActor))
	_, err := orderRepo.FindByID(context.Background(), orderID)
	assert.Error(t, err)
}

// ── Ship-ASAP ────────────────────────────────────────────────────────────────

func TestSetShipASAP_OrthogonalToStatus(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)

	resp, err := svc.SetShipASAP(context.Background(), orderID, true)
	require.NoError(t, err)
	assert.True(t, resp.ShipASAP)
	assert.Equal(t, "stage_1", resp.Status) // status untouched

	resp, err = svc.SetShipASAP(context.Background(), orderID, false)
	require.NoError(t, err)
	assert.False(t, resp.ShipASAP)
}

func TestSetShipASAP_BlockedOnShippedOrder(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	orderID := seedOrder(svc, labelRepo, clientRepo)
	_, err := svc.PushToProduction(context.Background(), orderID, testActor)
	require.NoError(t, err)
	setStatus(t, svc, orderID, "shipped")

	_, err = svc.SetShipASAP(context.Background(), orderID, true)
	var ite *service.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
}

// ── Quote ────────────────────────────────────────────────────────────────────

func TestQuote_FlagsUnpricedLines(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	priced := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageDesign, 10.00)
	unpriced := seedLabel(labelRepo, client.ID, "Mystery", model.StageDesign, 0)

	resp, err := svc.Quote(context.Background(), dto.QuoteRequest{
		Lines: []dto.OrderLineRequest{lineReq(priced.ID, 3), lineReq(unpriced.ID, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "30", resp.Subtotal.String())
	require.Len(t, resp.UnpricedLines, 1)
	assert.Equal(t, unpriced.ID.String(), resp.UnpricedLines[0])
}

func TestQuote_DoesNotRequireApprovedLabels(t *testing.T) {
	svc, _, labelRepo, clientRepo := buildOrderSvc()
	client := seedClient(clientRepo, "Green Leaf")
	label := seedLabel(labelRepo, client.ID, "Blue Razz", model.StageSubmitted, 12.00)

	resp, err := svc.Quote(context.Background(), dto.QuoteRequest{
		Lines:        []dto.OrderLineRequest{lineReq(label.ID, 10)},
		Discount:     decimal.NewFromInt(20),
		DiscountType: "flat",
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Total.String())
}
