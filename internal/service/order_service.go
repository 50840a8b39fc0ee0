package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betteredible/internal/dto"
	"betteredible/internal/infra"
	"betteredible/internal/model"
	"betteredible/internal/pricing"
	"betteredible/internal/repository"
	"betteredible/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest, actor Actor) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest, actor Actor) (*dto.OrderResponse, error)
	PushToProduction(ctx context.Context, id uuid.UUID, actor Actor) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest, actor Actor) (*dto.OrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	SetShipASAP(ctx context.Context, id uuid.UUID, shipASAP bool) (*dto.OrderResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)
}

type orderService struct {
	repo       repository.OrderRepository
	labelRepo  repository.LabelRepository
	clientRepo repository.ClientRepository
	locker     *infra.RecordLocker
	dispatcher *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	labelRepo repository.LabelRepository,
	clientRepo repository.ClientRepository,
	locker *infra.RecordLocker,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:       repo,
		labelRepo:  labelRepo,
		clientRepo: clientRepo,
		locker:     locker,
		dispatcher: dispatcher,
	}
}

func orderLockKey(id uuid.UUID) string {
	return fmt.Sprintf("lock:order:%s", id)
}

func (s *orderService) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	release, err := s.locker.Acquire(ctx, orderLockKey(id))
	if err != nil {
		if errors.Is(err, infra.ErrLockHeld) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}
	return release, nil
}

// snapshotLines resolves each line request against its source label and
// produces the by-value OrderItem snapshots plus the computation lines.
// Every label must belong to clientID and sit at the terminal approved stage.
// Zero quantities mean "not selected" and are skipped.
func (s *orderService) snapshotLines(ctx context.Context, clientID uuid.UUID, lines []dto.OrderLineRequest) ([]model.OrderItem, []pricing.Line, error) {
	var items []model.OrderItem
	var calcLines []pricing.Line

	for _, line := range lines {
		labelID, err := uuid.Parse(line.LabelID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid label_id: %w", err)
		}
		label, err := s.labelRepo.FindByID(ctx, labelID)
		if err != nil {
			return nil, nil, notFound("label", line.LabelID)
		}
		if label.ClientID != clientID {
			return nil, nil, &InvalidTransitionError{
				Entity: "order",
				Reason: fmt.Sprintf("label %s belongs to a different client", line.LabelID),
			}
		}
		if !label.CurrentStage.Terminal() {
			return nil, nil, &InvalidTransitionError{
				Entity: "order",
				From:   string(label.CurrentStage),
				Reason: fmt.Sprintf("label %s is not approved for production", line.LabelID),
			}
		}
		if line.Quantity <= 0 {
			continue
		}

		lineTotal := label.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		items = append(items, model.OrderItem{
			LabelID:     label.ID,
			FlavorName:  label.FlavorName,
			ProductType: label.ProductType,
			Quantity:    line.Quantity,
			UnitPrice:   label.UnitPrice,
			LineTotal:   lineTotal,
		})
		calcLines = append(calcLines, pricing.Line{Quantity: line.Quantity, UnitPrice: label.UnitPrice})
	}
	return items, calcLines, nil
}

func parseDeliveryDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery_date: %w", err)
	}
	return &t, nil
}

func normalizeDiscountType(dt string) string {
	if dt == model.DiscountPercentage {
		return model.DiscountPercentage
	}
	return model.DiscountFlat
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest, actor Actor) (*dto.OrderResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client_id: %w", err)
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, notFound("client", req.ClientID)
	}

	items, calcLines, err := s.snapshotLines(ctx, clientID, req.Lines)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("order needs at least one line with a positive quantity")
	}

	deliveryDate, err := parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, err
	}
	discountType := normalizeDiscountType(req.DiscountType)
	totals := pricing.ComputeTotals(calcLines, req.Discount, discountType)

	order := &model.ClientOrder{
		ClientID:       clientID,
		Status:         model.OrderWaiting,
		Items:          items,
		DeliveryDate:   deliveryDate,
		Discount:       req.Discount,
		DiscountType:   discountType,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		ShipASAP:       req.ShipASAP,
		IsRecurring:    req.IsRecurring,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}
		order.OrderNumber = num
		return s.repo.Create(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Int("order_number", order.OrderNumber).
		Str("client_id", req.ClientID).
		Str("actor", actor.ID).
		Msg("client order created")

	order.Client = client
	return orderToResponse(order), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id.String())
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Update (waiting only) ────────────────────────────────────────────────────

// Update re-snapshots the order's lines and totals. Only orders still in
// intake accept edits; anything else is a gated rejection.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest, actor Actor) (*dto.OrderResponse, error) {
	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id.String())
	}
	if order.Status != model.OrderWaiting {
		return nil, &InvalidTransitionError{
			Entity: "order",
			From:   string(order.Status),
			Reason: "orders can only be edited while waiting",
		}
	}

	items, calcLines, err := s.snapshotLines(ctx, order.ClientID, req.Lines)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("order needs at least one line with a positive quantity")
	}

	deliveryDate, err := parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, err
	}
	discountType := normalizeDiscountType(req.DiscountType)
	totals := pricing.ComputeTotals(calcLines, req.Discount, discountType)

	order.DeliveryDate = deliveryDate
	order.Discount = req.Discount
	order.DiscountType = discountType
	order.Subtotal = totals.Subtotal
	order.DiscountAmount = totals.DiscountAmount
	order.Total = totals.Total
	if req.IsRecurring != nil {
		order.IsRecurring = *req.IsRecurring
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.SaveGuarded(ctx, tx, order)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConcurrentModification
		}
		return s.repo.ReplaceItemsTx(orTx(tx, s.repo.DB()), order.ID, items)
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Items = items
	return orderToResponse(order), nil
}

// ── Push to production ───────────────────────────────────────────────────────

// PushToProduction is the single entry point into the production sequence:
// waiting → stage_1, exactly once per order.
func (s *orderService) PushToProduction(ctx context.Context, id uuid.UUID, actor Actor) (*dto.OrderResponse, error) {
	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id.String())
	}
	if order.Status != model.OrderWaiting {
		return nil, &InvalidTransitionError{
			Entity: "order",
			From:   string(order.Status),
			To:     string(model.OrderStage1),
			Reason: "only waiting orders can be pushed to production",
		}
	}

	order.Status = model.OrderStage1
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.SaveGuarded(ctx, tx, order)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Int("order_number", order.OrderNumber).
		Str("actor", actor.ID).
		Msg("order pushed to production")

	// Best-effort: production gets the order sheet asynchronously.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueOrderSheet(ctx, worker.OrderSheetJobPayload{OrderID: order.ID.String()})
	}

	return orderToResponse(order), nil
}

// ── Manual status change ─────────────────────────────────────────────────────

// UpdateStatus moves an order between production statuses. The structural
// guarantees: waiting is unreachable once left, shipped is terminal, and
// production can only be entered through PushToProduction.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest, actor Actor) (*dto.OrderResponse, error) {
	target := model.OrderStatus(req.Status)
	if !target.Valid() {
		return nil, &InvalidTransitionError{Entity: "order", To: req.Status, Reason: "unknown status"}
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id.String())
	}

	if reason := statusChangeGate(order.Status, target); reason != "" {
		return nil, &InvalidTransitionError{
			Entity: "order",
			From:   string(order.Status),
			To:     string(target),
			Reason: reason,
		}
	}

	from := order.Status
	order.Status = target
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.SaveGuarded(ctx, tx, order)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Int("order_number", order.OrderNumber).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("actor", actor.ID).
		Msg("order status changed")

	if target == model.OrderShipped && s.dispatcher != nil {
		if order.Client != nil && order.Client.Email != nil {
			_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
				ToEmail: *order.Client.Email,
				Subject: fmt.Sprintf("Order #%d has shipped", order.OrderNumber),
				Body:    fmt.Sprintf("Your order #%d is on its way.", order.OrderNumber),
			})
		}
	}

	return orderToResponse(order), nil
}

// statusChangeGate returns the rejection reason, or "" when the move is
// allowed. Movement between production statuses is deliberately free in both
// directions (rework happens).
func statusChangeGate(from, to model.OrderStatus) string {
	switch {
	case from.Terminal():
		return "shipped orders are immutable"
	case from == model.OrderCancelled:
		return "cancelled orders cannot change status"
	case to == model.OrderWaiting:
		return "an order never returns to intake"
	case from == to:
		return "order is already in this status"
	case from == model.OrderWaiting && to != model.OrderCancelled:
		return "waiting orders enter production only through push"
	}
	return ""
}

// ── Delete ───────────────────────────────────────────────────────────────────

// Delete removes an order unless it is in production (stage_1 through
// ready_to_ship). Waiting, shipped and cancelled orders may be deleted.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	release, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("order", id.String())
	}
	if order.Status.InProduction() {
		return &InvalidTransitionError{
			Entity: "order",
			From:   string(order.Status),
			Reason: "orders in production cannot be deleted",
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().
		Int("order_number", order.OrderNumber).
		Str("actor", actor.ID).
		Msg("order deleted")
	return nil
}

// ── Ship-ASAP toggle ─────────────────────────────────────────────────────────

// SetShipASAP flips the flag without touching status. Blocked only on
// terminal orders.
func (s *orderService) SetShipASAP(ctx context.Context, id uuid.UUID, shipASAP bool) (*dto.OrderResponse, error) {
	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id.String())
	}
	if order.Status.Terminal() {
		return nil, &InvalidTransitionError{
			Entity: "order",
			From:   string(order.Status),
			Reason: "shipped orders are immutable",
		}
	}

	order.ShipASAP = shipASAP
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.SaveGuarded(ctx, tx, order)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(order), nil
}

// ── Quote ────────────────────────────────────────────────────────────────────

// Quote previews totals for a line set without persisting anything. Labels do
// not need to be approved yet — the preview runs during order assembly.
func (s *orderService) Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	var calcLines []pricing.Line
	var unpriced []string

	for _, line := range req.Lines {
		labelID, err := uuid.Parse(line.LabelID)
		if err != nil {
			return nil, fmt.Errorf("invalid label_id: %w", err)
		}
		label, err := s.labelRepo.FindByID(ctx, labelID)
		if err != nil {
			return nil, notFound("label", line.LabelID)
		}
		if line.Quantity > 0 && !label.UnitPrice.IsPositive() {
			unpriced = append(unpriced, line.LabelID)
		}
		calcLines = append(calcLines, pricing.Line{Quantity: line.Quantity, UnitPrice: label.UnitPrice})
	}

	totals := pricing.ComputeTotals(calcLines, req.Discount, normalizeDiscountType(req.DiscountType))
	return &dto.QuoteResponse{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		UnpricedLines:  unpriced,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func orderToResponse(o *model.ClientOrder) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			LabelID:      item.LabelID.String(),
			FlavorName:   item.FlavorName,
			ProductType:  item.ProductType,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal,
			PriceWarning: !item.UnitPrice.IsPositive(),
		})
	}

	resp := &dto.OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		ClientID:       o.ClientID.String(),
		Status:         string(o.Status),
		Items:          items,
		Discount:       o.Discount,
		DiscountType:   o.DiscountType,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		ShipASAP:       o.ShipASAP,
		IsRecurring:    o.IsRecurring,
		CreatedAt:      o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if o.Client != nil {
		resp.StoreName = o.Client.StoreName
	}
	if o.DeliveryDate != nil {
		d := o.DeliveryDate.Format("2006-01-02")
		resp.DeliveryDate = &d
	}
	return resp
}
