package service

import (
	"context"
	"errors"
	"fmt"

	"betteredible/internal/dto"
	"betteredible/internal/infra"
	"betteredible/internal/model"
	"betteredible/internal/pricing"
	"betteredible/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Actor identifies who performed a state transition. It is passed explicitly
// into every transition call — business logic never reads an ambient
// "current user".
type Actor struct {
	ID   string
	Type string
}

type LabelService interface {
	Create(ctx context.Context, clientID uuid.UUID, req dto.CreateLabelRequest, actor Actor) (*dto.LabelResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLabelRequest) (*dto.LabelResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, filter dto.LabelFilter) ([]dto.LabelResponse, error)
	ApprovedByClient(ctx context.Context, clientID uuid.UUID) ([]dto.LabelResponse, error)
	History(ctx context.Context, labelID uuid.UUID) ([]dto.StageEventResponse, error)
	Advance(ctx context.Context, labelID uuid.UUID, req dto.AdvanceStageRequest, actor Actor) (*dto.LabelResponse, error)
	BulkAdvance(ctx context.Context, clientID uuid.UUID, req dto.AdvanceStageRequest, actor Actor) (*dto.BulkAdvanceResponse, error)
}

type labelService struct {
	repo        repository.LabelRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	locker      *infra.RecordLocker
}

func NewLabelService(
	repo repository.LabelRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	locker *infra.RecordLocker,
) LabelService {
	return &labelService{
		repo:        repo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		locker:      locker,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// groupLockKey guards a client's whole label group: individual and bulk
// advances on the same group must serialize against each other.
func groupLockKey(clientID uuid.UUID) string {
	return fmt.Sprintf("lock:labels:%s", clientID)
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *labelService) Create(ctx context.Context, clientID uuid.UUID, req dto.CreateLabelRequest, actor Actor) (*dto.LabelResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, notFound("client", clientID.String())
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound("product", req.ProductID)
	}

	// Snapshot the unit price once, at label creation. An explicit override
	// wins; otherwise the catalog resolver decides. A zero result is stored
	// as-is and surfaced as a warning, never a hard failure.
	label := &model.Label{
		ClientID:     clientID,
		FlavorName:   req.FlavorName,
		ProductID:    productID,
		ProductType:  req.ProductType,
		CurrentStage: model.StageSubmitted,
	}
	if req.UnitPrice != nil {
		label.UnitPrice = *req.UnitPrice
	} else {
		resolved := pricing.Resolve(product.PricingInput(), req.ProductType)
		label.UnitPrice = resolved.Effective().Round(2)
		if resolved.Unresolved {
			log.Warn().
				Str("product_id", req.ProductID).
				Str("product_type", req.ProductType).
				Msg("label created with unresolved pricing")
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, label); err != nil {
			return err
		}
		return s.repo.AppendHistoryTx(orTx(tx, s.repo.DB()), &model.LabelStageEvent{
			LabelID:   label.ID,
			Stage:     model.StageSubmitted,
			ActorID:   actor.ID,
			ActorType: actor.Type,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return labelToResponse(label), nil
}

// orTx prefers the transaction handle when one is open.
func orTx(tx, db *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// ── Metadata update ──────────────────────────────────────────────────────────

// Update edits label metadata. Allowed at any stage — stage progression is
// governed exclusively by Advance/BulkAdvance.
func (s *labelService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLabelRequest) (*dto.LabelResponse, error) {
	label, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("label", id.String())
	}

	if req.FlavorName != "" {
		label.FlavorName = req.FlavorName
	}
	if req.ProductType != "" {
		label.ProductType = req.ProductType
	}
	if req.UnitPrice != nil {
		label.UnitPrice = *req.UnitPrice
	}

	if err := s.repo.Update(ctx, label); err != nil {
		return nil, err
	}
	return labelToResponse(label), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *labelService) ListByClient(ctx context.Context, clientID uuid.UUID, filter dto.LabelFilter) ([]dto.LabelResponse, error) {
	var stage *model.LabelStage
	if filter.Stage != "" {
		st := model.LabelStage(filter.Stage)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown stage %q", filter.Stage)
		}
		stage = &st
	}
	labels, err := s.repo.ListByClient(ctx, clientID, stage)
	if err != nil {
		return nil, err
	}
	return labelsToResponses(labels), nil
}

// ApprovedByClient returns the client's labels at the terminal stage — the
// only labels eligible for order assembly.
func (s *labelService) ApprovedByClient(ctx context.Context, clientID uuid.UUID) ([]dto.LabelResponse, error) {
	approved := model.StageApproved
	labels, err := s.repo.ListByClient(ctx, clientID, &approved)
	if err != nil {
		return nil, err
	}
	return labelsToResponses(labels), nil
}

func (s *labelService) History(ctx context.Context, labelID uuid.UUID) ([]dto.StageEventResponse, error) {
	if _, err := s.repo.FindByID(ctx, labelID); err != nil {
		return nil, notFound("label", labelID.String())
	}
	events, err := s.repo.History(ctx, labelID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StageEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.StageEventResponse{
			Stage:     string(ev.Stage),
			ActorID:   ev.ActorID,
			ActorType: ev.ActorType,
			Notes:     ev.Notes,
			CreatedAt: ev.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

// ── Advance ──────────────────────────────────────────────────────────────────

// Advance moves a single label forward to targetStage. Targets at or before
// the current stage are rejected — regression is not representable through
// this surface.
func (s *labelService) Advance(ctx context.Context, labelID uuid.UUID, req dto.AdvanceStageRequest, actor Actor) (*dto.LabelResponse, error) {
	target := model.LabelStage(req.TargetStage)
	if !target.Valid() {
		return nil, &InvalidTransitionError{Entity: "label", To: req.TargetStage, Reason: "unknown stage"}
	}

	label, err := s.repo.FindByID(ctx, labelID)
	if err != nil {
		return nil, notFound("label", labelID.String())
	}

	release, err := s.locker.Acquire(ctx, groupLockKey(label.ClientID))
	if err != nil {
		if errors.Is(err, infra.ErrLockHeld) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}
	defer release()

	// Re-read under the lock: another session may have advanced the label
	// between the first read and lock acquisition.
	label, err = s.repo.FindByID(ctx, labelID)
	if err != nil {
		return nil, notFound("label", labelID.String())
	}

	if target.Rank() <= label.CurrentStage.Rank() {
		return nil, &InvalidTransitionError{
			Entity: "label",
			From:   string(label.CurrentStage),
			To:     string(target),
			Reason: "stages only move forward",
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		h := orTx(tx, s.repo.DB())
		if err := s.repo.SetStageTx(h, label.ID, target); err != nil {
			return err
		}
		return s.repo.AppendHistoryTx(h, &model.LabelStageEvent{
			LabelID:   label.ID,
			Stage:     target,
			ActorID:   actor.ID,
			ActorType: actor.Type,
			Notes:     req.Notes,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("label_id", label.ID.String()).
		Str("from", string(label.CurrentStage)).
		Str("to", string(target)).
		Str("actor", actor.ID).
		Msg("label stage advanced")

	label.CurrentStage = target
	return labelToResponse(label), nil
}

// BulkAdvance advances every label in the client's group whose stage precedes
// targetStage. Labels already at or past the target are skipped, not failed.
// The whole group moves in one transaction: a concurrent reader sees either
// none or all of the updates.
func (s *labelService) BulkAdvance(ctx context.Context, clientID uuid.UUID, req dto.AdvanceStageRequest, actor Actor) (*dto.BulkAdvanceResponse, error) {
	target := model.LabelStage(req.TargetStage)
	if !target.Valid() {
		return nil, &InvalidTransitionError{Entity: "label", To: req.TargetStage, Reason: "unknown stage"}
	}

	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, notFound("client", clientID.String())
	}

	release, err := s.locker.Acquire(ctx, groupLockKey(clientID))
	if err != nil {
		if errors.Is(err, infra.ErrLockHeld) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}
	defer release()

	updated := 0
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		h := orTx(tx, s.repo.DB())
		labels, err := s.repo.ListByClientTx(h, clientID)
		if err != nil {
			return err
		}
		for _, label := range labels {
			if label.CurrentStage.Rank() >= target.Rank() {
				continue
			}
			if err := s.repo.SetStageTx(h, label.ID, target); err != nil {
				return err
			}
			if err := s.repo.AppendHistoryTx(h, &model.LabelStageEvent{
				LabelID:   label.ID,
				Stage:     target,
				ActorID:   actor.ID,
				ActorType: actor.Type,
				Notes:     req.Notes,
			}); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("client_id", clientID.String()).
		Str("target", string(target)).
		Int("updated", updated).
		Str("actor", actor.ID).
		Msg("label group advanced")

	return &dto.BulkAdvanceResponse{UpdatedCount: updated, TargetStage: string(target)}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func labelToResponse(l *model.Label) *dto.LabelResponse {
	next := l.CurrentStage.NextStages()
	stages := make([]string, 0, len(next))
	for _, st := range next {
		stages = append(stages, string(st))
	}
	return &dto.LabelResponse{
		ID:              l.ID.String(),
		ClientID:        l.ClientID.String(),
		FlavorName:      l.FlavorName,
		ProductID:       l.ProductID.String(),
		ProductType:     l.ProductType,
		UnitPrice:       l.UnitPrice,
		CurrentStage:    string(l.CurrentStage),
		AvailableStages: stages,
		PriceWarning:    !l.UnitPrice.IsPositive(),
		CreatedAt:       l.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func labelsToResponses(labels []model.Label) []dto.LabelResponse {
	out := make([]dto.LabelResponse, 0, len(labels))
	for i := range labels {
		out = append(out, *labelToResponse(&labels[i]))
	}
	return out
}
