package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// minCorrectionNote forces the operator to write a real justification.
const minCorrectionNote = 15

// BatchFixService is the privileged flow that resolves suspicious batches:
// one compensating OUT_CORRECTION movement per zero-loaded line, batch goes
// FIXED when the last line is corrected.
type BatchFixService interface {
	ListSuspicious(ctx context.Context, limit int) (*dto.BatchListResponse, error)
	GetZeroLoaded(ctx context.Context, batchID uuid.UUID) (*dto.ZeroLoadedResponse, error)
	FixItem(ctx context.Context, batchID, itemID uuid.UUID, req dto.FixBatchItemRequest, actorRole string) (*dto.BatchItemResponse, error)
}

type batchFixService struct {
	batches repository.BatchRepository
	audits  repository.AuditLogRepository
	stock   StockService
}

func NewBatchFixService(
	batches repository.BatchRepository,
	audits repository.AuditLogRepository,
	stock StockService,
) BatchFixService {
	return &batchFixService{batches: batches, audits: audits, stock: stock}
}

func (s *batchFixService) ListSuspicious(ctx context.Context, limit int) (*dto.BatchListResponse, error) {
	batches, err := s.batches.ListSuspicious(ctx, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		data = append(data, batchToResponse(&b))
	}
	return &dto.BatchListResponse{Data: data}, nil
}

func (s *batchFixService) GetZeroLoaded(ctx context.Context, batchID uuid.UUID) (*dto.ZeroLoadedResponse, error) {
	batch, err := s.batches.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, &apierror.NotFoundError{Entity: "batch"}
	}
	items, err := s.batches.ZeroLoadedItems(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ZeroLoadedResponse{
		Batch: batchToResponse(batch),
		Items: make([]dto.BatchItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, itemToResponse(&item))
	}
	return resp, nil
}

// ── FixItem ──────────────────────────────────────────────────────────────────
// One ACID unit: compensating movement, item mutation, audit entry, and the
// FIXED transition when nothing is left to correct.

func (s *batchFixService) FixItem(ctx context.Context, batchID, itemID uuid.UUID, req dto.FixBatchItemRequest, actorRole string) (*dto.BatchItemResponse, error) {
	if err := authorize(actorRole, OpFixBatchItem); err != nil {
		return nil, err
	}
	role := NormalizeRole(actorRole)

	// Rune count, not byte count: multibyte notes must not pass short.
	note := strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(note) < minCorrectionNote {
		return nil, apierror.NewValidationf("correction note must be at least %d characters", minCorrectionNote)
	}
	if !req.CorrectedWeight.IsPositive() {
		return nil, apierror.NewValidationf("corrected weight must be greater than 0")
	}

	batch, err := s.batches.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, &apierror.NotFoundError{Entity: "batch"}
	}
	item, err := s.batches.FindItemByID(ctx, itemID)
	if err != nil || item.ProductionBatchID != batchID {
		return nil, apierror.NewValidationf("batch item not found in given batch")
	}
	if !item.IsZeroLoaded {
		return nil, apierror.NewValidationf("only zero-loaded items can be fixed")
	}
	if item.CorrectedWeight != nil {
		return nil, apierror.NewValidationf("item is already corrected")
	}

	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		// Re-read the item under a row lock and re-apply the guards: the
		// checks above ran outside the transaction, so a concurrent fix of
		// the same line could have committed in between. The lock makes the
		// second caller see the correction and stop here instead of posting
		// a second movement.
		item, err = s.batches.FindItemByIDForUpdateTx(tx, itemID)
		if err != nil {
			return apierror.NewValidationf("batch item not found in given batch")
		}
		if item.CorrectedWeight != nil {
			return apierror.NewValidationf("item is already corrected")
		}

		batchRef := batch.ID
		// The movement is timestamped at the batch's creation, not "now",
		// so the ledger stays chronological with the run it compensates.
		movement := &model.StockMovement{
			MaterialID:    item.MaterialID,
			Type:          model.MovementOutCorrection,
			Reason:        model.ReasonAdjustment,
			Quantity:      req.CorrectedWeight,
			MovementAt:    batch.CreatedAt,
			ReferenceType: "DTM_BATCH_FIX",
			ReferenceID:   &batchRef,
			Note:          &note,
		}
		if err := s.stock.AddMovementTx(tx, movement); err != nil {
			return err
		}

		now := time.Now().UTC()
		item.CorrectedWeight = &req.CorrectedWeight
		item.CorrectionNote = &note
		item.CorrectedBy = &role
		item.CorrectedAt = &now
		if err := s.batches.UpdateItemTx(tx, item); err != nil {
			return err
		}

		if err := s.audits.CreateTx(tx, &model.AuditLog{
			EntityName: "batch_item_fix",
			EntityID:   item.ID.String(),
			Action:     "FIX",
			Actor:      role,
			Payload: fmt.Sprintf("batch_id=%s batch_item_id=%s material_id=%s corrected_weight=%s note=%s",
				batch.ID, item.ID, item.MaterialID, req.CorrectedWeight.StringFixed(3), note),
		}); err != nil {
			return err
		}

		remaining, err := s.batches.CountUncorrectedZeroTx(tx, batchID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			batch.Status = model.BatchFixed
			return s.batches.UpdateBatchTx(tx, batch)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := itemToResponse(item)
	return &resp, nil
}

func batchToResponse(b *model.ProductionBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:               b.ID.String(),
		BatchCode:        b.BatchCode,
		BatchName:        b.BatchName,
		Date:             b.Date.Format("2006-01-02"),
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		Feeder:           b.Feeder,
		RecipeID:         b.RecipeID,
		RecipeName:       b.RecipeName,
		Status:           b.Status,
		ZeroLoadedCount:  b.ZeroLoadedCount,
		SuspiciousReason: b.SuspiciousReason,
		CreatedAt:        b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func itemToResponse(item *model.BatchItem) dto.BatchItemResponse {
	var correctedAt *string
	if item.CorrectedAt != nil {
		formatted := item.CorrectedAt.UTC().Format(time.RFC3339)
		correctedAt = &formatted
	}
	materialName := ""
	if item.Material != nil {
		materialName = item.Material.Name
	}
	return dto.BatchItemResponse{
		ID:              item.ID.String(),
		MaterialID:      item.MaterialID.String(),
		MaterialName:    materialName,
		BatchCode:       item.BatchCode,
		StartTime:       item.StartTime,
		TargetWeight:    item.TargetWeight,
		LoadedWeight:    item.LoadedWeight,
		ErrorPercent:    item.ErrorPercent,
		IsZeroLoaded:    item.IsZeroLoaded,
		CorrectedWeight: item.CorrectedWeight,
		CorrectionNote:  item.CorrectionNote,
		CorrectedBy:     item.CorrectedBy,
		CorrectedAt:     correctedAt,
	}
}
