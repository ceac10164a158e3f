package service

import (
	"context"
	"encoding/json"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	overviewCacheKey = "stocks:overview"
	overviewCacheTTL = 2 * time.Minute
)

var (
	inTypes = []string{model.MovementIn, model.MovementAdjustment}
)

// StockService is the stock accounting engine. Current stock is always folded
// fresh from the movement ledger; there is no cached running balance to
// drift.
type StockService interface {
	CurrentStock(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error)
	// AddMovementTx validates and appends one movement inside the caller's
	// transaction. OUT movements that would project stock below zero are
	// rejected with NegativeStockError and never persisted.
	AddMovementTx(tx *gorm.DB, m *model.StockMovement) error
	Overview(ctx context.Context, filter dto.StockOverviewFilter) (*dto.StockOverviewResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type stockService struct {
	movements repository.StockMovementRepository
	materials repository.MaterialRepository
	rdb       *redis.Client
}

func NewStockService(
	movements repository.StockMovementRepository,
	materials repository.MaterialRepository,
	rdb *redis.Client,
) StockService {
	return &stockService{movements: movements, materials: materials, rdb: rdb}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *stockService) CurrentStock(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	in, err := s.movements.SumByTypes(ctx, materialID, inTypes)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := s.movements.SumByTypes(ctx, materialID, model.OutMovementTypes)
	if err != nil {
		return decimal.Zero, err
	}
	return in.Sub(out), nil
}

func currentStockTx(tx *gorm.DB, movements repository.StockMovementRepository, materialID uuid.UUID) (decimal.Decimal, error) {
	in, err := movements.SumByTypesTx(tx, materialID, inTypes)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := movements.SumByTypesTx(tx, materialID, model.OutMovementTypes)
	if err != nil {
		return decimal.Zero, err
	}
	return in.Sub(out), nil
}

func (s *stockService) AddMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	if !m.Quantity.IsPositive() {
		return apierror.NewValidationf("movement quantity must be greater than 0")
	}

	if model.IsOut(m.Type) {
		// Check-then-write is racy on its own: two concurrent debits could
		// each see enough stock and both commit. The FOR UPDATE lock on the
		// material row serializes debits per material for the lifetime of
		// the transaction. Do not remove it.
		if _, err := s.materials.FindByIDForUpdateTx(tx, m.MaterialID); err != nil {
			return apierror.NewValidationf("material not found")
		}
		current, err := currentStockTx(tx, s.movements, m.MaterialID)
		if err != nil {
			return err
		}
		projected := current.Sub(m.Quantity)
		if projected.IsNegative() {
			return &apierror.NegativeStockError{
				MaterialID: m.MaterialID,
				Current:    current,
				Requested:  m.Quantity,
				Projected:  projected,
			}
		}
	}

	if err := s.movements.CreateTx(tx, m); err != nil {
		return err
	}
	s.invalidateOverview()
	return nil
}

// invalidateOverview drops the cached overview after any append. Best effort:
// the entry also expires on its own TTL.
func (s *stockService) invalidateOverview() {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(context.Background(), overviewCacheKey).Err()
}

func (s *stockService) Overview(ctx context.Context, filter dto.StockOverviewFilter) (*dto.StockOverviewResponse, error) {
	// Only the unfiltered overview is cached; filtered views hit the DB.
	cacheable := filter.Query == "" && !filter.OnlyCritical
	if cacheable && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, overviewCacheKey).Bytes(); err == nil {
			var resp dto.StockOverviewResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	rows, err := s.movements.Overview(ctx, filter.Query)
	if err != nil {
		return nil, err
	}

	data := make([]dto.StockOverviewRow, 0, len(rows))
	for _, row := range rows {
		if filter.OnlyCritical && row.CurrentStock.GreaterThan(row.MinStockLevel) {
			continue
		}
		var lastAt *string
		if row.LastMovementAt != nil {
			formatted := row.LastMovementAt.UTC().Format(time.RFC3339)
			lastAt = &formatted
		}
		data = append(data, dto.StockOverviewRow{
			MaterialID:     row.MaterialID.String(),
			MaterialCode:   row.Code,
			MaterialName:   row.Name,
			Unit:           row.Unit,
			CurrentStock:   row.CurrentStock,
			MinStockLevel:  row.MinStockLevel,
			LastMovementAt: lastAt,
		})
	}
	resp := &dto.StockOverviewResponse{Data: data}

	if cacheable && s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), overviewCacheKey, b, overviewCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	repoFilter := repository.StockMovementFilter{
		Type:  filter.Type,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.MaterialID != "" {
		id, err := uuid.Parse(filter.MaterialID)
		if err != nil {
			return nil, apierror.NewValidationf("material_id is not a valid id")
		}
		repoFilter.MaterialID = &id
	}

	movements, total, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, movementToResponse(&m))
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	var refID *string
	if m.ReferenceID != nil {
		id := m.ReferenceID.String()
		refID = &id
	}
	materialName := ""
	if m.Material != nil {
		materialName = m.Material.Name
	}
	return dto.MovementResponse{
		ID:            m.ID.String(),
		MaterialID:    m.MaterialID.String(),
		MaterialName:  materialName,
		Type:          m.Type,
		Reason:        m.Reason,
		Quantity:      m.Quantity,
		MovementAt:    m.MovementAt.UTC().Format(time.RFC3339),
		ReferenceType: m.ReferenceType,
		ReferenceID:   refID,
		Note:          m.Note,
	}
}
