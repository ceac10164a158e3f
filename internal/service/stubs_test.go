package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so runTx calls the workflow
// body directly without a real transaction.

// ── MaterialRepository stub ──────────────────────────────────────────────────

type stubMaterialRepo struct {
	materials    map[uuid.UUID]*model.Material
	hasMovements map[uuid.UUID]bool
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{
		materials:    make(map[uuid.UUID]*model.Material),
		hasMovements: make(map[uuid.UUID]bool),
	}
}

func (r *stubMaterialRepo) DB() *gorm.DB { return nil }

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	for _, existing := range r.materials {
		if existing.Code == m.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	r.materials[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) List(_ context.Context) ([]model.Material, error) {
	result := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		result = append(result, *m)
	}
	return result, nil
}

func (r *stubMaterialRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	m, ok := r.materials[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Active = false
	return nil
}

func (r *stubMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.materials[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.materials, id)
	return nil
}

func (r *stubMaterialRepo) HasMovements(_ context.Context, id uuid.UUID) (bool, error) {
	return r.hasMovements[id], nil
}

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

// ── StockMovementRepository stub ─────────────────────────────────────────────

type stubMovementRepo struct {
	movements    []*model.StockMovement
	overviewRows []repository.StockOverviewRow
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubMovementRepo) sum(materialID uuid.UUID, types []string) decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.MaterialID != materialID {
			continue
		}
		for _, t := range types {
			if m.Type == t {
				total = total.Add(m.Quantity)
				break
			}
		}
	}
	return total
}

func (r *stubMovementRepo) SumByTypes(_ context.Context, materialID uuid.UUID, types []string) (decimal.Decimal, error) {
	return r.sum(materialID, types), nil
}

func (r *stubMovementRepo) SumByTypesTx(_ *gorm.DB, materialID uuid.UUID, types []string) (decimal.Decimal, error) {
	return r.sum(materialID, types), nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var result []model.StockMovement
	for _, m := range r.movements {
		if filter.MaterialID != nil && m.MaterialID != *filter.MaterialID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		result = append(result, *m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovementRepo) Overview(_ context.Context, query string) ([]repository.StockOverviewRow, error) {
	if query == "" {
		return r.overviewRows, nil
	}
	var result []repository.StockOverviewRow
	for _, row := range r.overviewRows {
		if strings.Contains(strings.ToUpper(row.Name), strings.ToUpper(query)) ||
			strings.Contains(strings.ToUpper(row.Code), strings.ToUpper(query)) {
			result = append(result, row)
		}
	}
	return result, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── AcceptanceRepository stub ────────────────────────────────────────────────

type stubAcceptanceRepo struct {
	acceptances map[uuid.UUID]*model.Acceptance
}

func newStubAcceptanceRepo() *stubAcceptanceRepo {
	return &stubAcceptanceRepo{acceptances: make(map[uuid.UUID]*model.Acceptance)}
}

func (r *stubAcceptanceRepo) DB() *gorm.DB { return nil }

func (r *stubAcceptanceRepo) CreateTx(_ *gorm.DB, a *model.Acceptance) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	r.acceptances[a.ID] = a
	return nil
}

func (r *stubAcceptanceRepo) ExistsDuplicateTx(_ *gorm.DB, acceptedAt time.Time, plate string, materialID uuid.UUID, quantity decimal.Decimal) (bool, error) {
	for _, a := range r.acceptances {
		if a.AcceptedAt.Equal(acceptedAt) && a.Plate == plate &&
			a.MaterialID == materialID && a.Quantity.Equal(quantity) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAcceptanceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Acceptance, error) {
	a, ok := r.acceptances[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAcceptanceRepo) ListLatest(_ context.Context, limit int) ([]model.Acceptance, error) {
	result := make([]model.Acceptance, 0, len(r.acceptances))
	for _, a := range r.acceptances {
		result = append(result, *a)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ repository.AcceptanceRepository = (*stubAcceptanceRepo)(nil)

// ── BatchRepository stub ─────────────────────────────────────────────────────

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.ProductionBatch
	items   map[uuid.UUID]*model.BatchItem
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{
		batches: make(map[uuid.UUID]*model.ProductionBatch),
		items:   make(map[uuid.UUID]*model.BatchItem),
	}
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

func (r *stubBatchRepo) CreateBatchTx(_ *gorm.DB, b *model.ProductionBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) UpdateBatchTx(_ *gorm.DB, b *model.ProductionBatch) error {
	if _, ok := r.batches[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) CreateItemTx(_ *gorm.DB, item *model.BatchItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubBatchRepo) UpdateItemTx(_ *gorm.DB, item *model.BatchItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubBatchRepo) FindBatchByID(_ context.Context, id uuid.UUID) (*model.ProductionBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBatchRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.BatchItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubBatchRepo) FindItemByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.BatchItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubBatchRepo) ListSuspicious(_ context.Context, limit int) ([]model.ProductionBatch, error) {
	var result []model.ProductionBatch
	for _, b := range r.batches {
		if b.Status == model.BatchSuspicious {
			result = append(result, *b)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *stubBatchRepo) ZeroLoadedItems(_ context.Context, batchID uuid.UUID) ([]model.BatchItem, error) {
	var result []model.BatchItem
	for _, item := range r.items {
		if item.ProductionBatchID == batchID && item.IsZeroLoaded {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *stubBatchRepo) CountUncorrectedZeroTx(_ *gorm.DB, batchID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.ProductionBatchID == batchID && item.IsZeroLoaded && item.CorrectedWeight == nil {
			count++
		}
	}
	return count, nil
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

// ── ImportJobRepository stub ─────────────────────────────────────────────────

type stubImportJobRepo struct {
	jobs []*model.ImportJob
}

func newStubImportJobRepo() *stubImportJobRepo { return &stubImportJobRepo{} }

func (r *stubImportJobRepo) Create(_ context.Context, job *model.ImportJob) error {
	for _, existing := range r.jobs {
		if existing.SourceName == job.SourceName && existing.FileHash == job.FileHash {
			return gorm.ErrDuplicatedKey
		}
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now().UTC()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *stubImportJobRepo) Exists(_ context.Context, sourceName, fileHash string) (bool, error) {
	for _, job := range r.jobs {
		if job.SourceName == sourceName && job.FileHash == fileHash {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubImportJobRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, message string) error {
	for _, job := range r.jobs {
		if job.ID == id {
			job.Status = status
			job.Message = &message
			return nil
		}
	}
	return errors.New("job not found")
}

func (r *stubImportJobRepo) ListLatest(_ context.Context, limit int) ([]model.ImportJob, error) {
	result := make([]model.ImportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		result = append(result, *job)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ repository.ImportJobRepository = (*stubImportJobRepo)(nil)

// ── AnalysisRepository stub ──────────────────────────────────────────────────

type stubAnalysisRepo struct {
	results []*model.AnalysisResult
}

func newStubAnalysisRepo() *stubAnalysisRepo { return &stubAnalysisRepo{} }

func (r *stubAnalysisRepo) add(a *model.AnalysisResult) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.EnteredAt.IsZero() {
		a.EnteredAt = time.Now().UTC()
	}
	r.results = append(r.results, a)
}

func (r *stubAnalysisRepo) Create(_ context.Context, a *model.AnalysisResult) error {
	r.add(a)
	return nil
}

func (r *stubAnalysisRepo) CreateTx(_ *gorm.DB, a *model.AnalysisResult) error {
	r.add(a)
	return nil
}

func (r *stubAnalysisRepo) ListFiltered(_ context.Context, q repository.AnalysisQuery) ([]model.AnalysisResult, error) {
	var result []model.AnalysisResult
	for _, a := range r.results {
		if q.Type != "" && a.Type != q.Type {
			continue
		}
		if q.MaterialID != nil && a.MaterialID != *q.MaterialID {
			continue
		}
		if q.DateFrom != nil && a.Date.Before(*q.DateFrom) {
			continue
		}
		if q.DateTo != nil && a.Date.After(*q.DateTo) {
			continue
		}
		if q.ForeignMatter != "" && (a.ForeignMatter == nil || *a.ForeignMatter != q.ForeignMatter) {
			continue
		}
		if q.AflatoxinMin != nil && (a.AflatoxinPPB == nil || a.AflatoxinPPB.LessThan(*q.AflatoxinMin)) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

var _ repository.AnalysisRepository = (*stubAnalysisRepo)(nil)

// ── AuditLogRepository stub ──────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []*model.AuditLog
}

func newStubAuditRepo() *stubAuditRepo { return &stubAuditRepo{} }

func (r *stubAuditRepo) CreateTx(_ *gorm.DB, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, entry)
	return nil
}

var _ repository.AuditLogRepository = (*stubAuditRepo)(nil)

// ── MonthlyPriceRepository stub ──────────────────────────────────────────────

type stubPriceRepo struct {
	prices []*model.MonthlyPrice
}

func newStubPriceRepo() *stubPriceRepo { return &stubPriceRepo{} }

func (r *stubPriceRepo) Create(_ context.Context, p *model.MonthlyPrice) error {
	for _, existing := range r.prices {
		if existing.MaterialID == p.MaterialID && existing.PriceMonth.Equal(p.PriceMonth) {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	r.prices = append(r.prices, p)
	return nil
}

func (r *stubPriceRepo) List(_ context.Context, month *time.Time) ([]model.MonthlyPrice, error) {
	var result []model.MonthlyPrice
	for _, p := range r.prices {
		if month != nil && !p.PriceMonth.Equal(*month) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

var _ repository.MonthlyPriceRepository = (*stubPriceRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedMaterial(repo *stubMaterialRepo, code, name string) *model.Material {
	m := &model.Material{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		Unit:          "kg",
		MinStockLevel: decimal.NewFromInt(100),
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	repo.materials[m.ID] = m
	return m
}

func seedStock(repo *stubMovementRepo, materialID uuid.UUID, quantity string) {
	repo.movements = append(repo.movements, &model.StockMovement{
		ID:            uuid.New(),
		MaterialID:    materialID,
		Type:          model.MovementIn,
		Reason:        model.ReasonMaterialAcceptance,
		Quantity:      decimal.RequireFromString(quantity),
		MovementAt:    time.Now().UTC(),
		ReferenceType: "acceptance",
	})
}
