package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/model"
	"feedmill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Source identifier recorded on every import job from the batching computer.
const importSource = "DTM_BATCH"

// loadSheetName is preferred when present; otherwise the first sheet is used.
const loadSheetName = "Load"

// Column names are matched exactly, case-sensitive; they come from a fixed
// report template and a mismatch means the wrong file.
var requiredColumns = []string{
	"ID Batch",
	"Batch",
	"Date",
	"Start time",
	"End Time",
	"Feeder",
	"Recipe ID",
	"Recipe Name",
	"Ingredient Id",
	"Ingredient Name",
	"Target Weight",
	"Loaded",
	"Error (%)",
}

const optionalLoadedDMColumn = "Loaded DM KG"

type BatchImportService interface {
	ImportFile(ctx context.Context, fileName string, content []byte, actorRole string) (*dto.ImportSummary, error)
	ListJobs(ctx context.Context, limit int) (*dto.ImportJobListResponse, error)
}

type batchImportService struct {
	jobs      repository.ImportJobRepository
	batches   repository.BatchRepository
	materials repository.MaterialRepository
	stock     StockService
}

func NewBatchImportService(
	jobs repository.ImportJobRepository,
	batches repository.BatchRepository,
	materials repository.MaterialRepository,
	stock StockService,
) BatchImportService {
	return &batchImportService{jobs: jobs, batches: batches, materials: materials, stock: stock}
}

// loadRow is one parsed and validated sheet row.
type loadRow struct {
	batchCode  string
	batchName  string
	date       time.Time
	startTime  *string
	endTime    *string
	feeder     *string
	recipeID   *string
	recipeName *string

	ingredientID   string
	ingredientName string
	targetWeight   decimal.Decimal
	loaded         decimal.Decimal
	errorPercent   *decimal.Decimal
	loadedDM       *decimal.Decimal // optional column, carried for reporting

	materialID uuid.UUID // filled by resolution
}

// ── ImportFile ───────────────────────────────────────────────────────────────
// Pre-validates the whole sheet (columns, quantities, ingredient resolution)
// before touching batch or ledger tables, then persists everything in one
// transaction. The import job row lives outside that transaction so failed
// attempts stay auditable after the rollback.

func (s *batchImportService) ImportFile(ctx context.Context, fileName string, content []byte, actorRole string) (*dto.ImportSummary, error) {
	if err := authorize(actorRole, OpImportBatchFile); err != nil {
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		return nil, apierror.NewImportf(apierror.ImportBadExtension, "only .xlsx files are supported")
	}

	sum := sha256.Sum256(content)
	fileHash := hex.EncodeToString(sum[:])

	exists, err := s.jobs.Exists(ctx, importSource, fileHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierror.NewImportf(apierror.ImportDuplicateFile, "this file is already imported (hash duplicate)")
	}

	job := model.ImportJob{
		SourceName: importSource,
		FileName:   fileName,
		FileHash:   fileHash,
		Status:     model.ImportPending,
	}
	if err := s.jobs.Create(ctx, &job); err != nil {
		// A concurrent import of the same content loses the unique-index
		// race here; report it as the duplicate it is.
		return nil, apierror.NewImportf(apierror.ImportDuplicateFile, "this file is already imported (hash duplicate)")
	}

	summary, err := s.runImport(ctx, content)
	if err != nil {
		_ = s.jobs.UpdateStatus(ctx, job.ID, model.ImportFailed, err.Error())
		return nil, err
	}

	message := fmt.Sprintf("rows_processed=%d, movements_created=%d, suspicious_batches_count=%d",
		summary.RowsProcessed, summary.MovementsCreated, summary.SuspiciousBatchesCount)
	if err := s.jobs.UpdateStatus(ctx, job.ID, model.ImportSuccess, message); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *batchImportService) runImport(ctx context.Context, content []byte) (*dto.ImportSummary, error) {
	rows, err := parseLoadSheet(content)
	if err != nil {
		return nil, err
	}
	if err := s.resolveMaterials(ctx, rows); err != nil {
		return nil, err
	}

	var summary *dto.ImportSummary
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		var err error
		summary, err = s.persistRows(tx, rows)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return summary, nil
}

// resolveMaterials maps every row's ingredient to a material id: exact
// case-insensitive match on code first, then on name. All unresolved
// ingredients are collected and reported together so one bad row among
// thousands fails the file before anything is written.
func (s *batchImportService) resolveMaterials(ctx context.Context, rows []*loadRow) error {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return err
	}
	byCode := make(map[string]uuid.UUID, len(materials))
	byName := make(map[string]uuid.UUID, len(materials))
	for _, m := range materials {
		byCode[strings.ToUpper(strings.TrimSpace(m.Code))] = m.ID
		byName[strings.ToUpper(strings.TrimSpace(m.Name))] = m.ID
	}

	unknown := make(map[string]struct{})
	for _, row := range rows {
		if id, ok := byCode[strings.ToUpper(row.ingredientID)]; ok && row.ingredientID != "" {
			row.materialID = id
			continue
		}
		if id, ok := byName[strings.ToUpper(row.ingredientName)]; ok && row.ingredientName != "" {
			row.materialID = id
			continue
		}
		unknown[row.ingredientID+"/"+row.ingredientName] = struct{}{}
	}

	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for k := range unknown {
			names = append(names, k)
		}
		sort.Strings(names)
		return apierror.NewImportf(apierror.ImportUnknownMaterials, "unknown ingredients: %s", strings.Join(names, ", "))
	}
	return nil
}

func (s *batchImportService) persistRows(tx *gorm.DB, rows []*loadRow) (*dto.ImportSummary, error) {
	// Batch identity is the natural key (code, date, start time); the map is
	// scoped to this one import so no per-row storage lookups are needed.
	batchMap := make(map[string]*model.ProductionBatch)
	suspicious := make(map[uuid.UUID]struct{})
	movementsCreated := 0

	for _, row := range rows {
		key := batchKey(row)
		batch, ok := batchMap[key]
		if !ok {
			batch = &model.ProductionBatch{
				BatchCode:  row.batchCode,
				BatchName:  row.batchName,
				Date:       row.date,
				StartTime:  row.startTime,
				EndTime:    row.endTime,
				Feeder:     row.feeder,
				RecipeID:   row.recipeID,
				RecipeName: row.recipeName,
				Status:     model.BatchOK,
			}
			if err := s.batches.CreateBatchTx(tx, batch); err != nil {
				return nil, err
			}
			batchMap[key] = batch
		}

		item := &model.BatchItem{
			ProductionBatchID: batch.ID,
			MaterialID:        row.materialID,
			BatchCode:         row.batchCode,
			StartTime:         row.startTime,
			TargetWeight:      row.targetWeight,
			LoadedWeight:      row.loaded,
			ErrorPercent:      row.errorPercent,
			IsZeroLoaded:      row.loaded.IsZero(),
		}
		if err := s.batches.CreateItemTx(tx, item); err != nil {
			return nil, err
		}

		if row.loaded.IsZero() {
			// Suspicious is sticky: later non-zero rows never clear it.
			reason := "Contains zero loaded ingredient(s)."
			batch.Status = model.BatchSuspicious
			batch.ZeroLoadedCount++
			batch.SuspiciousReason = &reason
			if err := s.batches.UpdateBatchTx(tx, batch); err != nil {
				return nil, err
			}
			suspicious[batch.ID] = struct{}{}
			continue
		}

		batchRef := batch.ID
		note := "batch_code=" + row.batchCode
		movement := &model.StockMovement{
			MaterialID:    row.materialID,
			Type:          model.MovementOutProduction,
			Reason:        model.ReasonBatchConsumption,
			Quantity:      row.loaded,
			MovementAt:    movementTime(row.date, row.startTime),
			ReferenceType: importSource,
			ReferenceID:   &batchRef,
			Note:          &note,
		}
		if err := s.stock.AddMovementTx(tx, movement); err != nil {
			if nse, ok := err.(*apierror.NegativeStockError); ok {
				return nil, apierror.NewImportf(apierror.ImportStockConflict, "%s", nse.Error())
			}
			return nil, err
		}
		movementsCreated++
	}

	return &dto.ImportSummary{
		RowsProcessed:          len(rows),
		MovementsCreated:       movementsCreated,
		SuspiciousBatchesCount: len(suspicious),
	}, nil
}

func batchKey(row *loadRow) string {
	start := ""
	if row.startTime != nil {
		start = *row.startTime
	}
	return row.batchCode + "|" + row.date.Format("2006-01-02") + "|" + start
}

// movementTime places the consumption at the batch's date and start time so
// the ledger stays in chronological order relative to the production run.
func movementTime(date time.Time, startTime *string) time.Time {
	hour, minute, second := 0, 0, 0
	if startTime != nil {
		fmt.Sscanf(*startTime, "%d:%d:%d", &hour, &minute, &second)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, time.UTC)
}

// ── Sheet parsing ────────────────────────────────────────────────────────────

func parseLoadSheet(content []byte) ([]*loadRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, apierror.NewImportf(apierror.ImportEmptySheet, "cannot open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for _, name := range f.GetSheetList() {
		if name == loadSheetName {
			sheet = name
			break
		}
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, apierror.NewImportf(apierror.ImportEmptySheet, "cannot read sheet %s: %v", sheet, err)
	}
	if len(raw) == 0 {
		return nil, apierror.NewImportf(apierror.ImportEmptySheet, "load sheet is empty")
	}

	header := make([]string, len(raw[0]))
	index := make(map[string]int, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = strings.TrimSpace(cell)
		index[header[i]] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apierror.NewImportf(apierror.ImportMissingColumns, "missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []*loadRow
	for _, r := range raw[1:] {
		blank := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		loaded, err := toDecimal(cell(r, "Loaded"))
		if err != nil || loaded == nil || loaded.IsNegative() {
			return nil, apierror.NewImportf(apierror.ImportBadQuantity, "loaded value cannot be empty or negative")
		}

		date, err := toDate(cell(r, "Date"))
		if err != nil {
			return nil, apierror.NewImportf(apierror.ImportBadQuantity, "unparsable date %q", cell(r, "Date"))
		}

		target, err := toDecimal(cell(r, "Target Weight"))
		if err != nil {
			return nil, apierror.NewImportf(apierror.ImportBadQuantity, "unparsable target weight %q", cell(r, "Target Weight"))
		}
		if target == nil {
			zero := decimal.Zero
			target = &zero
		}
		errPct, err := toDecimal(cell(r, "Error (%)"))
		if err != nil {
			return nil, apierror.NewImportf(apierror.ImportBadQuantity, "unparsable error percent %q", cell(r, "Error (%)"))
		}

		var loadedDM *decimal.Decimal
		if _, ok := index[optionalLoadedDMColumn]; ok {
			loadedDM, _ = toDecimal(cell(r, optionalLoadedDMColumn))
		}

		rows = append(rows, &loadRow{
			batchCode:      cell(r, "ID Batch"),
			batchName:      cell(r, "Batch"),
			date:           date,
			startTime:      toTime(cell(r, "Start time")),
			endTime:        toTime(cell(r, "End Time")),
			feeder:         optStr(cell(r, "Feeder")),
			recipeID:       optStr(cell(r, "Recipe ID")),
			recipeName:     optStr(cell(r, "Recipe Name")),
			ingredientID:   cell(r, "Ingredient Id"),
			ingredientName: cell(r, "Ingredient Name"),
			targetWeight:   *target,
			loaded:         *loaded,
			errorPercent:   errPct,
			loadedDM:       loadedDM,
		})
	}
	return rows, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDecimal(s string) (*decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02.01.2006", "01-02-06", "1/2/06", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

// toTime normalizes a time-of-day cell to HH:MM:SS, or nil when blank or
// unparsable.
func toTime(s string) *string {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			formatted := t.Format("15:04:05")
			return &formatted
		}
	}
	return nil
}

func (s *batchImportService) ListJobs(ctx context.Context, limit int) (*dto.ImportJobListResponse, error) {
	jobs, err := s.jobs.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ImportJobResponse, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, dto.ImportJobResponse{
			ID:         j.ID.String(),
			SourceName: j.SourceName,
			FileName:   j.FileName,
			FileHash:   j.FileHash,
			Status:     j.Status,
			Message:    j.Message,
			CreatedAt:  j.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.ImportJobListResponse{Data: data}, nil
}
