package service

import (
	"context"
	"testing"

	"feedmill/internal/apierror"
	"feedmill/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type importFixture struct {
	jobs      *stubImportJobRepo
	batches   *stubBatchRepo
	materials *stubMaterialRepo
	movements *stubMovementRepo
	svc       BatchImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		jobs:      newStubImportJobRepo(),
		batches:   newStubBatchRepo(),
		materials: newStubMaterialRepo(),
		movements: newStubMovementRepo(),
	}
	stock := NewStockService(f.movements, f.materials, nil)
	f.svc = NewBatchImportService(f.jobs, f.batches, f.materials, stock)
	return f
}

var loadHeader = []interface{}{
	"ID Batch", "Batch", "Date", "Start time", "End Time", "Feeder",
	"Recipe ID", "Recipe Name", "Ingredient Id", "Ingredient Name",
	"Target Weight", "Loaded", "Error (%)",
}

// buildLoadFile renders rows into an xlsx workbook like the batching
// computer's report export.
func buildLoadFile(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Load"))
	require.NoError(t, f.SetSheetRow("Load", "A1", &loadHeader))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Load", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func batchRow(ingredientCode, ingredientName, target, loaded string) []interface{} {
	return []interface{}{
		"1436", "Dairy Mix 18", "2026-08-20", "10:15:00", "10:32:00", "Feeder 1",
		"R-18", "Dairy 18% Protein", ingredientCode, ingredientName,
		target, loaded, "1.5",
	}
}

func TestImportCreatesBatchesAndMovements(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	barley := seedMaterial(f.materials, "BARLEY", "Barley")
	seedStock(f.movements, corn.ID, "10000")
	seedStock(f.movements, barley.ID, "10000")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "1200", "1180.5"),
		batchRow("BARLEY", "Barley", "500", "510,25"),
	})

	summary, err := f.svc.ImportFile(context.Background(), "dtm_2026-08-20.xlsx", content, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsProcessed)
	assert.Equal(t, 2, summary.MovementsCreated)
	assert.Equal(t, 0, summary.SuspiciousBatchesCount)

	// Both rows share the same (code, date, start time), so one batch.
	assert.Len(t, f.batches.batches, 1)
	assert.Len(t, f.batches.items, 2)
	for _, b := range f.batches.batches {
		assert.Equal(t, model.BatchOK, b.Status)
		assert.Equal(t, "1436", b.BatchCode)
	}

	var outMovements []*model.StockMovement
	for _, m := range f.movements.movements {
		if m.Type == model.MovementOutProduction {
			outMovements = append(outMovements, m)
		}
	}
	require.Len(t, outMovements, 2)
	for _, m := range outMovements {
		assert.Equal(t, model.ReasonBatchConsumption, m.Reason)
		assert.Equal(t, "DTM_BATCH", m.ReferenceType)
		// Movement is timestamped at the batch's date and start time.
		assert.Equal(t, "2026-08-20T10:15:00Z", m.MovementAt.Format("2006-01-02T15:04:05Z"))
	}

	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, model.ImportSuccess, f.jobs.jobs[0].Status)
	require.NotNil(t, f.jobs.jobs[0].Message)
	assert.Contains(t, *f.jobs.jobs[0].Message, "movements_created=2")
}

func TestImportZeroLoadedMarksBatchSuspicious(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	barley := seedMaterial(f.materials, "BARLEY", "Barley")
	sbm := seedMaterial(f.materials, "SBM", "Soybean Meal")
	seedStock(f.movements, corn.ID, "10000")
	seedStock(f.movements, barley.ID, "10000")
	seedStock(f.movements, sbm.ID, "10000")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "1200", "1180.5"),
		batchRow("BARLEY", "Barley", "500", "0"),
		batchRow("SBM", "Soybean Meal", "300", "310.25"),
	})

	summary, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", content, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RowsProcessed)
	assert.Equal(t, 2, summary.MovementsCreated)
	assert.Equal(t, 1, summary.SuspiciousBatchesCount)

	require.Len(t, f.batches.batches, 1)
	for _, b := range f.batches.batches {
		assert.Equal(t, model.BatchSuspicious, b.Status)
		assert.Equal(t, 1, b.ZeroLoadedCount)
		require.NotNil(t, b.SuspiciousReason)
	}

	// The zero-loaded line gets an item but no consumption movement.
	zeroCount := 0
	for _, item := range f.batches.items {
		if item.IsZeroLoaded {
			zeroCount++
			assert.Equal(t, barley.ID, item.MaterialID)
		}
	}
	assert.Equal(t, 1, zeroCount)
	for _, m := range f.movements.movements {
		if m.Type == model.MovementOutProduction {
			assert.NotEqual(t, barley.ID, m.MaterialID)
		}
	}
}

func TestImportRejectsDuplicateFileContent(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	seedStock(f.movements, corn.ID, "10000")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "1200", "1180.5"),
	})

	_, err := f.svc.ImportFile(context.Background(), "first.xlsx", content, RoleAdmin)
	require.NoError(t, err)

	// Same bytes under another name still collide on the content hash.
	_, err = f.svc.ImportFile(context.Background(), "renamed.xlsx", content, RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportDuplicateFile, importErr.Kind)
	assert.Len(t, f.jobs.jobs, 1)
}

func TestImportRejectsWrongExtension(t *testing.T) {
	f := newImportFixture()

	_, err := f.svc.ImportFile(context.Background(), "report.xls", []byte("legacy"), RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportBadExtension, importErr.Kind)
	assert.Empty(t, f.jobs.jobs)
}

func TestImportRejectsMissingColumns(t *testing.T) {
	f := newImportFixture()

	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetSheetName("Sheet1", "Load"))
	header := []interface{}{"ID Batch", "Batch", "Date"}
	require.NoError(t, wb.SetSheetRow("Load", "A1", &header))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	_, err = f.svc.ImportFile(context.Background(), "broken.xlsx", buf.Bytes(), RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportMissingColumns, importErr.Kind)
	assert.Contains(t, importErr.Reason, "Loaded")

	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, model.ImportFailed, f.jobs.jobs[0].Status)
}

func TestImportRejectsUnknownIngredient(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	seedStock(f.movements, corn.ID, "10000")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "1200", "1180.5"),
		batchRow("XX-404", "Mystery Meal", "100", "95"),
	})

	_, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", content, RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportUnknownMaterials, importErr.Kind)
	assert.Contains(t, importErr.Reason, "Mystery Meal")

	// The whole file fails: no batches, no movements beyond the seed.
	assert.Empty(t, f.batches.batches)
	assert.Len(t, f.movements.movements, 1)
}

func TestImportRejectsNegativeLoaded(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	seedStock(f.movements, corn.ID, "10000")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "1200", "-5"),
	})

	_, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", content, RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportBadQuantity, importErr.Kind)
}

func TestImportRejectsMalformedErrorPercent(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	seedStock(f.movements, corn.ID, "10000")

	row := batchRow("CORN", "Corn", "1200", "1180.5")
	row[12] = "n/a"
	content := buildLoadFile(t, [][]interface{}{row})

	_, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", content, RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportBadQuantity, importErr.Kind)
	assert.Empty(t, f.batches.batches)
}

func TestImportAbortsOnInsufficientStock(t *testing.T) {
	f := newImportFixture()
	corn := seedMaterial(f.materials, "CORN", "Corn")
	seedStock(f.movements, corn.ID, "100")

	content := buildLoadFile(t, [][]interface{}{
		batchRow("CORN", "Corn", "150", "150"),
	})

	_, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", content, RoleAdmin)
	require.Error(t, err)
	importErr, ok := err.(*apierror.ImportError)
	require.True(t, ok)
	assert.Equal(t, apierror.ImportStockConflict, importErr.Kind)

	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, model.ImportFailed, f.jobs.jobs[0].Status)
	require.NotNil(t, f.jobs.jobs[0].Message)
	assert.Contains(t, *f.jobs.jobs[0].Message, "negative stock blocked")
}

func TestImportRequiresAdmin(t *testing.T) {
	f := newImportFixture()

	_, err := f.svc.ImportFile(context.Background(), "dtm.xlsx", []byte{}, RoleAcceptance)
	require.Error(t, err)
	assert.IsType(t, &apierror.AuthorizationError{}, err)
}
