package jobs

import (
	"bytes"
	"encoding/csv"
	"testing"

	"basetrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Inventory_Base 2.csv", ExportFilename("Base 2"))
	assert.Equal(t, "Inventory_Master.csv", ExportFilename(""))
}

func TestExportSheetWritesFixedColumns(t *testing.T) {
	pic := "Ali"
	items := []*models.InventoryItem{
		{
			ID: "ITM-1", No: "7", Description: "Torque wrench", SerialNo: "TW-889",
			Quantity: 2, EquipmentStatus: "OK", Base: "Base 2",
			CurrentLocation: "Workshop A", PersonInCharge: &pic,
		},
		{
			ID: "ITM-2", Description: "Hydraulic clamp", SerialNo: "HC-014",
			Quantity: 1, EquipmentStatus: "ROSAK", Base: "Base 2",
		},
	}

	data, err := ExportSheet(items)
	assert.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])

	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "Torque wrench", rows[1][1])
	assert.Equal(t, "Workshop A", rows[1][2])
	assert.Equal(t, "Ali", rows[1][3])

	// Missing No. falls back to the row position; blanks become "-".
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "-", rows[2][2])
	assert.Equal(t, "-", rows[2][3])
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	pic := "Ali"
	date := "2026-08-01"
	original := []*models.InventoryItem{
		{
			ID: "ITM-1", No: "1", Description: "Torque wrench", Maker: "Norbar",
			Range: "0-100Nm", TypeModel: "TT100", SerialNo: "TW-889",
			UnitPrice: "450.00", PurchaseDate: "2024-01-15", PONo: "PO-8891",
			Quantity: 2, AssetNo: "AS-100", Location: "Shelf 3",
			EquipmentStatus: "OK", DocumentStatus: "COMPLETE", DateOfQF: "2024-02-01",
			HSEMCategory: "B", PhysicalStatus: "Good", Remarks: "calibrated",
			CurrentLocation: "Workshop A", PersonInCharge: &pic, LastMovement: &date,
			Base: "Base 2",
		},
	}

	data, err := ExportSheet(original)
	assert.NoError(t, err)

	imported, err := ImportSheet(data, "Base 2", "")
	assert.NoError(t, err)
	assert.Len(t, imported, 1)

	got := imported[0]
	assert.Equal(t, "Torque wrench", got.Description)
	assert.Equal(t, "Norbar", got.Maker)
	assert.Equal(t, "0-100Nm", got.Range)
	assert.Equal(t, "TT100", got.TypeModel)
	assert.Equal(t, "TW-889", got.SerialNo)
	assert.Equal(t, "450.00", got.UnitPrice)
	assert.Equal(t, "2024-01-15", got.PurchaseDate)
	assert.Equal(t, "PO-8891", got.PONo)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "AS-100", got.AssetNo)
	assert.Equal(t, "Shelf 3", got.Location)
	assert.Equal(t, "OK", got.EquipmentStatus)
	assert.Equal(t, "COMPLETE", got.DocumentStatus)
	assert.Equal(t, "2024-02-01", got.DateOfQF)
	assert.Equal(t, "B", got.HSEMCategory)
	assert.Equal(t, "Good", got.PhysicalStatus)
	assert.Equal(t, "calibrated", got.Remarks)
	assert.Equal(t, "Workshop A", got.CurrentLocation)
	assert.Equal(t, "Ali", *got.PersonInCharge)
	assert.Equal(t, "2026-08-01", *got.LastMovement)
	assert.Equal(t, "Base 2", got.Base)
}
