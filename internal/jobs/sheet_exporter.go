package jobs

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"basetrack/internal/models"
)

// exportHeader is the fixed column order of exported sheets. ImportSheet
// recognizes every one of these labels, so an export round-trips.
var exportHeader = []string{
	"No.",
	"Description",
	"ITEM LOCATION",
	"PERSON IN CHARGE",
	"DATE OUT/MOVED",
	"Maker / Brand",
	"Range / Capacity",
	"Type / Model",
	"Serial No.",
	"Unit Price",
	"PURCHASE DATE",
	"P.O. No.",
	"Quantity",
	"Asset No.",
	"STORE LOCATION",
	"EQUIPMENT STATUS",
	"DOCUMENT STATUS",
	"DATE OF QF RECORDED",
	"HSEM Category",
	"Remarks",
}

// ExportFilename names the artifact for a base-scoped or master export.
func ExportFilename(base string) string {
	if base == "" {
		base = "Master"
	}
	return fmt.Sprintf("Inventory_%s.csv", base)
}

// ExportSheet renders items as a CSV sheet. Empty cells are written as the
// "-" placeholder so the sheet reads like the paper registers it replaces.
func ExportSheet(items []*models.InventoryItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for idx, item := range items {
		no := item.No
		if no == "" {
			no = strconv.Itoa(idx + 1)
		}
		row := []string{
			no,
			cell(item.Description),
			cell(item.CurrentLocation),
			cellPtr(item.PersonInCharge),
			cellPtr(item.LastMovement),
			cell(item.Maker),
			cell(item.Range),
			cell(item.TypeModel),
			cell(item.SerialNo),
			cell(item.UnitPrice),
			cell(item.PurchaseDate),
			cell(item.PONo),
			strconv.Itoa(item.Quantity),
			cell(item.AssetNo),
			cell(item.Location),
			cell(item.EquipmentStatus),
			cell(item.DocumentStatus),
			cell(item.DateOfQF),
			cell(item.HSEMCategory),
			cell(item.Remarks),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", idx+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flushing sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(value string) string {
	if value == "" {
		return models.BlankCell
	}
	return value
}

func cellPtr(value *string) string {
	if value == nil || *value == "" {
		return models.BlankCell
	}
	return *value
}
