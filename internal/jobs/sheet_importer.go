package jobs

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"basetrack/internal/models"
)

// headerScanLimit bounds how deep the importer looks for the header row.
// Real spreadsheets carry title banners and blank rows above the table.
const headerScanLimit = 25

// importColumns maps logical fields to the header labels that identify
// them. Matching is case-insensitive substring, so "Maker / Brand" and
// "MAKER" both bind the maker column.
var importColumns = map[string][]string{
	"no":          {"no.", "no", "bil"},
	"description": {"description"},
	"itemLoc":     {"item location"},
	"pic":         {"person in charge"},
	"dateOut":     {"date out", "moved"},
	"maker":       {"maker", "brand"},
	"range":       {"range", "capacity"},
	"model":       {"type", "model"},
	"serial":      {"serial", "s/n"},
	"price":       {"unit price"},
	"purDate":     {"purchase date"},
	"poNo":        {"p.o.", "po no"},
	"qty":         {"quantity", "qty"},
	"asset":       {"asset no"},
	"storeLoc":    {"store location"},
	"eqpStatus":   {"equipment status"},
	"docStatus":   {"document status"},
	"qfDate":      {"date of qf"},
	"hsem":        {"hsem category"},
	"remarks":     {"remarks", "remark"},
	"physical":    {"physical status"},
}

// ImportSheet parses an exported inventory sheet back into items. The
// header row is located by scanning for a row carrying both a description
// and a serial column; rows without a description are skipped. Blank cells
// arrive as "-" and are normalized away.
func ImportSheet(data []byte, targetBase, callerBase string) ([]*models.InventoryItem, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading sheet: %w", err)
		}
		rows = append(rows, record)
	}

	headerIdx, columns := findHeader(rows)
	if columns == nil {
		return nil, fmt.Errorf("no header row found: sheet must contain description and serial columns")
	}

	base := targetBase
	if base == "" {
		base = callerBase
	}
	if base == "" {
		base = models.HQBase
	}

	now := time.Now().UnixMilli()
	var items []*models.InventoryItem
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		description := cellValue(row, columns, "description")
		if description == "" {
			continue
		}

		item := &models.InventoryItem{
			ID:              fmt.Sprintf("IMP-%d-%d", now, i),
			Description:     description,
			Maker:           cellValue(row, columns, "maker"),
			Range:           cellValue(row, columns, "range"),
			TypeModel:       cellValue(row, columns, "model"),
			SerialNo:        cellValue(row, columns, "serial"),
			UnitPrice:       cellValue(row, columns, "price"),
			PurchaseDate:    cellValue(row, columns, "purDate"),
			PONo:            cellValue(row, columns, "poNo"),
			Quantity:        parseQuantity(cellValue(row, columns, "qty")),
			AssetNo:         cellValue(row, columns, "asset"),
			Location:        cellValue(row, columns, "storeLoc"),
			EquipmentStatus: cellValue(row, columns, "eqpStatus"),
			DocumentStatus:  cellValue(row, columns, "docStatus"),
			DateOfQF:        cellValue(row, columns, "qfDate"),
			HSEMCategory:    cellValue(row, columns, "hsem"),
			PhysicalStatus:  cellValue(row, columns, "physical"),
			Remarks:         cellValue(row, columns, "remarks"),
			Base:            base,
		}

		item.No = cellValue(row, columns, "no")
		if item.No == "" {
			item.No = strconv.Itoa(i - headerIdx)
		}

		item.CurrentLocation = cellValue(row, columns, "itemLoc")
		if item.CurrentLocation == "" {
			item.CurrentLocation = item.Location
		}
		if pic := cellValue(row, columns, "pic"); pic != "" {
			item.PersonInCharge = &pic
		}
		if dateOut := cellValue(row, columns, "dateOut"); dateOut != "" {
			item.LastMovement = &dateOut
		}

		items = append(items, item)
	}

	return items, nil
}

// findHeader locates the first row within the scan limit that binds both
// the description and serial columns, returning its index and the logical
// field to column index mapping.
func findHeader(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		columns := make(map[string]int)
		for col, cell := range rows[i] {
			label := strings.ToLower(strings.TrimSpace(cell))
			if label == "" {
				continue
			}
			for field, keywords := range importColumns {
				if _, bound := columns[field]; bound {
					continue
				}
				if matchesColumn(field, label, keywords) {
					columns[field] = col
				}
			}
		}
		if _, hasDesc := columns["description"]; hasDesc {
			if _, hasSerial := columns["serial"]; hasSerial {
				return i, columns
			}
		}
	}
	return -1, nil
}

// matchesColumn reports whether a header label binds a logical field. The
// "no" field matches exactly, otherwise "Serial No." would claim it too;
// everything else matches by containment.
func matchesColumn(field, label string, keywords []string) bool {
	for _, keyword := range keywords {
		if field == "no" {
			if label == keyword {
				return true
			}
			continue
		}
		if strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}

func cellValue(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	value := strings.TrimSpace(row[idx])
	if value == models.BlankCell {
		return ""
	}
	return value
}

func parseQuantity(raw string) int {
	if raw == "" {
		return 1
	}
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}
