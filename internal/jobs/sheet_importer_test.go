package jobs

import (
	"strings"
	"testing"

	"basetrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func sheet(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestImportSheetFindsHeaderBelowBanner(t *testing.T) {
	data := sheet(
		"INVENTORY REGISTER,,,,",
		"Base 2 Workshop,,,,",
		",,,,",
		"No.,Description,Serial No.,Quantity,EQUIPMENT STATUS",
		"1,Torque wrench,TW-889,2,OK",
		"2,Hydraulic clamp,HC-014,-,ROSAK",
	)

	items, err := ImportSheet(data, "Base 2", "")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Torque wrench", items[0].Description)
	assert.Equal(t, "TW-889", items[0].SerialNo)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Base 2", items[0].Base)
	assert.Equal(t, 1, items[1].Quantity) // "-" falls back to 1
	assert.Equal(t, "ROSAK", items[1].EquipmentStatus)
}

func TestImportSheetFailsWithoutHeader(t *testing.T) {
	data := sheet(
		"just,some,random,cells",
		"1,Torque wrench,TW-889,2",
	)

	_, err := ImportSheet(data, "", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestImportSheetSkipsRowsWithoutDescription(t *testing.T) {
	data := sheet(
		"Description,Serial No.",
		"Torque wrench,TW-889",
		",ORPHAN-1",
		"-,ORPHAN-2",
		"Hydraulic clamp,HC-014",
	)

	items, err := ImportSheet(data, "Base 2", "")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Torque wrench", items[0].Description)
	assert.Equal(t, "Hydraulic clamp", items[1].Description)
}

func TestImportSheetBaseFallbackChain(t *testing.T) {
	data := sheet(
		"Description,Serial No.",
		"Torque wrench,TW-889",
	)

	fromCaller, err := ImportSheet(data, "", "Base 10")
	assert.NoError(t, err)
	assert.Equal(t, "Base 10", fromCaller[0].Base)

	fromDefault, err := ImportSheet(data, "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.HQBase, fromDefault[0].Base)
}

func TestImportSheetMapsLocationAndCustody(t *testing.T) {
	data := sheet(
		"Description,Serial No.,ITEM LOCATION,PERSON IN CHARGE,DATE OUT/MOVED,STORE LOCATION",
		"Torque wrench,TW-889,Workshop A,Ali,2026-08-01,Shelf 3",
		"Hydraulic clamp,HC-014,-,-,-,Shelf 4",
	)

	items, err := ImportSheet(data, "Base 2", "")

	assert.NoError(t, err)
	assert.Equal(t, "Workshop A", items[0].CurrentLocation)
	assert.Equal(t, "Ali", *items[0].PersonInCharge)
	assert.Equal(t, "2026-08-01", *items[0].LastMovement)

	// Blank current location falls back to the store location; blank
	// custody stays nil.
	assert.Equal(t, "Shelf 4", items[1].CurrentLocation)
	assert.Nil(t, items[1].PersonInCharge)
	assert.Nil(t, items[1].LastMovement)
}

func TestImportSheetGeneratesIDsAndRowNumbers(t *testing.T) {
	data := sheet(
		"Description,Serial No.",
		"Torque wrench,TW-889",
		"Hydraulic clamp,HC-014",
	)

	items, err := ImportSheet(data, "Base 2", "")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(items[0].ID, "IMP-"))
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, "1", items[0].No)
	assert.Equal(t, "2", items[1].No)
}

func TestImportSheetHeaderMatchingIsCaseInsensitive(t *testing.T) {
	data := sheet(
		"DESCRIPTION,serial no.,Maker / Brand,Type / Model,Range / Capacity",
		"Torque wrench,TW-889,Norbar,TT100,0-100Nm",
	)

	items, err := ImportSheet(data, "Base 2", "")

	assert.NoError(t, err)
	assert.Equal(t, "Norbar", items[0].Maker)
	assert.Equal(t, "TT100", items[0].TypeModel)
	assert.Equal(t, "0-100Nm", items[0].Range)
}
