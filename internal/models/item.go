package models

import "strings"

// Canonical equipment status tags. equipmentStatus stays free text because
// upstream spreadsheets supply non-canonical casing and variants; the
// classifier below matches by substring to keep those inputs working.
const (
	StatusOK     = "OK"
	StatusRosak  = "ROSAK"  // faulty
	StatusSkrap  = "SKRAP"  // scrapped
	StatusHilang = "HILANG" // lost
	StatusLost   = "LOST"   // English alias for HILANG in older sheets
)

// BlankCell is the sentinel written for empty spreadsheet cells.
const BlankCell = "-"

// InventoryItem is one physical unit or quantity-homogeneous batch of
// equipment. Status and custody are independent axes: a faulty item can
// still be signed out to someone.
type InventoryItem struct {
	ID              string  `json:"id" db:"id"`
	No              string  `json:"no" db:"no"`
	Description     string  `json:"description" db:"description"`
	Maker           string  `json:"maker" db:"maker"`
	Range           string  `json:"range" db:"range"`
	TypeModel       string  `json:"typeModel" db:"type_model"`
	SerialNo        string  `json:"serialNo" db:"serial_no"`
	UnitPrice       string  `json:"unitPrice" db:"unit_price"`
	PurchaseDate    string  `json:"date" db:"purchase_date"`
	PONo            string  `json:"poNo" db:"po_no"`
	Quantity        int     `json:"quantity" db:"quantity"`
	AssetNo         string  `json:"assetNo" db:"asset_no"`
	Location        string  `json:"location" db:"location"` // store location
	EquipmentStatus string  `json:"equipmentStatus" db:"equipment_status"`
	DocumentStatus  string  `json:"documentStatus" db:"document_status"`
	DateOfQF        string  `json:"dateOfQfRecorded" db:"date_of_qf"`
	HSEMCategory    string  `json:"hsemCategory" db:"hsem_category"`
	PhysicalStatus  string  `json:"physicalStatus" db:"physical_status"`
	Remarks         string  `json:"remarks" db:"remarks"`
	CurrentLocation string  `json:"currentLocation" db:"current_location"`
	PersonInCharge  *string `json:"personInCharge" db:"person_in_charge"`
	LastMovement    *string `json:"lastMovementDate" db:"last_movement"`
	Base            string  `json:"base" db:"base"`
}

// StatusClass is the health bucket an equipment status string falls into.
type StatusClass int

const (
	StatusClassOther StatusClass = iota
	StatusClassOK
	StatusClassSkrap
	StatusClassRosak
	StatusClassLost
)

// ClassifyStatus buckets a raw status string. OK is an exact match; the
// degraded buckets match by containment so variants like "ROSAK - menunggu
// alat ganti" still classify. Order matters: SKRAP before ROSAK before
// HILANG/LOST.
func ClassifyStatus(status string) StatusClass {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch {
	case s == StatusOK:
		return StatusClassOK
	case strings.Contains(s, StatusSkrap):
		return StatusClassSkrap
	case strings.Contains(s, StatusRosak):
		return StatusClassRosak
	case strings.Contains(s, StatusHilang), strings.Contains(s, StatusLost):
		return StatusClassLost
	}
	return StatusClassOther
}

// InUse reports whether the item has a custodian. nil, empty and the "-"
// sentinel all mean "in store".
func (i *InventoryItem) InUse() bool {
	return i.PersonInCharge != nil && *i.PersonInCharge != "" && *i.PersonInCharge != BlankCell
}

// Unavailable reports whether the item's status puts it out of circulation
// for borrowing. Exact-match set, unlike the classifier.
func (i *InventoryItem) Unavailable() bool {
	switch strings.ToUpper(strings.TrimSpace(i.EquipmentStatus)) {
	case StatusRosak, StatusSkrap, StatusHilang, StatusLost:
		return true
	}
	return false
}
