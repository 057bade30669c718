package models

// BaseStats is the health aggregate for one base (or the grand total). All
// counts sum item quantities, never row counts. inUseCount is orthogonal to
// the status buckets: a faulty item with a custodian contributes to both.
type BaseStats struct {
	BaseName   string `json:"baseName"`
	TotalItems int    `json:"totalItems"`
	OKCount    int    `json:"okCount"`
	RosakCount int    `json:"rosakCount"`
	SkrapCount int    `json:"skrapCount"`
	LostCount  int    `json:"lostCount"`
	InUseCount int    `json:"inUseCount"`
}

// AddItem folds one item into the aggregate.
func (s *BaseStats) AddItem(item *InventoryItem) {
	qty := item.Quantity
	if qty < 0 {
		qty = 0
	}
	s.TotalItems += qty

	switch ClassifyStatus(item.EquipmentStatus) {
	case StatusClassOK:
		s.OKCount += qty
	case StatusClassSkrap:
		s.SkrapCount += qty
	case StatusClassRosak:
		s.RosakCount += qty
	case StatusClassLost:
		s.LostCount += qty
	}

	if item.InUse() {
		s.InUseCount += qty
	}
}

// Merge adds another aggregate element-wise. BaseName is left untouched.
func (s *BaseStats) Merge(o BaseStats) {
	s.TotalItems += o.TotalItems
	s.OKCount += o.OKCount
	s.RosakCount += o.RosakCount
	s.SkrapCount += o.SkrapCount
	s.LostCount += o.LostCount
	s.InUseCount += o.InUseCount
}
