package services

import (
	"testing"
	"time"

	"basetrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormConfigPerRequestType(t *testing.T) {
	cases := []struct {
		reqType models.RequestType
		id      string
		title   string
	}{
		{models.RequestRosak, "QF.101", "PERALATAN ROSAK UNTUK DIBAIKI"},
		{models.RequestScrap, "QF.102", "LAPORAN PELUPUSAN PERALATAN (SKRAP)"},
		{models.RequestLost, "QF.103", "LAPORAN KEHILANGAN PERALATAN"},
		{models.RequestBorrow, "QF.100", "PERALATAN KELUAR/MASUK"},
		{models.RequestReturn, "QF.100", "PERALATAN KELUAR/MASUK"},
	}

	for _, tc := range cases {
		config := FormConfigFor(tc.reqType)
		assert.Equal(t, tc.id, config.ID, "type %s", tc.reqType)
		assert.Equal(t, tc.title, config.Title, "type %s", tc.reqType)
	}
}

func TestRenderRequestFormProducesPDF(t *testing.T) {
	svc := NewFormService()
	reason := "dropped from scaffolding, casing shattered"
	request := &models.MovementRequest{
		ID:           "REQ-1756600000000",
		Type:         models.RequestRosak,
		StaffName:    "Ali",
		Base:         "Base 2",
		Status:       models.RequestApproved,
		Timestamp:    time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		ReportReason: &reason,
		Items: []models.RequestItem{
			{ItemID: "ITM-1", Description: "Torque wrench", SerialNo: "TW-889"},
			{ItemID: "ITM-2", Description: "Hydraulic clamp", SerialNo: "HC-014"},
		},
	}

	pdf, err := svc.RenderRequestForm(request, "Siti", "Rahim")

	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderRequestFormHandlesEmptyItems(t *testing.T) {
	svc := NewFormService()
	request := &models.MovementRequest{
		ID:        "REQ-2",
		Type:      models.RequestBorrow,
		StaffName: "Siti",
		Base:      "Base 10",
		Timestamp: time.Now(),
	}

	pdf, err := svc.RenderRequestForm(request, "", "")

	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
