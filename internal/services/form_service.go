package services

import (
	"bytes"
	"fmt"

	"basetrack/internal/models"

	"github.com/go-pdf/fpdf"
)

// FormConfig selects the quality-form template printed for a request type.
type FormConfig struct {
	ID          string
	Title       string
	DateLabel   string
	ReportLabel string
}

// FormConfigFor maps a request type to its printed form. Status-change
// requests each have a dedicated QF number; movements share the in/out form.
func FormConfigFor(reqType models.RequestType) FormConfig {
	switch reqType {
	case models.RequestRosak:
		return FormConfig{ID: "QF.101", Title: "PERALATAN ROSAK UNTUK DIBAIKI", DateLabel: "TARIKH KEROSAKAN", ReportLabel: "LAPORAN KEROSAKAN"}
	case models.RequestScrap:
		return FormConfig{ID: "QF.102", Title: "LAPORAN PELUPUSAN PERALATAN (SKRAP)", DateLabel: "TARIKH SKRAP", ReportLabel: "LAPORAN SKRAP"}
	case models.RequestLost:
		return FormConfig{ID: "QF.103", Title: "LAPORAN KEHILANGAN PERALATAN", DateLabel: "TARIKH KEHILANGAN", ReportLabel: "LAPORAN KEHILANGAN"}
	default:
		return FormConfig{ID: "QF.100", Title: "PERALATAN KELUAR/MASUK", DateLabel: "TARIKH", ReportLabel: "LAPORAN"}
	}
}

// FormService renders movement requests as printable quality forms.
// Approver names are passed in resolved; blanks print as empty signature
// lines for forms generated before a gate was cleared.
type FormService interface {
	RenderRequestForm(request *models.MovementRequest, storekeeperName, managerName string) ([]byte, error)
}

type formService struct{}

func NewFormService() FormService {
	return &formService{}
}

func (formService) RenderRequestForm(request *models.MovementRequest, storekeeperName, managerName string) ([]byte, error) {
	config := FormConfigFor(request.Type)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, config.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, config.ID, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Request metadata
	pdf.SetFont("Helvetica", "", 10)
	labelW := contentW * 0.35
	metaRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-labelW, 7, ": "+value, "", 1, "L", false, 0, "")
	}

	metaRow("MARKAS/WORKSHOP", request.Base)
	metaRow("NO. KERJA", request.ID)
	metaRow("PROJEK", valueOrBlank(request.TargetLocation))
	metaRow(config.DateLabel, formDate(request))
	pdf.Ln(4)

	// Item table, fixed at eight rows so the printed form keeps its shape
	// even for short requests.
	colBil := contentW * 0.08
	colItem := contentW * 0.47
	colNote := contentW * 0.30
	colQty := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colBil, 8, "BIL.", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colItem, 8, "PERALATAN", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colNote, 8, "CATATAN", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colQty, 8, "KUANTITI", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	const tableRows = 8
	for i := 0; i < tableRows; i++ {
		rowH := 12.0
		x, y := pdf.GetXY()
		bil, item := "", ""
		if i < len(request.Items) {
			bil = fmt.Sprintf("%d", i+1)
			item = fmt.Sprintf("%s\nS/N: %s", request.Items[i].Description, request.Items[i].SerialNo)
		}
		pdf.CellFormat(colBil, rowH, bil, "1", 0, "C", false, 0, "")
		pdf.MultiCell(colItem, rowH/2, item, "1", "L", false)
		pdf.SetXY(x+colBil+colItem, y)
		pdf.CellFormat(colNote, rowH, "", "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowH, "", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// Report section
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 7, config.ReportLabel, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 6, valueOrBlank(request.ReportReason), "1", "L", false)
	pdf.Ln(8)

	// Signature blocks
	sigW := contentW / 3
	signatures := []struct {
		role string
		name string
	}{
		{"PEMOHON", request.StaffName},
		{"PENYIMPAN STOR", storekeeperName},
		{"PENGURUS MARKAS", managerName},
	}
	for _, sig := range signatures {
		x, y := pdf.GetXY()
		pdf.CellFormat(sigW-6, 6, "....................................", "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+7)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(sigW-6, 5, sig.role, "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+13)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(sigW-6, 5, sig.name, "", 0, "C", false, 0, "")
		pdf.SetXY(x+sigW, y)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering form %s: %w", config.ID, err)
	}
	return buf.Bytes(), nil
}

func formDate(request *models.MovementRequest) string {
	if request.TargetDate != nil && *request.TargetDate != "" {
		return *request.TargetDate
	}
	return request.Timestamp.Format("2006-01-02")
}

func valueOrBlank(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
