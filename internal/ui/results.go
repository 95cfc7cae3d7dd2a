package ui

import (
	"fmt"
	"time"

	"github.com/Deeksha3227/pothole-detection-app/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

var comparisonHeaders = [...]string{
	"Model Name",
	"Accuracy (%)",
	"Detected Potholes",
	"Latency",
}

var comparisonWidths = [...]float32{160, 120, 150, 100}

func formatAccuracy(a models.Accuracy) string {
	if !a.Available() {
		return a.String()
	}
	return a.String() + "%"
}

func formatLatency(v time.Duration) string {
	return fmt.Sprintf("%d ms", v.Milliseconds())
}

func cellText(row models.ComparisonRow, col int) string {
	switch col {
	case 0:
		return row.Model.Label()
	case 1:
		return row.Accuracy.String()
	case 2:
		return row.CountLabel()
	case 3:
		return formatLatency(row.Latency)
	default:
		return ""
	}
}

// comparisonTable renders whatever rows() returns at refresh time.
func newComparisonTable(rows func() []models.ComparisonRow) *widget.Table {
	table := widget.NewTable(
		func() (int, int) {
			return len(rows()), len(comparisonHeaders)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			current := rows()
			if id.Row >= len(current) {
				label.SetText("")
				return
			}
			row := current[id.Row]
			label.Importance = widget.MediumImportance
			if row.Failed() && id.Col == 2 {
				label.Importance = widget.DangerImportance
			}
			label.SetText(cellText(row, id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < len(comparisonHeaders) {
			obj.(*widget.Label).SetText(comparisonHeaders[id.Col])
		}
	}

	for i, w := range comparisonWidths {
		table.SetColumnWidth(i, w)
	}

	return table
}
