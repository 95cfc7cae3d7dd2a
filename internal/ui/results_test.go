package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/Deeksha3227/pothole-detection-app/internal/models"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestCellText(t *testing.T) {
	ok := models.ComparisonRow{
		Model:    models.YoloLargeV12,
		Accuracy: models.NewAccuracy(91.5),
		Count:    6,
		Latency:  1500 * time.Millisecond,
	}
	assert.Equal(t, "YOLO L V12", cellText(ok, 0))
	assert.Equal(t, "91.5", cellText(ok, 1))
	assert.Equal(t, "6", cellText(ok, 2))
	assert.Equal(t, "1500 ms", cellText(ok, 3))
	assert.Empty(t, cellText(ok, 9))

	failed := models.ComparisonRow{Model: models.ResNet50, Accuracy: models.NewAccuracy(0), Err: errors.New("down")}
	assert.Equal(t, "0", cellText(failed, 1))
	assert.Equal(t, "Error", cellText(failed, 2))
}

func TestFormatAccuracy(t *testing.T) {
	assert.Equal(t, "85%", formatAccuracy(models.NewAccuracy(85)))
	assert.Equal(t, "N/A", formatAccuracy(models.Unavailable()))
}

func TestComparisonTableLength(t *testing.T) {
	test.NewTempApp(t)

	var rows []models.ComparisonRow
	table := newComparisonTable(func() []models.ComparisonRow { return rows })

	r, c := table.Length()
	assert.Equal(t, 0, r)
	assert.Equal(t, 4, c)

	rows = []models.ComparisonRow{
		{Model: models.YoloNanoV12, Accuracy: models.NewAccuracy(80)},
		{Model: models.ResNet50, Accuracy: models.NewAccuracy(0), Err: errors.New("x")},
	}
	r, _ = table.Length()
	assert.Equal(t, 2, r)
}
