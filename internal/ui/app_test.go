package ui

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Deeksha3227/pothole-detection-app/internal/config"
	"github.com/Deeksha3227/pothole-detection-app/internal/logging"
	"github.com/Deeksha3227/pothole-detection-app/internal/models"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	mu       sync.Mutex
	accuracy map[models.ModelID]float64
	failures map[models.ModelID]error
	calls    []models.ModelID

	// onDetect runs inside Detect before the result is returned.
	onDetect func(models.ModelID)
}

func (f *fakeDetector) Detect(_ context.Context, model models.ModelID, img image.Image) (*models.DetectionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.mu.Unlock()

	if f.onDetect != nil {
		f.onDetect(model)
	}
	if err := f.failures[model]; err != nil {
		return nil, err
	}
	return &models.DetectionResult{
		Model:    model,
		Image:    img,
		Accuracy: models.NewAccuracy(f.accuracy[model]),
		Count:    2,
	}, nil
}

// newTestApp returns a built app whose background work and UI callbacks run inline.
func newTestApp(t *testing.T, det *fakeDetector) *DetectApp {
	t.Helper()

	cfg := config.NewDefaultConfig()
	a := newDetectApp(test.NewTempApp(t), det, cfg, filepath.Join(t.TempDir(), "config.yaml"), logging.Discard())
	a.goAsync = func(f func()) { f() }
	a.onMain = func(f func()) { f() }
	a.buildUI()
	return a
}

func assertBusy(t *testing.T, a *DetectApp, busy bool) {
	t.Helper()
	assert.Equal(t, busy, a.loadBtn.Disabled(), "load button")
	assert.Equal(t, busy, a.runBtn.Disabled(), "run button")
	assert.Equal(t, busy, a.compareBtn.Disabled(), "compare button")
}

func TestActionsDisabledWithoutInput(t *testing.T) {
	det := &fakeDetector{}
	a := newTestApp(t, det)

	assert.False(t, a.loadBtn.Disabled())
	assert.True(t, a.runBtn.Disabled())
	assert.True(t, a.compareBtn.Disabled())

	a.RunDetection()
	a.CompareAll()
	assert.Empty(t, det.calls)
	assert.Equal(t, emptyHint, a.statusLabel.Text)
}

func TestCompareAllCollectsFailures(t *testing.T) {
	det := &fakeDetector{
		accuracy: map[models.ModelID]float64{
			models.YoloNanoV12:   70,
			models.YoloSmallV12:  80,
			models.YoloLargeV12:  95,
			models.YoloXLargeV12: 90,
		},
		failures: map[models.ModelID]error{
			models.ResNet50:      errors.New("backend timeout"),
			models.YoloMediumV12: errors.New("model not loaded"),
		},
	}
	a := newTestApp(t, det)
	a.setInput(image.NewRGBA(image.Rect(0, 0, 8, 8)), "road.jpg")
	a.setBusy(false)

	det.onDetect = func(models.ModelID) { assertBusy(t, a, true) }
	a.CompareAll()

	require.Len(t, a.rows, len(models.AllModels()))
	assert.Equal(t, models.AllModels(), det.calls)

	var order []models.ModelID
	for _, row := range a.rows {
		order = append(order, row.Model)
	}
	assert.Equal(t, []models.ModelID{
		models.YoloLargeV12,
		models.YoloXLargeV12,
		models.YoloSmallV12,
		models.YoloNanoV12,
		models.ResNet50,
		models.YoloMediumV12,
	}, order)
	assert.True(t, a.rows[4].Failed())
	assert.True(t, a.rows[5].Failed())

	assert.True(t, a.warnings.Visible())
	assert.Contains(t, a.warnings.Text, "backend timeout")
	assert.Contains(t, a.warnings.Text, "model not loaded")
	assert.Contains(t, a.warnings.Text, models.ResNet50.Label())

	assert.Equal(t, "Comparison Complete! Results are sorted by accuracy, descending.", a.statusLabel.Text)
	assert.False(t, a.progress.Visible())
	assertBusy(t, a, false)
}

func TestCompareAllClearsPreviousWarnings(t *testing.T) {
	det := &fakeDetector{failures: map[models.ModelID]error{models.ResNet50: errors.New("down")}}
	a := newTestApp(t, det)
	a.setInput(image.NewRGBA(image.Rect(0, 0, 4, 4)), "road.jpg")

	a.CompareAll()
	require.Contains(t, a.warnings.Text, "down")

	det.failures = nil
	a.CompareAll()
	assert.Empty(t, a.warnings.Text)
	assert.False(t, a.warnings.Visible())
	assert.Len(t, a.rows, len(models.AllModels()))
}

func TestRunDetectionShowsResult(t *testing.T) {
	det := &fakeDetector{accuracy: map[models.ModelID]float64{models.YoloSmallV12: 88.5}}
	a := newTestApp(t, det)
	a.setInput(image.NewRGBA(image.Rect(0, 0, 4, 4)), "road.jpg")
	a.selected = models.YoloSmallV12

	det.onDetect = func(models.ModelID) { assertBusy(t, a, true) }
	a.RunDetection()

	assert.Equal(t, []models.ModelID{models.YoloSmallV12}, det.calls)
	assert.Equal(t, "Detection Complete!", a.statusLabel.Text)
	assert.Equal(t, "Model Used: "+models.YoloSmallV12.Label(), a.modelLabel.Text)
	assert.Equal(t, "Potholes Detected: 2", a.countLabel.Text)
	assert.Equal(t, "Model Accuracy: 88.5%", a.accuracyLabel.Text)
	assert.Equal(t, a.resultsTab, a.tabs.Selected())
	assertBusy(t, a, false)
}

func TestRunDetectionErrorShowsDialog(t *testing.T) {
	det := &fakeDetector{failures: map[models.ModelID]error{models.YoloNanoV12: errors.New("connection refused")}}
	a := newTestApp(t, det)
	a.setInput(image.NewRGBA(image.Rect(0, 0, 4, 4)), "road.jpg")

	a.RunDetection()

	assert.Equal(t, "Error during detection.", a.statusLabel.Text)
	assert.NotNil(t, a.mainWin.Canvas().Overlays().Top())
	assert.Equal(t, "Model Used: -", a.modelLabel.Text)
	assertBusy(t, a, false)
}
