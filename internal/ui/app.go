package ui

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/Deeksha3227/pothole-detection-app/internal/config"
	"github.com/Deeksha3227/pothole-detection-app/internal/models"
	"github.com/Deeksha3227/pothole-detection-app/internal/ui/cwidget"
	"github.com/Deeksha3227/pothole-detection-app/processing/capture"
	processing "github.com/Deeksha3227/pothole-detection-app/processing/detector"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const (
	appTitle  = "Pothole Detection - YOLOv12 & ResNet50"
	emptyHint = "Upload an image to start detection."
)

type DetectApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	configPath string
	detector   processing.Detector
	comparator *processing.Comparator
	log        logrus.FieldLogger

	input    image.Image
	selected models.ModelID
	rows     []models.ComparisonRow

	dynamicSettings *fyne.Container
	staticSettings  *fyne.Container

	previewCanvas *canvas.Image
	outputCanvas  *canvas.Image
	tabs          *container.AppTabs
	resultsTab    *container.TabItem
	compareTab    *container.TabItem

	statusLabel   *widget.Label
	modelLabel    *widget.Label
	countLabel    *widget.Label
	accuracyLabel *widget.Label
	warnings      *widget.Label
	progress      *widget.ProgressBar
	table         *widget.Table

	loadBtn    *widget.Button
	runBtn     *widget.Button
	compareBtn *widget.Button

	// goAsync runs backend work off the event loop; onMain brings results back to it.
	goAsync func(func())
	onMain  func(func())
}

func CreateApp(det processing.Detector, cfg *config.Config, configPath string, log logrus.FieldLogger) *DetectApp {
	return newDetectApp(app.New(), det, cfg, configPath, log)
}

func newDetectApp(fyneApp fyne.App, det processing.Detector, cfg *config.Config, configPath string, log logrus.FieldLogger) *DetectApp {
	w := fyneApp.NewWindow(appTitle)

	w.Resize(fyne.NewSize(1200, 700))

	return &DetectApp{
		fyneApp:    fyneApp,
		mainWin:    w,
		config:     cfg,
		configPath: configPath,
		detector:   det,
		comparator: processing.NewComparator(det, log),
		log:        log,
		selected:   models.AllModels()[0],
		goAsync:    func(f func()) { go f() },
		onMain:     fyne.Do,
	}
}

func (a *DetectApp) Run() {
	a.buildUI()

	a.mainWin.SetCloseIntercept(func() {
		if err := a.config.Save(a.configPath); err != nil {
			a.log.WithError(err).Error("failed to save config")
		}
		a.mainWin.Close()
	})

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
}

func (a *DetectApp) buildUI() {
	a.dynamicSettings = container.NewVBox()

	sourceTypeSelect := widget.NewSelect(config.SourcesList[:], func(s string) {
		a.config.SetSource(config.SourceType(s))
		a.refreshSettingsUI(s)
	})

	modelSelect := widget.NewSelect(models.Labels(), func(s string) {
		if m, err := models.ParseModelID(s); err == nil {
			a.selected = m
		}
	})
	modelSelect.SetSelected(a.selected.Label())

	settingsLabel := widget.NewLabelWithStyle("Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	backendLabel := widget.NewLabel("Backend: " + a.backendDescription())
	backendLabel.Wrapping = fyne.TextWrapBreak

	a.setupConfigSettings()
	a.setupResultWidgets()

	a.loadBtn = widget.NewButtonWithIcon("Load Image", theme.UploadIcon(), a.LoadInput)
	a.runBtn = widget.NewButtonWithIcon("Run Detection", theme.MediaPlayIcon(), a.RunDetection)
	a.compareBtn = widget.NewButtonWithIcon("Compare All Models", theme.ListIcon(), a.CompareAll)

	sidebar := container.NewVBox(
		settingsLabel,
		backendLabel,
		widget.NewSeparator(),
		widget.NewLabel("Source Type:"),
		sourceTypeSelect,
		a.dynamicSettings,
		a.loadBtn,
		widget.NewSeparator(),
		widget.NewLabel("Select Model for Detection:"),
		modelSelect,
		container.NewGridWithColumns(2, a.runBtn, a.compareBtn),
		widget.NewSeparator(),
		a.staticSettings,
	)

	inputTab := container.NewTabItem("Input", container.NewBorder(a.statusLabel, nil, nil, nil, a.previewCanvas))
	a.resultsTab = container.NewTabItem("Detection Results", container.NewBorder(
		container.NewHBox(a.modelLabel, widget.NewSeparator(), a.countLabel, widget.NewSeparator(), a.accuracyLabel),
		nil, nil, nil,
		a.outputCanvas,
	))
	a.compareTab = container.NewTabItem("Model Comparison", container.NewBorder(
		container.NewVBox(a.progress, a.warnings),
		nil, nil, nil,
		a.table,
	))
	a.tabs = container.NewAppTabs(inputTab, a.resultsTab, a.compareTab)

	split := container.NewHSplit(
		container.NewPadded(container.NewVScroll(sidebar)),
		container.NewPadded(a.tabs),
	)
	split.SetOffset(0.3)

	a.mainWin.SetContent(split)

	sourceTypeSelect.SetSelected(string(a.config.GetSource()))
	a.setBusy(false)
}

func (a *DetectApp) backendDescription() string {
	if url := a.config.GetBaseURL(); url != "" {
		return url
	}
	return "not configured (" + config.EnvBackendURL + ")"
}

func (a *DetectApp) setupResultWidgets() {
	a.previewCanvas = canvas.NewImageFromImage(nil)
	a.previewCanvas.FillMode = canvas.ImageFillContain
	a.previewCanvas.SetMinSize(fyne.NewSize(480, 360))

	a.outputCanvas = canvas.NewImageFromImage(nil)
	a.outputCanvas.FillMode = canvas.ImageFillContain
	a.outputCanvas.SetMinSize(fyne.NewSize(480, 360))

	a.statusLabel = widget.NewLabel(emptyHint)
	a.modelLabel = widget.NewLabel("Model Used: -")
	a.countLabel = widget.NewLabel("Potholes Detected: -")
	a.accuracyLabel = widget.NewLabel("Model Accuracy: -")

	a.warnings = widget.NewLabel("")
	a.warnings.Wrapping = fyne.TextWrapWord
	a.warnings.Importance = widget.WarningImportance
	a.warnings.Hide()

	a.progress = widget.NewProgressBar()
	a.progress.Max = float64(len(models.AllModels()))
	a.progress.Hide()

	a.table = newComparisonTable(func() []models.ComparisonRow { return a.rows })
}

func (a *DetectApp) setBusy(busy bool) {
	for _, b := range []*widget.Button{a.loadBtn, a.runBtn, a.compareBtn} {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}

	if !busy && a.input == nil {
		a.runBtn.Disable()
		a.compareBtn.Disable()
	}
}

func (a *DetectApp) showError(prefix string, err error) {
	a.statusLabel.SetText(prefix + ".")
	dialog.ShowError(fmt.Errorf("%s: %w", prefix, err), a.mainWin)
}

// LoadInput grabs the input image from the configured source.
func (a *DetectApp) LoadInput() {
	src, err := capture.NewSource(a.config)
	if err != nil {
		a.showError("Cannot load input", err)
		return
	}

	a.setBusy(true)
	a.statusLabel.SetText("Loading " + src.Describe() + "...")

	a.goAsync(func() {
		img, err := src.Grab(context.Background())

		a.onMain(func() {
			defer a.setBusy(false)
			if err != nil {
				a.log.WithError(err).WithField("source", src.Describe()).Warn("failed to load input")
				a.showError("Cannot load input", err)
				return
			}
			a.setInput(img, src.Describe())
		})
	})
}

func (a *DetectApp) setInput(img image.Image, caption string) {
	a.input = img
	a.previewCanvas.Image = img
	a.previewCanvas.Refresh()

	b := img.Bounds()
	a.statusLabel.SetText(fmt.Sprintf("Uploaded Image: %s (%dx%d)", caption, b.Dx(), b.Dy()))
	a.tabs.SelectIndex(0)
}

// RunDetection sends the input to the selected model.
func (a *DetectApp) RunDetection() {
	if a.input == nil {
		a.statusLabel.SetText(emptyHint)
		return
	}

	model, img := a.selected, a.input
	a.setBusy(true)
	a.statusLabel.SetText(fmt.Sprintf("Running %s... Please wait.", model.Label()))

	a.goAsync(func() {
		res, err := a.detector.Detect(context.Background(), model, img)

		a.onMain(func() {
			defer a.setBusy(false)
			if err != nil {
				a.showError("Error during detection", err)
				return
			}
			a.showResult(res)
		})
	})
}

func (a *DetectApp) showResult(res *models.DetectionResult) {
	a.statusLabel.SetText("Detection Complete!")

	a.modelLabel.SetText("Model Used: " + res.Model.Label())
	a.countLabel.SetText(fmt.Sprintf("Potholes Detected: %d", res.Count))
	a.accuracyLabel.SetText("Model Accuracy: " + formatAccuracy(res.Accuracy))

	a.outputCanvas.Image = res.Image
	a.outputCanvas.Refresh()

	a.tabs.Select(a.resultsTab)
}

// CompareAll runs every model in turn and fills the comparison table.
func (a *DetectApp) CompareAll() {
	if a.input == nil {
		a.statusLabel.SetText(emptyHint)
		return
	}

	img := a.input
	list := models.AllModels()

	a.setBusy(true)
	a.rows = nil
	a.table.Refresh()
	a.warnings.SetText("")
	a.warnings.Hide()
	a.progress.Max = float64(len(list))
	a.progress.SetValue(0)
	a.progress.Show()
	a.statusLabel.SetText("Running comparison for all models... Please wait.")
	a.tabs.Select(a.compareTab)

	var warnings []string
	a.comparator.OnWarning = func(model models.ModelID, err error) {
		msg := fmt.Sprintf("%s failed: %v", model.Label(), err)
		a.onMain(func() {
			warnings = append(warnings, msg)
			a.warnings.SetText(strings.Join(warnings, "\n"))
			a.warnings.Show()
		})
	}
	a.comparator.OnProgress = func(done, _ int, _ models.ComparisonRow) {
		a.onMain(func() {
			a.progress.SetValue(float64(done))
		})
	}

	a.goAsync(func() {
		rows := a.comparator.Compare(context.Background(), img, list)

		a.onMain(func() {
			defer a.setBusy(false)
			a.rows = rows
			a.table.Refresh()
			a.progress.Hide()
			a.statusLabel.SetText("Comparison Complete! Results are sorted by accuracy, descending.")
		})
	})
}

func (a *DetectApp) setupConfigSettings() {
	a.staticSettings = container.NewVBox()

	maxSideInput := cwidget.NewIntInput(
		"Max upload side (0 = original)",
		"Enter integer",
		a.config.GetMaxUploadSide(),
		0,
		func(i int) {
			a.config.SetMaxUploadSide(i)
		},
	)

	a.staticSettings.Add(widget.NewLabel("Applied on next start:"))
	a.staticSettings.Add(maxSideInput)
}

func (a *DetectApp) refreshSettingsUI(sourceType string) {
	a.dynamicSettings.Objects = nil

	switch config.SourceType(sourceType) {
	case config.SourceLocal:
		pathEntry := widget.NewEntry()
		pathEntry.SetPlaceHolder("/path/to/pothole.jpg")
		pathEntry.SetText(a.config.GetLocalPath())

		pathEntry.OnChanged = func(s string) {
			a.config.SetLocalPath(s)
		}

		fileBtn := widget.NewButtonWithIcon("Open File", theme.FolderOpenIcon(), func() {
			fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()

				pathEntry.SetText(reader.URI().Path())

				img, err := capture.DecodeReader(reader)
				if err != nil {
					a.showError("Cannot load input", err)
					return
				}
				a.setInput(img, reader.URI().Name())
				a.setBusy(false)
			}, a.mainWin)
			fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
			fd.Show()
		})

		a.dynamicSettings.Add(widget.NewLabel("Upload a Pothole Image:"))
		a.dynamicSettings.Add(container.NewBorder(nil, nil, nil, fileBtn, pathEntry))

	case config.SourceVideo:
		video := a.config.GetVideo()

		pathEntry := widget.NewEntry()
		pathEntry.SetPlaceHolder("/path/to/dashcam.mp4")
		pathEntry.SetText(video.Path)
		pathEntry.OnChanged = func(s string) {
			a.config.SetVideoPath(s)
		}

		offsetInput := cwidget.NewIntInput("Frame at second", "Enter integer", video.OffsetSeconds, 0, func(i int) {
			a.config.SetVideoOffset(i)
		})

		a.dynamicSettings.Add(widget.NewLabel("Video Path:"))
		a.dynamicSettings.Add(pathEntry)
		a.dynamicSettings.Add(offsetInput)

	case config.SourceWebcam:
		deviceSelect := widget.NewSelect([]string{"Loading cameras..."}, func(s string) {
			if s != "Loading cameras..." && s != "No cameras found" {
				a.config.SetWebcamDevice(s)
			}
		})
		deviceSelect.SetSelected("Loading cameras...")
		deviceSelect.Disable()

		a.dynamicSettings.Add(widget.NewLabel("Select Camera:"))
		a.dynamicSettings.Add(deviceSelect)

		go func() {
			devices, err := capture.ListCameras()

			fyne.Do(func() {
				switch {
				case err != nil:
					dialog.ShowError(err, a.mainWin)
					deviceSelect.Options = []string{"Error listing cameras"}
				case len(devices) == 0:
					deviceSelect.Options = []string{"No cameras found"}
				default:
					deviceSelect.Options = devices
					deviceSelect.Enable()

					if current := a.config.GetWebcamDevice(); current != "" {
						deviceSelect.SetSelected(current)
					} else {
						deviceSelect.SetSelected(devices[0])
					}
				}
				deviceSelect.Refresh()
			})
		}()
	}

	a.dynamicSettings.Refresh()
}
