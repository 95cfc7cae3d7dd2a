package processing

import (
	"context"
	"image"
	"sort"
	"time"

	"github.com/Deeksha3227/pothole-detection-app/internal/logging"
	"github.com/Deeksha3227/pothole-detection-app/internal/models"

	"github.com/sirupsen/logrus"
)

type Detector interface {
	Detect(ctx context.Context, model models.ModelID, img image.Image) (*models.DetectionResult, error)
}

// Comparator runs every model over the same image, one request at a time.
type Comparator struct {
	det Detector
	log logrus.FieldLogger

	// OnWarning is called for each model that failed. The comparison keeps going.
	OnWarning func(model models.ModelID, err error)
	// OnProgress is called after each model, successful or not.
	OnProgress func(done, total int, row models.ComparisonRow)
}

func NewComparator(det Detector, log logrus.FieldLogger) *Comparator {
	if log == nil {
		log = logging.Discard()
	}
	return &Comparator{det: det, log: log}
}

// Compare returns one row per model, sorted by accuracy descending. A failed model gets
// accuracy 0 and an error count instead of aborting the loop.
func (c *Comparator) Compare(ctx context.Context, img image.Image, list []models.ModelID) []models.ComparisonRow {
	rows := make([]models.ComparisonRow, 0, len(list))

	for i, model := range list {
		start := time.Now()
		res, err := c.det.Detect(ctx, model, img)

		row := models.ComparisonRow{Model: model, Latency: time.Since(start)}
		if err != nil {
			row.Accuracy = models.NewAccuracy(0)
			row.Err = err

			c.log.WithField("model", model.String()).WithError(err).Warn("model failed during comparison")
			if c.OnWarning != nil {
				c.OnWarning(model, err)
			}
		} else {
			row.Accuracy = res.Accuracy
			row.Count = res.Count
		}

		rows = append(rows, row)

		if c.OnProgress != nil {
			c.OnProgress(i+1, len(list), row)
		}
	}

	SortRows(rows)
	return rows
}

// SortRows orders rows by accuracy descending. Equal accuracies keep their input order.
func SortRows(rows []models.ComparisonRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Accuracy.SortKey() > rows[j].Accuracy.SortKey()
	})
}
