package models

import (
	"image"
	"strconv"
	"time"
)

const CountErrorSentinel = "Error"

type DetectionResult struct {
	Model     ModelID
	Image     image.Image
	Accuracy  Accuracy
	Count     int
	RequestID string
	Latency   time.Duration
}

// ComparisonRow is one line of the compare-all table. Err is set when the model's call failed,
// in which case Accuracy is zero and Count is meaningless.
type ComparisonRow struct {
	Model    ModelID
	Accuracy Accuracy
	Count    int
	Latency  time.Duration
	Err      error
}

func (r ComparisonRow) Failed() bool {
	return r.Err != nil
}

func (r ComparisonRow) CountLabel() string {
	if r.Failed() {
		return CountErrorSentinel
	}
	return strconv.Itoa(r.Count)
}
