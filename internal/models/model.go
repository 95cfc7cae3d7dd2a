package models

import (
	"fmt"
	"strings"
)

// ModelID names a detector variant served by the backend. The string value is sent as-is in the
// "model" form field.
type ModelID string

const (
	YoloNanoV12   ModelID = "yolo n v12"
	ResNet50      ModelID = "resnet 50"
	YoloSmallV12  ModelID = "yolo s v12"
	YoloMediumV12 ModelID = "yolo m v12"
	YoloLargeV12  ModelID = "yolo l v12"
	YoloXLargeV12 ModelID = "yolo x v12"
)

var modelsList = [...]ModelID{
	YoloNanoV12,
	ResNet50,
	YoloSmallV12,
	YoloMediumV12,
	YoloLargeV12,
	YoloXLargeV12,
}

// AllModels returns every supported model in enumeration order.
func AllModels() []ModelID {
	out := make([]ModelID, len(modelsList))
	copy(out, modelsList[:])
	return out
}

func ParseModelID(s string) (ModelID, error) {
	for _, m := range modelsList {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model: %q", s)
}

func (m ModelID) Valid() bool {
	_, err := ParseModelID(string(m))
	return err == nil
}

func (m ModelID) String() string {
	return string(m)
}

// Label is the display name used across the UI.
func (m ModelID) Label() string {
	return strings.ToUpper(string(m))
}

// Labels returns display labels in enumeration order.
func Labels() []string {
	labels := make([]string, 0, len(modelsList))
	for _, m := range modelsList {
		labels = append(labels, m.Label())
	}
	return labels
}
