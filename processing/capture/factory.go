package capture

import (
	"fmt"

	config "github.com/Deeksha3227/pothole-detection-app/internal/config"
)

func NewSource(t *config.Config) (Source, error) {
	switch t.GetSource() {
	case config.SourceLocal:
		return NewFileSource(t.GetLocalPath())
	case config.SourceVideo:
		v := t.GetVideo()
		return NewVideoFrameSource(v.Path, v.OffsetSeconds)
	case config.SourceWebcam:
		return NewWebcamSource(t.GetWebcamDevice()), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", t.GetSource())
	}
}
