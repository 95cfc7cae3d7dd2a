package capture

import (
	"context"
	"image"
)

// Source produces the still image sent to the detector.
type Source interface {
	Grab(ctx context.Context) (image.Image, error)
	Describe() string
}
