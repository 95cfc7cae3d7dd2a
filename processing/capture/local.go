package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/jpeg"
	_ "image/png"
)

var (
	ErrNoPath       = errors.New("no input path set")
	ErrUnsupported  = errors.New("unsupported image type, expected png or jpeg")
	allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
)

type FileSource struct {
	path string
}

func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(path))] {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return &FileSource{path: path}, nil
}

func (fs *FileSource) Grab(_ context.Context) (image.Image, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeReader(f)
}

func (fs *FileSource) Describe() string {
	return filepath.Base(fs.path)
}

// DecodeReader decodes an uploaded PNG or JPEG.
func DecodeReader(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%s: %w", format, ErrUnsupported)
	}
	return img, nil
}

const bytePerPixel = 4

// VideoFrameSource pulls a single frame out of a local video with ffmpeg.
type VideoFrameSource struct {
	path          string
	offsetSeconds int
}

func NewVideoFrameSource(path string, offsetSeconds int) (*VideoFrameSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}
	if offsetSeconds < 0 {
		offsetSeconds = 0
	}
	return &VideoFrameSource{path: path, offsetSeconds: offsetSeconds}, nil
}

func (vs *VideoFrameSource) Describe() string {
	return fmt.Sprintf("%s @ %ds", filepath.Base(vs.path), vs.offsetSeconds)
}

func (vs *VideoFrameSource) Grab(ctx context.Context) (image.Image, error) {
	w, h, err := probeVideoDimensions(ctx, vs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", videoFrameArgs(vs.path, vs.offsetSeconds)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w. Details: %s", err, stderr.String())
	}

	return rgbaFromRaw(out, int(w), int(h))
}

func videoFrameArgs(path string, offsetSeconds int) []string {
	return []string{
		"-v", "error",
		"-ss", strconv.Itoa(offsetSeconds),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-pix_fmt", "rgba",
		"-vcodec", "rawvideo",
		"-",
	}
}

func rgbaFromRaw(data []byte, width, height int) (*image.RGBA, error) {
	frameSize := width * height * bytePerPixel
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(data) < frameSize {
		return nil, fmt.Errorf("short frame: got %d bytes, want %d", len(data), frameSize)
	}

	pixelData := make([]byte, frameSize)
	copy(pixelData, data[:frameSize])

	return &image.RGBA{
		Pix:    pixelData,
		Stride: width * bytePerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

type probeData struct {
	Streams []struct {
		Width  uint16 `json:"width"`
		Height uint16 `json:"height"`
	} `json:"streams"`
}

func probeVideoDimensions(ctx context.Context, path string) (uint16, uint16, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, 0, err
	}

	return parseProbe(output)
}

func parseProbe(output []byte) (uint16, uint16, error) {
	var data probeData
	if err := json.Unmarshal(output, &data); err != nil {
		return 0, 0, err
	}

	if len(data.Streams) == 0 {
		return 0, 0, fmt.Errorf("no video streams found")
	}

	return data.Streams[0].Width, data.Streams[0].Height, nil
}
