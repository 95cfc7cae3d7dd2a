package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"regexp"
	"runtime"
)

// WebcamSource grabs one frame from a camera via ffmpeg (dshow on Windows, v4l2 elsewhere).
type WebcamSource struct {
	deviceName string
}

func NewWebcamSource(deviceName string) *WebcamSource {
	return &WebcamSource{deviceName: deviceName}
}

func (ws *WebcamSource) Describe() string {
	return "camera " + ws.deviceName
}

func (ws *WebcamSource) Grab(ctx context.Context) (image.Image, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", webcamArgs(runtime.GOOS, ws.deviceName)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w. Details: %s", err, stderr.String())
	}

	return DecodeReader(bytes.NewReader(out))
}

func webcamArgs(goos, device string) []string {
	var input []string
	if goos == "windows" {
		input = []string{"-f", "dshow", "-i", fmt.Sprintf("video=%s", device)}
	} else {
		input = []string{"-f", "v4l2", "-i", device}
	}

	return append(append([]string{"-v", "error"}, input...),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
}

var dshowDevice = regexp.MustCompile(`"([^"]+)"\s+\(video\)`)

func ListCameras() ([]string, error) {
	if runtime.GOOS != "windows" {
		return []string{"/dev/video0", "/dev/video1"}, nil
	}

	cmd := exec.Command("ffmpeg", "-list_devices", "true", "-f", "dshow", "-i", "dummy")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// ffmpeg always exits non-zero here; the listing is on stderr.
	_ = cmd.Run()

	return parseDshowDevices(stderr.String()), nil
}

func parseDshowDevices(output string) []string {
	var cameras []string
	seen := make(map[string]bool)

	for _, m := range dshowDevice.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if name != "dummy" && !seen[name] {
			cameras = append(cameras, name)
			seen[name] = true
		}
	}
	return cameras
}
