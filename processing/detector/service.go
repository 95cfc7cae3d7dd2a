package processing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Deeksha3227/pothole-detection-app/internal/config"
	"github.com/Deeksha3227/pothole-detection-app/internal/logging"
	"github.com/Deeksha3227/pothole-detection-app/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	detectPath = "/detect"

	fileField       = "file"
	modelField      = "model"
	uploadName      = "image.jpg"
	uploadType      = "image/jpeg"
	requestIDHeader = "X-Request-ID"
)

type RemoteDetector struct {
	serverURL string
	maxSide   int

	client *http.Client
	log    logrus.FieldLogger
}

type Option func(*RemoteDetector)

func WithHTTPClient(c *http.Client) Option {
	return func(d *RemoteDetector) { d.client = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *RemoteDetector) { d.log = l }
}

// NewRemoteDetector takes the endpoint and upload settings from cfg once; later config edits
// need a new detector. The transport has no timeout of its own.
func NewRemoteDetector(cfg *config.Config, opts ...Option) *RemoteDetector {
	d := &RemoteDetector{
		serverURL: cfg.GetBaseURL() + detectPath,
		maxSide:   cfg.GetMaxUploadSide(),
		client:    &http.Client{},
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *RemoteDetector) URL() string {
	return d.serverURL
}

type detectResponse struct {
	DetectedImageB64 *string         `json:"detected_image_b64"`
	Accuracy         models.Accuracy `json:"accuracy"`
	PotholeCount     count           `json:"pothole_count"`
}

// count accepts 3, 3.0, "3" and null. Fractions are truncated.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("pothole_count: %w", err)
		}
		data = []byte(strings.TrimSpace(s))
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pothole_count: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*c = count(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("pothole_count: %w", err)
	}
	*c = count(f)
	return nil
}

// Detect runs one model on img. Failures are *ConnectivityError when the backend was not
// reached and *ProtocolError when it answered with something unusable. Anything rejected before
// sending wraps ErrInvalidRequest.
func (d *RemoteDetector) Detect(ctx context.Context, model models.ModelID, img image.Image) (*models.DetectionResult, error) {
	if !model.Valid() {
		return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidRequest, model)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: no image to send", ErrInvalidRequest)
	}

	var upload image.Image = ToRGB(img)
	upload = FitWithin(upload, d.maxSide)

	payload, err := EncodeJPEG(upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	body, contentType, err := buildForm(payload, model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	requestID := uuid.NewString()
	log := d.log.WithFields(logrus.Fields{
		"model":      model.String(),
		"request_id": requestID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.serverURL, body)
	if err != nil {
		return nil, &ConnectivityError{URL: d.serverURL, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(requestIDHeader, requestID)

	log.WithField("bytes", len(payload)).Debug("sending detection request")

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("detection backend unreachable")
		return nil, &ConnectivityError{URL: d.serverURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{URL: d.serverURL, Err: fmt.Errorf("read response: %w", err)}
	}
	latency := time.Since(start)

	log = log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"latency": latency.Milliseconds(),
	})

	if resp.StatusCode != http.StatusOK {
		perr := protocolErrorFromBody(resp.StatusCode, data)
		log.WithError(perr).Warn("detection backend returned an error")
		return nil, perr
	}

	result, err := decodeDetection(resp.StatusCode, data)
	if err != nil {
		log.WithError(err).Warn("detection response could not be decoded")
		return nil, err
	}

	result.Model = model
	result.RequestID = requestID
	result.Latency = latency

	log.WithFields(logrus.Fields{
		"accuracy": result.Accuracy.String(),
		"count":    result.Count,
	}).Info("detection complete")

	return result, nil
}

func buildForm(payload []byte, model models.ModelID) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, uploadName))
	h.Set("Content-Type", uploadType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("copy image data: %w", err)
	}

	if err := writer.WriteField(modelField, model.String()); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func protocolErrorFromBody(status int, data []byte) *ProtocolError {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return &ProtocolError{
			StatusCode: status,
			Message:    fmt.Sprintf("Unexpected API response (%d)", status),
		}
	}

	msg, ok := body["error"]
	if !ok || msg == nil {
		return &ProtocolError{
			StatusCode: status,
			Message:    fmt.Sprintf("Unknown error (%d)", status),
		}
	}

	return &ProtocolError{StatusCode: status, Message: fmt.Sprint(msg)}
}

func decodeDetection(status int, data []byte) (*models.DetectionResult, error) {
	var body detectResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &ProtocolError{StatusCode: status, Message: "invalid detection response", Err: err}
	}

	if body.DetectedImageB64 == nil {
		return nil, &ProtocolError{StatusCode: status, Message: "detection response has no detected_image_b64"}
	}

	raw, err := base64.StdEncoding.DecodeString(stripDataURL(*body.DetectedImageB64))
	if err != nil {
		return nil, &ProtocolError{StatusCode: status, Message: "invalid detected_image_b64", Err: err}
	}

	img, err := DecodeImage(raw)
	if err != nil {
		return nil, &ProtocolError{StatusCode: status, Message: "invalid detected image", Err: err}
	}

	return &models.DetectionResult{
		Image:    img,
		Accuracy: body.Accuracy,
		Count:    int(body.PotholeCount),
	}, nil
}

// stripDataURL accepts "data:image/jpeg;base64,..." as well as bare base64.
func stripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
