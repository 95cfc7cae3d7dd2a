package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type SourceType string

const (
	SourceLocal  SourceType = "File"
	SourceVideo  SourceType = "Video frame"
	SourceWebcam SourceType = "Web-Camera"

	DefaultConfigPath string = "config.yaml"

	EnvBackendURL = "COLAB_NGROK_URL"
	EnvLogLevel   = "LOG_LEVEL"
)

var SourcesList = [...]string{
	string(SourceLocal),
	string(SourceVideo),
	string(SourceWebcam),
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LocalConfig struct {
	Path string `yaml:"path"`
}

type VideoConfig struct {
	Path          string `yaml:"path"`
	OffsetSeconds int    `yaml:"offset_seconds"`
}

type WebcamConfig struct {
	DeviceID string `yaml:"device_id"`
}

type Config struct {
	mu sync.RWMutex

	Backend      BackendConfig `yaml:"backend"`
	ActiveSource SourceType    `yaml:"active_source"`
	// MaxUploadSide caps the longest side of the uploaded JPEG; 0 sends the image unscaled.
	MaxUploadSide int    `yaml:"max_upload_side"`
	LogLevel      string `yaml:"log_level"`

	Local  LocalConfig  `yaml:"local"`
	Video  VideoConfig  `yaml:"video"`
	Webcam WebcamConfig `yaml:"webcam"`

	// Environment overrides win over the file and are never written back by Save.
	envBaseURL  string
	envLogLevel string
}

func (c *Config) GetBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	base := c.Backend.BaseURL
	if c.envBaseURL != "" {
		base = c.envBaseURL
	}
	return strings.TrimRight(base, "/")
}

func (c *Config) GetLogLevel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.envLogLevel != "" {
		return c.envLogLevel
	}
	return c.LogLevel
}

func (c *Config) GetSource() SourceType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ActiveSource
}

func (c *Config) SetSource(s SourceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActiveSource = s
}

func (c *Config) GetMaxUploadSide() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MaxUploadSide
}

func (c *Config) SetMaxUploadSide(side int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MaxUploadSide = side
}

func (c *Config) GetLocalPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Local.Path
}

func (c *Config) SetLocalPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Local.Path = path
}

func (c *Config) GetVideo() VideoConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Video
}

func (c *Config) SetVideoPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Video.Path = path
}

func (c *Config) SetVideoOffset(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Video.OffsetSeconds = seconds
}

func (c *Config) GetWebcamDevice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Webcam.DeviceID
}

func (c *Config) SetWebcamDevice(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Webcam.DeviceID = id
}

// Validate reports a base URL that can never be reached. An empty URL is an error too: every
// request would fail at connection time.
func (c *Config) Validate() error {
	base := c.GetBaseURL()
	if base == "" {
		return fmt.Errorf("backend base url is not set (set %s or backend.base_url)", EnvBackendURL)
	}

	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend base url %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return fmt.Errorf("backend base url %q: missing host", base)
	}

	if c.GetMaxUploadSide() < 0 {
		return fmt.Errorf("max_upload_side must not be negative")
	}
	return nil
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	data, err := yaml.Marshal(c)
	c.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadConfigFile reads path on top of the defaults and applies environment overrides.
// A missing file is not an error. An unreadable or broken file still yields the defaults with
// the environment applied, alongside the error.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	var loadErr error
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = NewDefaultConfig()
			loadErr = fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		loadErr = fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, loadErr
}

func (c *Config) applyEnv() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.envBaseURL = os.Getenv(EnvBackendURL)
	c.envLogLevel = os.Getenv(EnvLogLevel)
}

func NewDefaultConfig() *Config {
	return &Config{
		ActiveSource: SourceLocal,
		LogLevel:     "info",
		Webcam:       WebcamConfig{DeviceID: "/dev/video0"},
	}
}
