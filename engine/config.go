package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/staging"
)

// Environment variables read by ApplyEnv.
const (
	EnvTracesDir       = "RECORDER_TRACES_DIR"
	EnvCompressionMode = "RECORDER_COMPRESSION_MODE"
	EnvBufferSize      = "RECORDER_BUFFER_SIZE"
	EnvTimeResolution  = "RECORDER_TIME_RESOLUTION"
)

// DefaultDir is the trace directory used when none is configured.
const DefaultDir = "logs"

// Config holds the recording settings shared by every rank of a run.
type Config struct {
	// Dir is the trace directory, created if missing.
	Dir string `yaml:"dir"`
	// Compression is a mode name ("zlib") or number ("2"). Unsupported values
	// fall back to format.FallbackMode when the engine starts.
	Compression string `yaml:"compression"`
	// TimeResolution is the relative tick size in seconds.
	TimeResolution float64 `yaml:"time_resolution"`
	// BufferSize is the staging buffer capacity, e.g. "12MB".
	BufferSize datasize.ByteSize `yaml:"-"`
}

// fileConfig mirrors Config with the buffer size kept as text, so both
// "12MB" and plain byte counts are accepted.
type fileConfig struct {
	Dir            string  `yaml:"dir"`
	Compression    string  `yaml:"compression"`
	TimeResolution float64 `yaml:"time_resolution"`
	BufferSize     string  `yaml:"buffer_size"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Dir:            DefaultDir,
		Compression:    strings.ToLower(format.DefaultMode.String()),
		TimeResolution: format.DefaultTimeRes,
		BufferSize:     datasize.ByteSize(staging.DefaultSize),
	}
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML config data. Missing keys keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Dir != "" {
		cfg.Dir = fc.Dir
	}
	if fc.Compression != "" {
		cfg.Compression = fc.Compression
	}
	if fc.TimeResolution != 0 {
		cfg.TimeResolution = fc.TimeResolution
	}
	if fc.BufferSize != "" {
		size, err := parseSize(fc.BufferSize)
		if err != nil {
			return Config{}, err
		}
		cfg.BufferSize = size
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from the RECORDER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvTracesDir); ok && v != "" {
		c.Dir = v
	}
	if v, ok := os.LookupEnv(EnvCompressionMode); ok && v != "" {
		c.Compression = v
	}
	if v, ok := os.LookupEnv(EnvBufferSize); ok && v != "" {
		size, err := parseSize(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBufferSize, err)
		}
		c.BufferSize = size
	}
	if v, ok := os.LookupEnv(EnvTimeResolution); ok && v != "" {
		res, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", EnvTimeResolution, errs.ErrInvalidTimeResolution, err)
		}
		c.TimeResolution = res
	}

	return c.Validate()
}

// Validate rejects settings the engine cannot start with. An unsupported
// compression mode is not an error; see Mode.
func (c *Config) Validate() error {
	if !(c.TimeResolution > 0) {
		return fmt.Errorf("%w: %g", errs.ErrInvalidTimeResolution, c.TimeResolution)
	}
	if c.BufferSize == 0 || c.BufferSize.Bytes() > uint64(maxBufferSize) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidBufferSize, c.BufferSize.HR())
	}

	return nil
}

// Mode resolves Compression. An empty value selects format.DefaultMode; an
// unsupported one returns format.FallbackMode together with the parse error
// so the caller can report it.
func (c *Config) Mode() (format.CompressionMode, error) {
	if strings.TrimSpace(c.Compression) == "" {
		return format.DefaultMode, nil
	}

	mode, err := format.ParseCompressionMode(c.Compression)
	if err != nil {
		return format.FallbackMode, err
	}

	return mode, nil
}

const maxBufferSize = 1 << 30

func parseSize(s string) (datasize.ByteSize, error) {
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %q: %w", errs.ErrInvalidBufferSize, s, err)
	}

	return size, nil
}
