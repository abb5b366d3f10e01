package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-tiled-pathtracer/pkg/output"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "PATHTRACER_"

// Config holds render, output and upload settings. Zero render values
// mean "use the scene's own setting".
type Config struct {
	// Render
	Scene    string
	Width    int
	Samples  int
	Depth    int
	Workers  int
	Seed     int64
	Schedule renderer.Schedule

	// Output
	OutputDir  string
	OutputName string // Base file name; empty means <scene>_<timestamp>
	Format     output.Format
	ThumbSize  int

	// S3 upload, enabled when a bucket is set
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3UploadTimeout time.Duration
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Scene:           "default",
		Schedule:        renderer.ScheduleStatic,
		OutputDir:       "output",
		Format:          output.FormatPPM,
		S3Region:        "us-east-1",
		S3Prefix:        "renders",
		S3UploadTimeout: output.DefaultUploadTimeout,
	}
}

// Load reads rootDir/.env if present, then applies PATHTRACER_* environment
// variables over the defaults. Variables already set in the environment win
// over the .env file.
func Load(rootDir string) (Config, error) {
	_ = godotenv.Load(path.Join(rootDir, ".env"))

	cfg := Default()
	env := envReader{}

	cfg.Scene = env.getString("SCENE", cfg.Scene)
	cfg.Width = env.getInt("WIDTH", cfg.Width)
	cfg.Samples = env.getInt("SPP", cfg.Samples)
	cfg.Depth = env.getInt("DEPTH", cfg.Depth)
	cfg.Workers = env.getInt("WORKERS", cfg.Workers)
	cfg.Seed = env.getInt64("SEED", cfg.Seed)
	cfg.OutputDir = env.getString("OUTPUT_DIR", cfg.OutputDir)
	cfg.OutputName = env.getString("OUTPUT_NAME", cfg.OutputName)
	cfg.ThumbSize = env.getInt("THUMBNAIL", cfg.ThumbSize)

	cfg.S3AccessKey = env.getString("S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = env.getString("S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Endpoint = env.getString("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3Region = env.getString("S3_REGION", cfg.S3Region)
	cfg.S3Bucket = env.getString("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Prefix = env.getString("S3_PREFIX", cfg.S3Prefix)
	cfg.S3UploadTimeout = env.getDuration("S3_UPLOAD_TIMEOUT", cfg.S3UploadTimeout)

	if name, ok := env.lookup("SCHEDULE"); ok {
		schedule, err := renderer.ParseSchedule(name)
		if err != nil {
			env.errs = append(env.errs, err)
		}
		cfg.Schedule = schedule
	}
	if name, ok := env.lookup("FORMAT"); ok {
		format, err := output.ParseFormat(name)
		if err != nil {
			env.errs = append(env.errs, err)
		}
		cfg.Format = format
	}

	if err := env.err(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate clamps degenerate numeric values and rejects unknown enums
func (c *Config) Validate() error {
	c.Width = max(c.Width, 0)
	c.Samples = max(c.Samples, 0)
	c.Depth = max(c.Depth, 0)
	c.Workers = max(c.Workers, 0)
	c.ThumbSize = max(c.ThumbSize, 0)
	if c.S3UploadTimeout <= 0 {
		c.S3UploadTimeout = output.DefaultUploadTimeout
	}

	if strings.TrimSpace(c.Scene) == "" {
		return fmt.Errorf("scene name must not be empty")
	}
	if _, err := output.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Schedule != renderer.ScheduleStatic && c.Schedule != renderer.ScheduleQueue {
		return fmt.Errorf("unknown schedule %d", c.Schedule)
	}
	return nil
}

// S3Enabled reports whether frames should also be uploaded
func (c Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// S3 returns the upload settings for the output package
func (c Config) S3() output.S3Config {
	return output.S3Config{
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		Prefix:    c.S3Prefix,
	}
}

// ApplyCamera overrides the scene camera with any non-zero render settings
func (c Config) ApplyCamera(camera renderer.CameraConfig) renderer.CameraConfig {
	if c.Width > 0 {
		camera.ImageWidth = c.Width
	}
	if c.Samples > 0 {
		camera.SamplesPerPixel = c.Samples
	}
	if c.Depth > 0 {
		camera.MaxDepth = c.Depth
	}
	return camera
}

// ScheduleConfig returns the parallel render settings
func (c Config) ScheduleConfig() renderer.ScheduleConfig {
	return renderer.ScheduleConfig{
		Workers:  c.Workers,
		Seed:     c.Seed,
		Schedule: c.Schedule,
	}
}

// envReader looks up prefixed variables and collects parse errors
type envReader struct {
	errs []error
}

func (e *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (e *envReader) getString(key, fallback string) string {
	if value, ok := e.lookup(key); ok {
		return value
	}
	return fallback
}

func (e *envReader) getInt(key string, fallback int) int {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, value, err))
		return fallback
	}
	return n
}

func (e *envReader) getInt64(key string, fallback int64) int64 {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, value, err))
		return fallback
	}
	return n
}

func (e *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, value, err))
		return fallback
	}
	return d
}

func (e *envReader) err() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}
