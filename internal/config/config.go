package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Camera CameraConfig
	Share  ShareConfig
	Export ExportConfig
	Log    LogConfig
}

// CameraConfig selects and tunes the capture device.
type CameraConfig struct {
	Driver  string
	Device  string
	Width   int
	Height  int
	Quality int
}

// ShareConfig holds share link settings.
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
	QRSize  int    `mapstructure:"qr_size"`
}

// ExportConfig holds composite download settings.
type ExportConfig struct {
	Dir       string
	Prefix    string
	Renderer  string
	Scale     int
	Width     int
	ChromeURL string `mapstructure:"chrome_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string
	Level string
}

// Path returns the config file location. PHOTOBOOTH_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("PHOTOBOOTH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "photobooth", "config.toml")
}

// Load reads configuration from .env, file and env. Env var overrides use prefix PHOTOBOOTH_.
func Load() (Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("camera.driver", "v4l2")
	v.SetDefault("camera.device", "/dev/video0")
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.quality", 92)
	v.SetDefault("share.base_url", "https://photobooth.local/")
	v.SetDefault("share.qr_size", 180)
	v.SetDefault("export.dir", filepath.Join(home, "Pictures"))
	v.SetDefault("export.prefix", "swayn-photobooth")
	v.SetDefault("export.renderer", "canvas")
	v.SetDefault("export.scale", 2)
	v.SetDefault("export.width", 384)
	v.SetDefault("export.chrome_url", "")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "photobooth", "photobooth.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("PHOTOBOOTH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("camera.driver", cfg.Camera.Driver)
	v.Set("camera.device", cfg.Camera.Device)
	v.Set("camera.width", cfg.Camera.Width)
	v.Set("camera.height", cfg.Camera.Height)
	v.Set("camera.quality", cfg.Camera.Quality)
	v.Set("share.base_url", cfg.Share.BaseURL)
	v.Set("share.qr_size", cfg.Share.QRSize)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.prefix", cfg.Export.Prefix)
	v.Set("export.renderer", cfg.Export.Renderer)
	v.Set("export.scale", cfg.Export.Scale)
	v.Set("export.width", cfg.Export.Width)
	v.Set("export.chrome_url", cfg.Export.ChromeURL)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
