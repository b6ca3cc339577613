package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/config"
	"github.com/jask/photobooth/internal/export"
	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/prefs"
	"github.com/jask/photobooth/internal/session"
	"github.com/jask/photobooth/internal/share"
	"github.com/jask/photobooth/internal/tui"
)

type rootFlags struct {
	config string
	url    string
	camera string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:          "photobooth",
		Short:        "Terminal photobooth: pick a frame, take the shots, share the strip",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default $HOME/.config/photobooth/config.toml)")
	root.PersistentFlags().StringVar(&flags.camera, "camera", "", "camera driver: v4l2 or pattern")
	root.Flags().StringVar(&flags.url, "url", "", "location to start from, e.g. a scanned share link")

	root.AddCommand(newFramesCmd(), newOpenCmd(&flags), newSnapCmd(&flags), newConfigCmd(&flags))
	return root
}

// loadConfig applies the persistent flags on top of the loaded config.
func loadConfig(flags rootFlags) config.Config {
	if flags.config != "" {
		if err := os.Setenv("PHOTOBOOTH_CONFIG", flags.config); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if flags.camera != "" {
		cfg.Camera.Driver = flags.camera
	}
	return cfg
}

// openLogger sends structured logs to the configured file; the terminal
// belongs to the UI.
func openLogger(cfg config.LogConfig) (*slog.Logger, func()) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	if cfg.Path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { _ = f.Close() }
}

func newExporter(cfg config.Config, logger *slog.Logger) *export.Exporter {
	r, err := export.NewRasterizer(cfg.Export.Renderer, cfg.Export.Width, cfg.Export.Scale, cfg.Export.ChromeURL, logger)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	return &export.Exporter{Rasterizer: r, Dir: cfg.Export.Dir, Prefix: cfg.Export.Prefix, Logger: logger}
}

func newDevice(cfg config.Config) camera.Device {
	dev, err := camera.New(cfg.Camera.Driver, camera.Settings{
		Device: cfg.Camera.Device,
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
	})
	if err != nil {
		log.Fatalf("camera: %v", err)
	}
	return dev
}

func runTUI(ctx context.Context, flags rootFlags) error {
	cfg := loadConfig(flags)
	logger, closeLog := openLogger(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	var loc session.Location
	if flags.url != "" {
		l, err := session.ParseLocation(flags.url)
		if err != nil {
			log.Fatalf("url: %v", err)
		}
		loc = l
	}

	store, err := prefs.DefaultStore()
	if err != nil {
		logger.Warn("prefs unavailable", "error", err)
		store = nil
	}

	codec := share.NewCodec()
	ctrl := session.New(frame.Default(), codec, logger)
	app := tui.New(ctx, tui.Options{
		Session:  ctrl,
		Location: loc,
		Camera:   newDevice(cfg),
		Exporter: newExporter(cfg, logger),
		Codec:    codec,
		QR:       share.NewQR(),
		BaseURL:  cfg.Share.BaseURL,
		Quality:  cfg.Camera.Quality,
		Logger:   logger,
		Prefs:    store,
	})

	logger.Info("photobooth starting", "camera", cfg.Camera.Driver, "renderer", cfg.Export.Renderer)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		return err
	}
	return nil
}
