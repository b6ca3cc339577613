package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/photobooth/internal/capture"
	"github.com/jask/photobooth/internal/config"
	"github.com/jask/photobooth/internal/export"
	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/session"
	"github.com/jask/photobooth/internal/share"
)

func newFramesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frames",
		Short: "List the available frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printFrames(cmd.OutOrStdout(), frame.Default())
		},
	}
}

func printFrames(w io.Writer, c *frame.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSHOTS\tCATEGORY\tLAYOUT\tNAME")
	for _, f := range c.All() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", f.ID, f.Shots, f.Category, f.Layout, f.Name)
	}
	return tw.Flush()
}

func newOpenCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Decode a share link and save its strip as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*flags)
			logger, closeLog := openLogger(cfg.Log)
			defer closeLog()

			strip, err := decodeLink(frame.Default(), share.NewCodec(), args[0])
			if err != nil {
				return err
			}
			path, err := newExporter(cfg, logger).Download(cmd.Context(), strip)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// decodeLink turns a share link into a strip, suggesting the closest frame
// when the link names one the catalog does not have.
func decodeLink(c *frame.Catalog, codec *share.Codec, raw string) (export.Strip, error) {
	loc, err := session.ParseLocation(raw)
	if err != nil {
		return export.Strip{}, err
	}
	payload, err := codec.Decode(loc.Fragment())
	if err != nil {
		return export.Strip{}, fmt.Errorf("decode share link: %w", err)
	}
	f, ok := c.Lookup(payload.FrameID)
	if !ok {
		err := fmt.Errorf("%w: %q", session.ErrUnknownFrame, payload.FrameID)
		if s, ok := c.Suggest(payload.FrameID); ok {
			err = fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return export.Strip{}, err
	}
	return export.Strip{Frame: f, Photos: payload.Photos}, nil
}

func newSnapCmd(flags *rootFlags) *cobra.Command {
	var frameID string
	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Capture a strip without the UI and print its share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(*flags)
			logger, closeLog := openLogger(cfg.Log)
			defer closeLog()

			cat := frame.Default()
			f, ok := cat.Lookup(frameID)
			if !ok {
				if s, ok := cat.Suggest(frameID); ok {
					return fmt.Errorf("%w: %q (did you mean %q?)", session.ErrUnknownFrame, frameID, s)
				}
				return fmt.Errorf("%w: %q", session.ErrUnknownFrame, frameID)
			}

			progress := cmd.ErrOrStderr()
			r := &capture.Runner{
				Device:  newDevice(cfg),
				Quality: cfg.Camera.Quality,
				Logger:  logger,
				Observe: func(s *capture.Sequencer) {
					switch {
					case s.Countdown() > 0:
						fmt.Fprintf(progress, "%d...\n", s.Countdown())
					case s.State() == capture.StateCapturing:
						fmt.Fprintf(progress, "Snap! (%d/%d)\n", s.Count()+1, s.Shots())
					}
				},
			}
			photos, err := r.Run(cmd.Context(), f.Shots)
			if err != nil {
				return err
			}

			strip := export.Strip{Frame: f, Photos: photos}
			exp := newExporter(cfg, logger)
			path, err := exp.Download(cmd.Context(), strip)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)

			link, err := share.NewCodec().Link(cfg.Share.BaseURL, f.ID, photos)
			if err != nil {
				logger.Warn("share link unavailable", "error", err)
				fmt.Fprintf(progress, "share link unavailable: %v\n", err)
				return nil
			}
			fmt.Fprintln(out, link)
			if err := saveShareCode(out, progress, exp, share.NewQR(), link, cfg.Share.QRSize); err != nil {
				fmt.Fprintf(progress, "qr: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&frameID, "frame", "normal-4-grid", "frame id (see photobooth frames)")
	return cmd
}

// saveShareCode saves link's code as a size pixel PNG next to the strip and
// prints it to the terminal. A link too long for a code is only reported.
func saveShareCode(out, progress io.Writer, exp *export.Exporter, qr share.Coder, link string, size int) error {
	bm, err := qr.Bitmap(link)
	if errors.Is(err, share.ErrTooLong) {
		fmt.Fprintf(progress, "share link is too long for a QR code (%d bytes)\n", len(link))
		return nil
	}
	if err != nil {
		return err
	}
	img, err := qr.Image(link, size)
	if err != nil {
		return err
	}
	path, err := exp.SaveQR(img)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	fmt.Fprintln(out, share.Terminal(bm))
	return nil
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(*flags)
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if flags.config != "" {
				fmt.Fprintln(cmd.OutOrStdout(), flags.config)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
