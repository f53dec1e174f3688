package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/svanichkin/pngview"
	"github.com/svanichkin/pngview/internal/config"
	"github.com/svanichkin/pngview/internal/logging"
	"github.com/svanichkin/pngview/internal/present"
)

func main() {
	logging.Init(os.Stderr)
	defer logging.LogPanics(nil)

	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Default()
	var logLevel string

	rootCommand := &cobra.Command{
		Use:           "pngview <file.png>",
		Short:         "Decode a PNG file and show what it contains",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				lvl, err := zerolog.ParseLevel(logLevel)
				if err != nil {
					return fmt.Errorf("bad --log-level: %w", err)
				}
				cfg.LogLevel = lvl
			}
			logging.SetLevel(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeAndPresent(stderr, args[0], cfg, present.Summary{W: stdout})
		},
	}
	rootCommand.SetOut(stdout)
	rootCommand.SetErr(stderr)

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides "+config.EnvLogLevel)
	flags.BoolVar(&cfg.Strict, "strict", cfg.Strict, "require IEND to be the last chunk and the exact amount of pixel data")
	flags.IntVar(&cfg.MaxPixels, "max-pixels", cfg.MaxPixels, "refuse images with more pixels than this")

	showCommand := &cobra.Command{
		Use:   "show <file.png>",
		Short: "Decode a PNG file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeAndPresent(stderr, args[0], cfg, present.Summary{W: stdout})
		},
	}

	infoCommand := &cobra.Command{
		Use:   "info <file.png>",
		Short: "Print the header fields and chunk table without decoding pixels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printInfo(stdout, stderr, args[0], cfg)
		},
	}

	var format string
	exportCommand := &cobra.Command{
		Use:   "export <file.png>",
		Short: "Decode a PNG file and write it as a bitmap or raw pixel dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Format = config.Format(format)
			if !cfg.Format.Valid() {
				return report(stderr, fmt.Errorf("unknown format %q (want %s or %s)", format, config.FormatBMP, config.FormatRaw))
			}
			var p present.Presenter
			switch cfg.Format {
			case config.FormatRaw:
				p = &present.RawExporter{Dir: cfg.OutDir}
			default:
				p = &present.BMPExporter{Dir: cfg.OutDir, Scale: cfg.Scale}
			}
			if err := decodeAndPresent(stderr, args[0], cfg, p); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Exported %s → %s\n", args[0], present.OutputPath(cfg.OutDir, present.DisplayName(args[0]), cfg.Format.Ext()))
			return nil
		},
	}
	exportCommand.Flags().StringVarP(&format, "format", "f", string(cfg.Format), "output format: bmp or raw")
	exportCommand.Flags().Float64Var(&cfg.Scale, "scale", cfg.Scale, "resize factor for bmp output")
	exportCommand.Flags().StringVarP(&cfg.OutDir, "out", "o", cfg.OutDir, "output directory (default: current directory)")

	rootCommand.AddCommand(showCommand, infoCommand, exportCommand)
	return rootCommand
}

func decodeOptions(cfg config.PngViewConfig) *pngview.Options {
	return &pngview.Options{Strict: cfg.Strict, MaxPixels: cfg.MaxPixels}
}

// decodeAndPresent decodes path and hands the image to p. Nothing is
// presented when decoding fails.
func decodeAndPresent(stderr io.Writer, path string, cfg config.PngViewConfig, p present.Presenter) error {
	img, err := pngview.DecodeFile(path, decodeOptions(cfg))
	if err != nil {
		return report(stderr, err)
	}
	if err := p.Present(present.DisplayName(path), img); err != nil {
		return report(stderr, err)
	}
	return nil
}

func printInfo(stdout, stderr io.Writer, path string, cfg config.PngViewConfig) error {
	data, err := pngview.ReadFile(path)
	if err != nil {
		return report(stderr, err)
	}
	meta, err := pngview.DecodeConfig(data)
	if err != nil {
		return report(stderr, err)
	}
	chunks, err := pngview.ReadChunks(data, decodeOptions(cfg))
	if err != nil {
		return report(stderr, err)
	}

	fmt.Fprintf(stdout, "%s: %s\n", present.DisplayName(path), meta)
	fmt.Fprintf(stdout, "compression=%d filter=%d interlace=%d\n", meta.CompressionMethod, meta.FilterMethod, meta.InterlaceMethod)
	fmt.Fprintf(stdout, "PNG contains %d chunk(s)\n", len(chunks))

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLENGTH\tCRC\tCRITICAL")
	for _, c := range chunks {
		fmt.Fprintf(tw, "%s\t%d\t%08x\t%v\n", c.Type, c.Length, c.CRC, c.Type.Critical())
	}
	return tw.Flush()
}

// report prints the failure kind for the user and logs the full error.
func report(stderr io.Writer, err error) error {
	kind := pngview.Kind(err)
	if kind == nil {
		kind = err
	}
	fmt.Fprintln(stderr, "decode error:", kind)
	logging.Error().Err(err).Msg("pngview failed")
	return err
}
