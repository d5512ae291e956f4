package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/jivevec/internal/audio"
	"github.com/linuxmatters/jivevec/internal/cli"
	"github.com/linuxmatters/jivevec/internal/config"
	"github.com/linuxmatters/jivevec/internal/extract"
	"github.com/linuxmatters/jivevec/internal/renderer"
	"github.com/linuxmatters/jivevec/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // decode or compute failure
	exitUsage   = 2 // bad arguments
)

// versionFlag prints the styled version and exits before argument validation
type versionFlag bool

func (versionFlag) BeforeReset(app *kong.Kong, _ kong.Vars) error {
	cli.PrintVersion(version)
	app.Exit(exitOK)
	return nil
}

var CLI struct {
	Catalog   string      `help:"YAML catalog replacing the built-in configurations" type:"existingfile" placeholder:"FILE"`
	Format    string      `help:"Output format: text, json or yaml" enum:"text,json,yaml" default:"text"`
	Precision int         `help:"Significant digits in text output" default:"8"`
	Verbose   bool        `short:"v" help:"Log pipeline progress to stderr"`
	Version   versionFlag `help:"Show version information"`

	Extract extractCmd `cmd:"" default:"withargs" help:"Print the feature vector of one audio file"`
	Batch   batchCmd   `cmd:"" help:"Vectorise many files concurrently"`
	Configs configsCmd `cmd:"" help:"List the extraction configurations"`
	Info    infoCmd    `cmd:"" help:"Show format, duration and levels of an audio file"`
	Plot    plotCmd    `cmd:"" help:"Render a file's feature matrix as a PNG heatmap"`
	Tone    toneCmd    `cmd:"" help:"Write a sine test tone as 16-bit WAV"`
}

// runtime is shared by every command
type runtime struct {
	catalog   config.Catalog
	logger    *slog.Logger
	format    string
	precision int
}

// usageError marks failures caused by bad arguments
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// batchFailed reports that some files in a batch could not be vectorised
type batchFailed struct {
	failed, total int
}

func (e batchFailed) Error() string {
	return fmt.Sprintf("%d of %d files failed", e.failed, e.total)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	parser, err := kong.New(&CLI,
		kong.Name("jivevec"),
		kong.Description("Turn audio files into fixed-length MFCC feature vectors."),
		kong.Vars{"version": version},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)
	if err != nil {
		cli.PrintError(err.Error())
		return exitFailure
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		cli.PrintError(err.Error())
		fmt.Fprintln(os.Stderr, "Run 'jivevec --help' for usage.")
		return exitUsage
	}

	rt, err := newRuntime()
	if err != nil {
		cli.PrintError(err.Error())
		return exitUsage
	}

	return exitCode(os.Stderr, ctx.Run(rt))
}

func newRuntime() (*runtime, error) {
	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	rt := &runtime{
		catalog:   config.Builtin(),
		logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		format:    CLI.Format,
		precision: CLI.Precision,
	}

	if CLI.Precision <= 0 {
		return nil, fmt.Errorf("invalid precision %d (must be positive)", CLI.Precision)
	}

	if CLI.Catalog != "" {
		catalog, err := config.LoadCatalog(CLI.Catalog)
		if err != nil {
			return nil, err
		}
		rt.catalog = catalog
		rt.logger.Debug("loaded catalog", "path", CLI.Catalog, "entries", catalog.Len())
	}

	return rt, nil
}

// exitCode reports a command error on w and maps it to the process exit
// status. Extraction errors are also logged by the extractor.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	cli.FprintError(w, err.Error())

	var extErr *extract.Error
	if errors.As(err, &extErr) {
		if extErr.Kind == extract.KindConfigIndexOutOfRange {
			return exitUsage
		}
		return exitFailure
	}

	var usage usageError
	if errors.As(err, &usage) {
		return exitUsage
	}
	return exitFailure
}

func (rt *runtime) extractor(logger *slog.Logger) *extract.Extractor {
	return extract.New(extract.Config{Catalog: &rt.catalog, Logger: logger})
}

type extractCmd struct {
	Path  string `arg:"" help:"Audio file (WAV, MP3 or FLAC)"`
	Index int    `arg:"" optional:"" default:"0" help:"Configuration index"`
}

func (c *extractCmd) Run(rt *runtime) error {
	vec, err := rt.extractor(rt.logger).Extract(c.Path, c.Index)
	if err != nil {
		return err
	}
	return cli.WriteVector(os.Stdout, rt.format, rt.precision, cli.NewRecord(c.Path, c.Index, vec))
}

type batchCmd struct {
	Paths    []string `arg:"" help:"Audio files to vectorise"`
	Config   int      `short:"c" help:"Configuration index" default:"0"`
	Workers  int      `short:"w" help:"Concurrent extractions" default:"4"`
	Progress bool     `short:"p" help:"Show a progress display on stderr"`
}

func (c *batchCmd) Run(rt *runtime) error {
	cfg, err := rt.catalog.Lookup(c.Config)
	if err != nil {
		return usageError{fmt.Errorf("--config %d: %w", c.Config, err)}
	}
	if c.Workers <= 0 {
		return usageError{fmt.Errorf("invalid worker count %d (must be positive)", c.Workers)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	var results []extract.Result

	if c.Progress {
		results, err = c.runWithProgress(ctx, rt, cfg)
		if err != nil {
			return err
		}
	} else {
		results = rt.extractor(rt.logger).ExtractBatch(ctx, c.Paths, c.Config, c.Workers, nil)
	}

	var records []cli.Record
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		records = append(records, cli.NewRecord(r.Path, c.Config, r.Vector))
	}

	if err := cli.WriteRecords(os.Stdout, rt.format, rt.precision, records); err != nil {
		return err
	}

	if !c.Progress && len(c.Paths) > 1 {
		cli.PrintBatchSummary(len(records), failed, time.Since(start))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	if failed > 0 {
		return batchFailed{failed: failed, total: len(c.Paths)}
	}
	return nil
}

// runWithProgress drives the batch from a goroutine while Bubbletea renders
// on stderr. Failures are listed by the UI, so the extractor logs nothing.
func (c *batchCmd) runWithProgress(ctx context.Context, rt *runtime, cfg config.Extraction) ([]extract.Result, error) {
	model := ui.NewModel(len(c.Paths), c.Config, cfg.Description)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	// Quitting the UI early cancels the remaining files
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	quiet := slog.New(slog.DiscardHandler)
	done := make(chan []extract.Result, 1)

	go func() {
		start := time.Now()
		results := rt.extractor(quiet).ExtractBatch(batchCtx, c.Paths, c.Config, c.Workers, func(r extract.Result) {
			p.Send(ui.FileDone{Path: r.Path, Vector: r.Vector, Err: r.Err})
		})

		succeeded := 0
		for _, r := range results {
			if r.Err == nil {
				succeeded++
			}
		}
		p.Send(ui.BatchComplete{
			Succeeded: succeeded,
			Failed:    len(results) - succeeded,
			Duration:  time.Since(start),
		})
		done <- results
	}()

	_, err := p.Run()
	cancel()
	results := <-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("running UI: %w", err)
	}
	return results, nil
}

type configsCmd struct{}

func (c *configsCmd) Run(rt *runtime) error {
	cli.PrintHeader(os.Stdout, fmt.Sprintf("Extraction configurations (%d)", rt.catalog.Len()))
	fmt.Println(cli.CatalogTable(rt.catalog.All()))
	return nil
}

type infoCmd struct {
	Path string `arg:"" help:"Audio file (WAV, MP3 or FLAC)"`
}

func (c *infoCmd) Run(rt *runtime) error {
	md, err := audio.Probe(c.Path)
	if err != nil {
		return err
	}

	// Levels need the samples, so decode at the native rate
	wave, err := audio.Load(c.Path, 0)
	if err != nil {
		return err
	}
	levels := audio.MeasureLevels(wave.Samples)

	cli.PrintHeader(os.Stdout, filepath.Base(c.Path))
	cli.PrintInfo("Format", string(md.Format))
	cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", md.SampleRate))
	cli.PrintInfo("Channels", fmt.Sprintf("%d", md.Channels))
	cli.PrintInfo("Duration", fmt.Sprintf("%.2fs", wave.Duration()))

	cli.PrintHeader(os.Stdout, "Levels")
	cli.PrintInfo("Peak level", fmt.Sprintf("%.1f dBFS", levels.PeakDB()))
	cli.PrintInfo("RMS level", fmt.Sprintf("%.1f dBFS", levels.RMSDB()))
	cli.PrintInfo("Dynamic range", fmt.Sprintf("%.1f dB", levels.DynamicRange()))

	rt.logger.Debug("probed", "path", c.Path, "declared_samples", md.NumSamples, "decoded_samples", len(wave.Samples))
	return nil
}

type plotCmd struct {
	Path   string `arg:"" help:"Audio file (WAV, MP3 or FLAC)"`
	Output string `arg:"" help:"Output PNG file"`
	Index  int    `arg:"" optional:"" default:"0" help:"Configuration index"`
}

func (c *plotCmd) Run(rt *runtime) error {
	features, cfg, err := rt.extractor(rt.logger).Features(c.Path, c.Index)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s  |  configuration %d", filepath.Base(c.Path), c.Index)
	if cfg.Description != "" {
		title += ": " + cfg.Description
	}

	if err := renderer.RenderFeatureMatrix(c.Output, features, title); err != nil {
		return err
	}

	rows, cols := features.Dims()
	rt.logger.Info("wrote heatmap", "path", c.Output, "features", rows, "frames", cols)
	return nil
}

type toneCmd struct {
	Output  string  `arg:"" help:"Output WAV file"`
	Freq    float64 `help:"Frequency in Hz" default:"440"`
	Seconds float64 `help:"Duration in seconds" default:"3"`
	Rate    int     `help:"Sample rate in Hz" default:"44100"`
}

func (c *toneCmd) Run(rt *runtime) error {
	if c.Freq <= 0 || c.Seconds <= 0 || c.Rate <= 0 {
		return usageError{errors.New("--freq, --seconds and --rate must be positive")}
	}
	if c.Freq >= float64(c.Rate)/2 {
		return usageError{fmt.Errorf("frequency %.0f Hz is not below Nyquist for %d Hz", c.Freq, c.Rate)}
	}

	wave := audio.Sine(c.Freq, c.Seconds, c.Rate, 0.5)
	if err := audio.WriteWAV(c.Output, wave, 16); err != nil {
		return err
	}

	rt.logger.Info("wrote tone", "path", c.Output, "frequency", c.Freq, "duration", wave.Duration())
	return nil
}
