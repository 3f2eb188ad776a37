// Package main runs the SPC engine over a CSV file and writes the decorated
// table for charting.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sartorproj/plotthedots/spc"
	"github.com/sartorproj/plotthedots/timeseries"
)

// Settings are read from the environment, after an optional .env file.
type Settings struct {
	Input          string `env:"SPC_INPUT"`
	Options        string `env:"SPC_OPTIONS"`
	Output         string `env:"SPC_OUTPUT"`                   // Empty writes to stdout
	Format         string `env:"SPC_FORMAT" envDefault:"csv"` // csv or json
	DateColumn     string `env:"SPC_DATE_COLUMN" envDefault:"date"`
	ValueColumn    string `env:"SPC_VALUE_COLUMN" envDefault:"value"`
	CategoryColumn string `env:"SPC_CATEGORY_COLUMN"`
	DateFormat     string `env:"SPC_DATE_FORMAT" envDefault:"2006-01-02"`
	Watch          bool   `env:"SPC_WATCH"`
	Debug          bool   `env:"SPC_DEBUG"`
}

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	var settings Settings
	if err := env.Parse(&settings); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(settings.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if settings.Input == "" {
		useSample(&settings, findSample())
		log.Infow("SPC_INPUT not set, using bundled sample", "input", settings.Input)
	}

	if err := run(settings, log); err != nil {
		reportError(log, err)
		if !settings.Watch {
			os.Exit(1)
		}
	}

	if settings.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		paths := []string{settings.Input}
		if settings.Options != "" {
			paths = append(paths, settings.Options)
		}
		err := watch(ctx, paths, log, func() {
			if err := run(settings, log); err != nil {
				reportError(log, err)
			}
		})
		if err != nil {
			log.Fatalw("watch failed", "err", err)
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run loads the input and options, computes the table and writes it.
func run(settings Settings, log *zap.SugaredLogger) error {
	cfg := spc.DefaultConfig()
	if settings.Options != "" {
		var err error
		if cfg, err = spc.LoadOptions(settings.Options); err != nil {
			return err
		}
	}

	opts := &timeseries.CSVOptions{
		DateColumn:     settings.DateColumn,
		ValueColumn:    settings.ValueColumn,
		CategoryColumn: settings.CategoryColumn,
		DateFormat:     settings.DateFormat,
		Delimiter:      ',',
	}
	obs, err := timeseries.LoadCSV(settings.Input, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", settings.Input, err)
	}

	engine, err := spc.New(cfg, spc.WithLogger(log))
	if err != nil {
		return err
	}
	result, err := engine.Run(obs)
	if err != nil {
		return err
	}

	for _, s := range result.Summaries() {
		log.Infow("category computed",
			"category", s.Category.String(),
			"points", s.Points,
			"baselines", s.Segments,
			"improvement", s.Improvement,
			"concern", s.Concern,
		)
	}

	return writeResult(settings, result)
}

func writeResult(settings Settings, result *spc.Result) error {
	var w io.Writer = os.Stdout
	if settings.Output != "" {
		f, err := os.Create(settings.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(settings.Format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Rows)
	case "csv":
		return result.WriteCSV(w)
	default:
		return fmt.Errorf("unknown SPC_FORMAT %q", settings.Format)
	}
}

func reportError(log *zap.SugaredLogger, err error) {
	var cerr *spc.ConfigurationError
	if errors.As(err, &cerr) {
		for _, v := range cerr.Violations() {
			log.Errorw("configuration violation", "err", v)
		}
		return
	}
	log.Errorw("spc run failed", "err", err)
}

// useSample points settings at the bundled sample, filling only what the
// user left unset.
func useSample(settings *Settings, input string) {
	settings.Input = input
	if settings.CategoryColumn == "" {
		settings.CategoryColumn = "site"
	}
	if settings.Options == "" {
		settings.Options = filepath.Join(filepath.Dir(input), "options.yaml")
	}
}

// findSample locates the bundled sample data
func findSample() string {
	for _, p := range []string{"data", "./demo/data", "../demo/data"} {
		path := filepath.Join(p, "admissions.csv")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join("data", "admissions.csv")
}
