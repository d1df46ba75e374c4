// Command lhci-compare compares two Lighthouse report files and prints the
// per-category score changes.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/diff"
	"github.com/godilite/lhci-compare/internal/render"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var errUsage = errors.New("usage")

type options struct {
	comparePath string
	basePath    string
	format      string
	logLevel    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("lhci-compare", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.comparePath, "compare", "c", "", "path of the report to evaluate (required)")
	fs.StringVarP(&o.basePath, "base", "b", "", "path of the baseline report")
	fs.StringVarP(&o.format, "format", "f", formatTable, "output format: table or json")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level written to stderr")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.comparePath == "" {
		fs.Usage()
		return options{}, fmt.Errorf("%w: --compare is required", errUsage)
	}
	if o.format != formatTable && o.format != formatJSON {
		return options{}, fmt.Errorf("%w: unknown format %q", errUsage, o.format)
	}
	return o, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

func loadReports(o options, logger *zap.Logger) (compareReport, baseReport *comparison.Report, err error) {
	data, err := os.ReadFile(o.comparePath)
	if err != nil {
		return nil, nil, err
	}
	compareReport, err = comparison.ParseReport(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", o.comparePath, err)
	}

	if o.basePath == "" {
		logger.Info("no base report given, printing scores only")
		return compareReport, nil, nil
	}
	data, err = os.ReadFile(o.basePath)
	if err != nil {
		return nil, nil, err
	}
	baseReport, err = comparison.DecodeReport(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", o.basePath, err)
	}
	return compareReport, baseReport, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(o.logLevel, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	compareReport, baseReport, err := loadReports(o, logger)
	if err != nil {
		return err
	}

	items, err := diff.NewEngine().Compare(compareReport, baseReport)
	if err != nil {
		return err
	}
	logger.Debug("compared reports",
		zap.String("compare", o.comparePath),
		zap.String("base", o.basePath),
		zap.Int("categories", len(items)))

	if o.format == formatJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	render.Table(stdout, items)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "lhci-compare:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
