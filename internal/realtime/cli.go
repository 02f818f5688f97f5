package realtime

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"bartrix.dev/gtfs-tools/internal/common"
	"bartrix.dev/gtfs-tools/internal/config"
	"bartrix.dev/gtfs-tools/internal/logging"
)

type Config struct {
	Version bool

	// Optional .toml/.yaml file; explicit flags win over its values
	ConfigPath string

	Url           string
	Format        string
	LogLevel      string
	TelemetryAddr string
	DumpMetrics   bool
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "With no options, prints every entity of the BART trip update feed.")
		fmt.Fprintln(errOut, "\nOptions")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Configuration file (.toml or .yaml)")
	fs.StringVar(&cfg.Url, "url", DefaultFeedURL, "GTFS-RT feed URL or local snapshot path")
	fs.StringVar(&cfg.Format, "format", FormatText, "Output format: "+strings.Join(Formats, "|"))
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level for stderr: debug|info|warn|error")
	fs.StringVar(&cfg.TelemetryAddr, "telemetry", "", "Serve /metrics and pprof on this address while running")
	fs.BoolVar(&cfg.DumpMetrics, "metrics", false, "Dump Prometheus metrics to stderr before exiting")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return cfg, flag.ErrHelp
	}

	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if cfg.ConfigPath != "" {
		fileCfg, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg.ApplyFile(fileCfg, setFlags(fs))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// ApplyFile copies non-empty file values over fields whose flag was not given.
func (cfg *Config) ApplyFile(file config.File, explicit map[string]bool) {
	if file.FeedURL != "" && !explicit["url"] {
		cfg.Url = file.FeedURL
	}
	if file.Format != "" && !explicit["format"] {
		cfg.Format = file.Format
	}
	if file.LogLevel != "" && !explicit["log-level"] {
		cfg.LogLevel = file.LogLevel
	}
	if file.Telemetry != "" && !explicit["telemetry"] {
		cfg.TelemetryAddr = file.Telemetry
	}
}

func (cfg Config) Validate() error {
	var result *multierror.Error

	if cfg.Url == "" {
		result = multierror.Append(result, errors.New("feed url must not be empty"))
	}
	if _, err := NewPrinter(cfg.Format); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func Main(programName string, args []string, out, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg, out, errOut)
}
