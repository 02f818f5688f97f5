package static

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"bartrix.dev/gtfs-tools/internal/common"
	"bartrix.dev/gtfs-tools/internal/config"
	"bartrix.dev/gtfs-tools/internal/logging"
)

type Config struct {
	Version bool

	// Optional .toml/.yaml file; static_zip/static_url are used when neither flag is given
	ConfigPath string

	// Input args - either can accept from zip or url (but not both)
	ZipPath string
	Url     string

	LogLevel string
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Configuration file (.toml or .yaml)")
	fs.StringVar(&cfg.ZipPath, "zip", "", "Path to a static GTFS zip")
	fs.StringVar(&cfg.Url, "url", "", "URL of a static GTFS zip")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level for stderr: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return Config{}, flag.ErrHelp
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

// ApplyFile only fills the source when no source flag was given, and the log
// level when -log-level was not given.
func (cfg *Config) ApplyFile(file config.File, explicit map[string]bool) {
	if !explicit["zip"] && !explicit["url"] {
		cfg.ZipPath = file.StaticZip
		cfg.Url = file.StaticURL
	}
	if file.LogLevel != "" && !explicit["log-level"] {
		cfg.LogLevel = file.LogLevel
	}
}

func (cfg Config) Validate() error {
	hasZipPath := cfg.ZipPath != ""
	hasUrl := cfg.Url != ""
	if hasZipPath == hasUrl {
		return fmt.Errorf("Exactly one of -zip or -url must be specified.")
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

func Main(programName string, args []string, stdOut, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg, stdOut, errOut)
}
