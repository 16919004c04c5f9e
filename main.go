package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	console "github.com/phsym/console-slog"

	"github.com/telveo/xj/internal/config"
	"github.com/telveo/xj/internal/errors"
	"github.com/telveo/xj/internal/pipeline"
)

// CLI defines the command-line interface
var CLI struct {
	Input  string `arg:"" optional:"" help:"Input XML file, or a directory with -d." type:"path"`
	Output string `arg:"" optional:"" help:"Output JSON file ('-' for stdout). Ignored with -d."`

	Directory bool   `help:"Batch convert all XML files in the input directory." short:"d"`
	OutputDir string `help:"Output directory for batch conversion." type:"path"`

	NoRoot          bool   `help:"Do not preserve the root element as top-level key."`
	Compact         bool   `help:"Generate compact JSON without indentation."`
	StripNamespaces bool   `help:"Remove XML namespaces from element and attribute names."`
	NoMixedContent  bool   `help:"Do not preserve text within elements that have children."`
	EmptyAsNull     bool   `help:"Represent empty XML elements as null instead of empty objects."`
	KeyStyle        string `help:"Restyle output keys: snake, camel or pascal."`

	Config  string `help:"Path to a config file. Defaults to the nearest .xj.yml." type:"path"`
	Verbose bool   `help:"Enable verbose logging." short:"v"`
	Quiet   bool   `help:"Suppress all output except errors." short:"q"`
	Version bool   `help:"Show version information."`
}

// Version information
const (
	Version = "2.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("xj"),
		kong.Description("Convert XML documents to JSON"),
		kong.UsageOnError(),
	)

	_, err := cliParser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("xj version %s\n", Version)
		return
	}

	setupLogging(CLI.Verbose, CLI.Quiet)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: xj --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	if CLI.Input == "" {
		return errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts := cfg.Options()

	if CLI.Directory {
		return pipeline.ConvertDir(CLI.Input, CLI.OutputDir, opts)
	}
	return pipeline.ConvertFile(CLI.Input, CLI.Output, opts)
}

// loadConfig layers defaults, the config file, and environment overrides
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded config file", "path", path)
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides config values with explicitly set CLI toggles
func applyFlags(cfg *config.Config) {
	if CLI.NoRoot {
		cfg.PreserveRoot = false
	}
	if CLI.Compact {
		cfg.PrettyPrint = false
	}
	if CLI.StripNamespaces {
		cfg.StripNamespaces = true
	}
	if CLI.NoMixedContent {
		cfg.PreserveMixedContent = false
	}
	if CLI.EmptyAsNull {
		cfg.EmptyElementsAsNull = true
	}
	if CLI.KeyStyle != "" {
		cfg.KeyStyle = CLI.KeyStyle
	}
}

// setupLogging installs the console handler on the default slog logger
func setupLogging(verbose, quiet bool) {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	} else if verbose {
		level = slog.LevelDebug
	}
	handler := console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
