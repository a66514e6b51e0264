// Command chronoplan compares chronological Bible reading plans.
// It manages the plan store, diffs plans, looks up historical contexts,
// converts dates between chronologies and serves the REST API.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/chronoplan/internal/config"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
)

const version = "0.4.0"

// Globals are flags shared by every command. Empty values leave the config
// file setting in place.
type Globals struct {
	Config    string `name:"config" short:"c" help:"Configuration file." env:"CHRONOPLAN_CONFIG" default:"${config_path}"`
	DB        string `name:"db" help:"SQLite database path (overrides config; empty serves the built-in plans from memory)." env:"CHRONOPLAN_DB"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error." env:"CHRONOPLAN_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format: text or json." env:"CHRONOPLAN_LOG_FORMAT"`
	LogFile   string `name:"log-file" help:"Also write logs to this file, rotated by size." env:"CHRONOPLAN_LOG_FILE"`
}

// CLI defines the command-line interface for chronoplan.
type CLI struct {
	Globals

	Plans       PlansGroup     `cmd:"" help:"Plan store operations (list, show, validate, import, export, seed, delete)"`
	Compare     CompareCmd     `cmd:"" help:"Compare two plans day by day"`
	CompareAll  CompareAllCmd  `cmd:"" name:"compare-all" help:"Summarize differences between every pair of plans"`
	Context     ContextCmd     `cmd:"" help:"Show the historical context of a chapter"`
	ConvertDate ConvertDateCmd `cmd:"" name:"convert-date" help:"Convert a date between dating systems"`
	Parallels   ParallelsCmd   `cmd:"" help:"Annotate a plan with parallel passages"`
	Serve       ServeCmd       `cmd:"" help:"Start the REST API server"`
	Settings    ConfigGroup    `cmd:"" name:"config" help:"Configuration file helpers"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// PlansGroup contains plan store operations.
type PlansGroup struct {
	List     PlansListCmd     `cmd:"" help:"List stored plans"`
	Show     PlansShowCmd     `cmd:"" help:"Show a plan's readings"`
	Validate PlansValidateCmd `cmd:"" help:"Validate a stored plan or a plan file"`
	Import   PlansImportCmd   `cmd:"" help:"Import plan files or bundles into the store"`
	Export   PlansExportCmd   `cmd:"" help:"Export plans to a file or bundle"`
	Seed     PlansSeedCmd     `cmd:"" help:"Load the built-in plans into the store"`
	Delete   PlansDeleteCmd   `cmd:"" help:"Remove a plan from the store"`
}

// ConfigGroup contains configuration file helpers.
type ConfigGroup struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
	Init ConfigInitCmd `cmd:"" help:"Write a default configuration file"`
}

func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("chronoplan"),
		kong.Description("chronoplan - compare chronological Bible reading plans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"config_path": config.DefaultPath},
		kong.Writers(stdout, stderr),
	)
}

// execute loads configuration, installs the logger and runs the selected
// command against a fresh App.
func execute(kctx *kong.Context, cli *CLI, stdout, stderr io.Writer) error {
	cfg, err := config.Load(cli.Globals.Config)
	if err != nil {
		return err
	}
	if err := cli.Globals.apply(cfg); err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logCloser := logging.Setup(logging.Options{
		Level:      level,
		Format:     format,
		Output:     stderr,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer logCloser.Close()

	app := NewApp(stdout, cfg)
	defer app.Close()

	return kctx.Run(app)
}

// apply overlays non-empty flags on cfg and revalidates it.
func (g *Globals) apply(cfg *config.Config) error {
	if g.DB != "" {
		cfg.Database = g.DB
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	return cfg.Validate()
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Stderr)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = execute(kctx, &cli, os.Stdout, os.Stderr)
	kctx.FatalIfErrorf(err)
}
