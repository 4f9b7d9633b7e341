package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openclimatedata/ghgdash/internal/config"
	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/export"
	"github.com/openclimatedata/ghgdash/internal/mcp"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/session"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "notes":
		if err := runNotes(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("ghgdash %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// cliOptions are the flags shared by serve, export, and notes.
type cliOptions struct {
	configPath string
	dataset    string
	notesDB    string
	port       string
	country    string
	testData   bool
	out        string
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	i := 0
	next := func(flag string) (string, error) {
		i++
		if i >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i], nil
	}
	for ; i < len(args); i++ {
		var err error
		switch arg := args[i]; {
		case arg == "--config":
			opts.configPath, err = next(arg)
		case arg == "--dataset":
			opts.dataset, err = next(arg)
		case arg == "--notes-db":
			opts.notesDB, err = next(arg)
		case arg == "--port":
			opts.port, err = next(arg)
		case arg == "--country":
			opts.country, err = next(arg)
		case arg == "--out":
			opts.out, err = next(arg)
		case arg == "--test-data":
			opts.testData = true
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown flag: %s", arg)
		default:
			return opts, fmt.Errorf("unexpected argument: %s", arg)
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func resolve(opts cliOptions) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath: opts.configPath,
		CLIDataset: opts.dataset,
		CLINotesDB: opts.notesDB,
		CLIPort:    opts.port,
		CLICountry: opts.country,
	})
}

// openStore loads the dataset named by the resolved configuration, or the
// built-in synthetic fixture when --test-data is set.
func openStore(opts cliOptions, cfg config.ResolvedConfig) (*dataset.Store, error) {
	if opts.testData {
		return dataset.Fixture(), nil
	}
	path := cfg.DatasetPath.Value
	if path == "" {
		return nil, fmt.Errorf("no dataset configured; pass --dataset, set GHGDASH_DATASET, or use --test-data")
	}
	store, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return store, nil
}

func notesPath(cfg config.ResolvedConfig, store *dataset.Store) string {
	if cfg.NotesDBPath.Value != "" {
		return cfg.NotesDBPath.Value
	}
	return notes.PathForDataset(store.Path())
}

func newSession(store *dataset.Store, noteStore *notes.Store, cfg config.ResolvedConfig) (*session.Session, error) {
	return session.New(store, noteStore, session.Config{
		DefaultCountry:  cfg.DefaultCountry.Value,
		DefaultCategory: cfg.DefaultCategory.Value,
		DefaultEntity:   cfg.DefaultEntity.Value,
	})
}

func runServe(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := resolve(opts)
	if err != nil {
		return err
	}

	store, err := openStore(opts, cfg)
	if err != nil {
		return err
	}

	noteStore, err := notes.Open(notesPath(cfg, store))
	if err != nil {
		return err
	}
	defer noteStore.Close()

	sess, err := newSession(store, noteStore, cfg)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Session: sess,
		Store:   store,
		Notes:   noteStore,
		Version: version,
	})

	fmt.Fprintf(os.Stderr, "ghgdash %s serving on stdio (%d areas, %d years, %d variables)\n",
		version, len(store.Areas()), len(store.Years()), len(store.Entities()))
	return mcpserver.ServeStdio(srv)
}

func runExport(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := resolve(opts)
	if err != nil {
		return err
	}

	store, err := openStore(opts, cfg)
	if err != nil {
		return err
	}

	sess, err := newSession(store, nil, cfg)
	if err != nil {
		return err
	}

	tbl, err := store.Table(sess.Entity(), sess.CountryCode(), sess.CategoryCode(), sess.ScenarioOptions())
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("ghgdash-%s-%s.xlsx", sess.CountryCode(), sess.CategoryCode())
	}
	if err := export.WriteXLSX(out, tbl); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s, %s, %s; %d years, %d scenarios)\n",
		out, tbl.Entity, tbl.Area, tbl.Category, len(tbl.Years), len(tbl.Scenarios))
	return nil
}

func runNotes(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := resolve(opts)
	if err != nil {
		return err
	}

	path := cfg.NotesDBPath.Value
	if path == "" {
		path = notes.PathForDataset(cfg.DatasetPath.Value)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no notes database at %s", path)
	}

	noteStore, err := notes.Open(path)
	if err != nil {
		return err
	}
	defer noteStore.Close()

	all, err := noteStore.ReadAll(context.Background())
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No notes saved yet.")
		return nil
	}
	for _, n := range all {
		fmt.Printf("[%s] %s / %s / %s\n  %s\n",
			n.CreatedAt.UTC().Format("2006-01-02 15:04"), n.Country, n.Category, n.Entity, n.Text)
	}
	return nil
}

func runConfig(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := resolve(opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printUsage() {
	fmt.Printf(`ghgdash %s — Greenhouse gas emissions explorer (MCP server)

Usage:
  ghgdash <command> [arguments]

Commands:
  serve               Serve the explorer session over stdio
  export              Export the default selection's data table to XLSX
  notes               List saved notes
  config              Print the resolved configuration
  version             Print version

Flags:
  --config <path>     Config file (default: ~/.ghgdash/config.yaml)
  --dataset <path>    Emissions dataset CSV
  --test-data         Use the built-in synthetic dataset
  --notes-db <path>   Notes database (default: next to the dataset)
  --country <code>    Default country code, e.g. EARTH or DEU
  --out <path>        Output file for export
  -h, --help          Show this help message
  -v, --version       Print version
`, version)
}
