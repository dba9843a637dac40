package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/logger"
	"github.com/hpungsan/rolo/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "list": true, "search": true, "edit": true, "delete": true,
	"export": true, "import": true, "serve": true,
	"help": true, "h": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	// Known subcommand or global flag (--help, --version, --db, --json) → CLI
	return cliCommands[arg] || (len(arg) > 1 && arg[0] == '-')
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
            _
   _ __ ___| | ___
  | '__/ _ \ |/ _ \
  | | | (_) | | (_) |
  |_|  \___/|_|\___/

  Personal contact book

  Usage: rolo <command> [options]
         rolo --help

  MCP server mode requires piped input.`)
}

// loadConfig merges ~/.rolo/config.json with the nearest .rolo/config.json
// above the working directory.
func loadConfig() (*config.Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}
	return config.LoadWithRepo(filepath.Join(homeDir, ".rolo"), cwd)
}

func main() {
	os.Exit(run(os.Args))
}

// run executes one invocation and returns the process exit status. Deferred
// cleanup, including closing the database, happens before the exit.
func run(args []string) int {
	// No args + interactive terminal → show banner and exit
	if len(args) < 2 && isTerminal() {
		printBanner()
		return 0
	}

	// Unknown argument → show error (don't start MCP server)
	if len(args) >= 2 && !isCLIMode(args) {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[1])
		fmt.Fprintf(os.Stderr, "Run 'rolo --help' for usage.\n")
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}

	lggr, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log_level %q: %v\n", cfg.LogLevel, err)
		return 1
	}
	defer lggr.Sync() //nolint:errcheck

	env := newEnv(cfg, lggr)
	defer env.Close()

	// CLI mode: known subcommand or flag
	if isCLIMode(args) {
		app := newCLIApp(env)
		if err := app.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// MCP server mode (no args, piped stdin)
	svc, err := env.service(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := mcp.Run(svc, cfg, lggr, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
