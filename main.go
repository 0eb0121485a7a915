package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	exitFunc    = os.Exit
	newApp      = NewApp
	runTUI      = RunTUI
	syncOnce    = func(app *App) SyncSummary { return app.SyncNow(context.Background()) }
	setupLogger = defaultSetupLogger
)

func main() {
	if err := runMain(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		exitFunc(1)
	}
}

func runMain(args []string, stdout io.Writer, stderr io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "init error:", err)
		return err
	}
	defer app.Close()
	setupLogger(cfg, stderr)

	if len(args) >= 2 && args[0] == "--import" {
		imported, err := app.ImportOPML(context.Background(), args[1])
		if err != nil {
			fmt.Fprintln(stderr, "import error:", err)
			return err
		}
		fmt.Fprintf(stdout, "Imported %d feeds from %s\n", imported, args[1])
		return nil
	}
	if len(args) >= 2 && args[0] == "--export" {
		if err := app.ExportOPML(context.Background(), args[1]); err != nil {
			fmt.Fprintln(stderr, "export error:", err)
			return err
		}
		fmt.Fprintf(stdout, "Exported feeds to %s\n", args[1])
		return nil
	}
	if len(args) >= 1 && args[0] == "--refresh" {
		summary := syncOnce(app)
		fmt.Fprintln(stdout, summary.Describe())
		return nil
	}

	app.StartScheduler(context.Background())
	if err := runTUI(app); err != nil {
		fmt.Fprintln(stderr, "run error:", err)
		return err
	}
	return nil
}

// defaultSetupLogger sends structured logs to a file beside the database so
// they never fight the TUI for the terminal.
func defaultSetupLogger(cfg Config, fallback io.Writer) {
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "harbor.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(fallback, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))
}
