package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/marcin-skalski/ticketboard/internal/config"
	"github.com/marcin-skalski/ticketboard/internal/controller"
	"github.com/marcin-skalski/ticketboard/internal/logging"
	"github.com/marcin-skalski/ticketboard/internal/settings"
	"github.com/marcin-skalski/ticketboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("ticketboard", pflag.ContinueOnError)
	configPath := flags.String("config", config.DefaultPath(), "path to config file")
	noTUI := flags.Bool("no-tui", false, "print the board once instead of starting the TUI")
	grouping := flags.String("grouping", "", "set and persist grouping (status|user|priority)")
	ordering := flags.String("ordering", "", "set and persist ordering (priority|title)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Auto-detect TUI capability
	enableTUI := !*noTUI && os.Getenv("TICKETBOARD_TUI") != "0" &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	logger, logCloser, err := logging.Setup(logging.Options{
		File:  cfg.LogFile,
		Level: cfg.Log.Level,
		Quiet: enableTUI,
	})
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logCloser.Close()

	kv, closeKV, err := newSettingsKV(cfg.Settings)
	if err != nil {
		return err
	}
	defer closeKV()

	src, closeSource := newSource(cfg, logger)
	defer closeSource()

	ctrl := controller.New(src, settings.NewStore(kv, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl.Start(ctx)
	defer ctrl.Close()

	if *grouping != "" {
		if err := ctrl.ChangeGrouping(*grouping); err != nil {
			return err
		}
	}
	if *ordering != "" {
		if err := ctrl.ChangeOrdering(*ordering); err != nil {
			return err
		}
	}

	if enableTUI {
		logger.Info("ticketboard starting (tui)", "config", *configPath, "api_url", cfg.APIURL)
		p := tea.NewProgram(tui.NewModel(ctrl, cfg.TUI.RefreshInterval), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	}

	// Headless mode
	logger.Info("ticketboard starting (headless)", "config", *configPath, "api_url", cfg.APIURL)
	ctrl.Wait()
	snap := ctrl.Snapshot()
	if snap.Loading {
		return fmt.Errorf("no tickets loaded from %s", cfg.APIURL)
	}
	logger.Debug("board ready", "snapshot", snap.String())
	fmt.Print(tui.RenderPlain(snap))
	return nil
}
