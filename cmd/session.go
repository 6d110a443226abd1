package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/papapumpkin/pheno/internal/config"
	"github.com/papapumpkin/pheno/internal/logging"
	"github.com/papapumpkin/pheno/internal/ui"
)

// session bundles what every subcommand needs: the resolved config, a
// logger and a printer.
type session struct {
	cfg     config.Config
	logger  *logging.Logger
	printer *ui.Printer
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, printer: ui.New(cfg.NoColor)}, nil
}

func (s *session) Close() {
	_ = s.logger.Close()
}

// scenarioPath returns the positional argument if given, else the
// configured scenario.
func (s *session) scenarioPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return s.cfg.Scenario
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
