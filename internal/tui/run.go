package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
)

// Outcome is what the window reports when it closes.
type Outcome struct {
	Model   Model
	Restart bool
}

// Run shows the remote window until the user quits. The dispatcher in cfg
// is run for the lifetime of the window.
func Run(ctx context.Context, cfg Config) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Dispatcher != nil {
		go func() {
			if err := cfg.Dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
				logging.Error("Dispatcher stopped", zap.Error(err))
			}
		}()
	}

	m := New(cfg)
	if err := ApplyGeometry(os.Stdout, m.Settings()); err != nil {
		logging.Warn("Failed to restore window geometry", zap.Error(err))
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	final, err := p.Run()
	if err != nil {
		return Outcome{Model: m}, fmt.Errorf("remote window failed: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return Outcome{Model: m}, fmt.Errorf("unexpected model type %T", final)
	}
	return Outcome{Model: fm, Restart: fm.RestartRequested()}, nil
}
