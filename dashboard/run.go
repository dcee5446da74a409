package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/coraldeck/display/ui"
)

// shutdownGrace is how long in-flight requests get on shutdown.
const shutdownGrace = 5 * time.Second

// Run serves the HTTP API and the terminal UI until the UI quits or
// ctx is cancelled. The single Bubbletea loop owns all rendering;
// handlers reach it only through thread-safe Send calls.
func (s *Server) Run(ctx context.Context, addr string) error {
	program := tea.NewProgram(ui.NewModel(s.manager), tea.WithAltScreen())
	s.redraw = func() { program.Send(ui.RedrawMsg{}) }

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go s.RunWatchdog(watchCtx)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	httpErr := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard API listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
			program.Quit()
		}
	}()

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	_, runErr := program.Run()

	// UI is gone: stop accepting requests, cancel the watchdog.
	cancelWatch()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http shutdown", "error", err)
	}

	select {
	case err := <-httpErr:
		return fmt.Errorf("dashboard: serve: %w", err)
	default:
	}
	if runErr != nil {
		return fmt.Errorf("dashboard: ui loop: %w", runErr)
	}
	return nil
}
