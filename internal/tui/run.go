package tui

import (
	"context"
	"errors"
	"fmt"

	"StockPulse/internal/scheduler"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Run starts the terminal UI and blocks until the user quits or ctx is
// cancelled. Market bells from session are delivered as StatusMsg.
func Run(ctx context.Context, m Model, session *scheduler.Session) error {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	if session != nil {
		m.dash.SetMarketStatus(session.Open())
		session.OnChange(func(open bool) { p.Send(StatusMsg{Open: open}) })
	}

	log.Info().Msg("terminal dashboard started")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
