package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/history"
	"github.com/peekproxy/peek/internal/render"
)

// Run starts the viewer and blocks until the user quits. Exchanges
// arriving on the channel are forwarded into the bubbletea program so the
// model processes them on its single update flow.
func Run(h *history.History, cfg render.Config, inspector Inspector, exchanges <-chan domain.Exchange) error {
	model := NewModel(h, cfg, inspector)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go forwardExchanges(ctx, p, exchanges)

	_, err := p.Run()
	return err
}

// forwardExchanges forwards captured exchanges to the TUI program. It
// exits when the context is cancelled or the channel is closed.
func forwardExchanges(ctx context.Context, p *tea.Program, ch <-chan domain.Exchange) {
	for {
		select {
		case <-ctx.Done():
			return
		case ex, ok := <-ch:
			if !ok {
				return
			}
			p.Send(ExchangeMsg(ex))
		}
	}
}
