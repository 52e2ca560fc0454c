// Package browse runs the interactive country browser.
package browse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"tableflip.dev/wherein/pkg/session"
	tuibrowse "tableflip.dev/wherein/pkg/tui/browse"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal, try `wherein countries` instead")

// Browse launches the full screen browser.
type Browse struct {
	Session *session.Session
	Log     *slog.Logger
	In      *os.File
	Out     *os.File
}

func (n *Browse) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not browse, no session")
	}
	in, out := n.In, n.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if !Interactive(in, out) {
		return ErrNotTerminal
	}
	log := n.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tuibrowse.Option{tuibrowse.WithLogger(log)}
	if drafts := n.Session.Drafts(); drafts != nil {
		events, err := drafts.Watch(ctx, log)
		if err != nil {
			log.Debug("draft watch unavailable", "err", err)
		} else {
			opts = append(opts, tuibrowse.WithDraftEvents(events))
		}
	}

	p := tea.NewProgram(
		tuibrowse.New(ctx, n.Session, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Interactive reports whether both files are terminals.
func Interactive(in, out *os.File) bool {
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
