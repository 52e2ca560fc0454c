package toggle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/session"
)

// Toggle flips the saved state of one country and prints the state the
// store confirmed.
type Toggle struct {
	Session *session.Session
	Name    string
	JSON    bool
	Out     io.Writer
}

func (n *Toggle) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not toggle, no session")
	}
	state, err := n.Session.Toggle(ctx, n.Name)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]string{"country": n.Name, "state": state.String()})
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	switch state {
	case saved.Saved:
		_, _ = color.New(color.FgHiYellow).Fprintf(out, "★ %s saved\n", n.Name)
	default:
		_, _ = fmt.Fprintf(out, "%s removed from saved\n", n.Name)
	}
	return nil
}
