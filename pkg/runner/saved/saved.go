// Package saved lists the saved countries on the command line.
package saved

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/wherein/pkg/printers"
	savedset "tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/session"
)

// Saved refreshes the saved set and prints it.
type Saved struct {
	Session *session.Session
	JSON    bool
	Out     io.Writer
}

func (n *Saved) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not list saved countries, no session")
	}
	if err := n.Session.Refresh(ctx); err != nil {
		return err
	}
	list := n.Session.Saved()
	if n.JSON {
		return printers.JSON(n.Out, list)
	}

	pp := printers.PrettyPrint{Out: n.Out, State: func(string) savedset.Membership { return savedset.Saved }}
	pp.NewLine()
	pp.TitleWithCount("Saved", len(list), "country", "countries")
	if len(list) == 0 {
		pp.None("No saved countries yet.")
		return nil
	}
	pp.Countries(list...)
	return nil
}
