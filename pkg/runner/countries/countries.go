// Package countries lists the country directory on the command line.
package countries

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/session"
)

// Countries prints the countries matching Search and Region.
type Countries struct {
	Session *session.Session
	Search  string
	Region  string
	JSON    bool
	Out     io.Writer
}

func (n *Countries) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not list countries, no session")
	}
	list := n.Session.Search(n.Search, n.Region)
	if n.JSON {
		return printers.JSON(n.Out, list)
	}

	// Saved markers are best effort; the listing never fails on the store.
	_ = n.Session.Refresh(ctx)

	pp := printers.PrettyPrint{Out: n.Out, State: n.Session.SavedState}
	title := "Countries"
	if n.Region != "" {
		title = n.Region
	}
	pp.NewLine()
	pp.TitleWithCount(title, len(list), "country", "countries")
	pp.Countries(list...)
	return nil
}
