// Package show prints the detail view of one country.
package show

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/session"
	"tableflip.dev/wherein/pkg/viewcount"
)

// Show prints one country. Each run counts as one view.
type Show struct {
	Session *session.Session
	Name    string
	JSON    bool
	Out     io.Writer
}

// Result is the JSON form of a detail view.
type Result struct {
	Country country.Country `json:"country"`
	Borders []string        `json:"borders"`
	Saved   string          `json:"saved"`
	Views   *int            `json:"views"`
	Status  string          `json:"views_status"`
}

func (n *Show) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not show country, no session")
	}
	c, err := n.Session.Country(n.Name)
	if err != nil {
		return err
	}
	neighbors := n.Session.Index().Neighbors(c)

	// Both failures degrade a single field of the output.
	_ = n.Session.Refresh(ctx)
	views, _ := n.Session.Activate(ctx, c.CommonName())
	state := n.Session.SavedState(c.CommonName())

	if n.JSON {
		r := Result{
			Country: c,
			Borders: make([]string, 0, len(neighbors)),
			Saved:   state.String(),
			Status:  views.State.String(),
		}
		for _, nb := range neighbors {
			r.Borders = append(r.Borders, nb.CommonName())
		}
		if views.State == viewcount.Known {
			count := views.Count
			r.Views = &count
		}
		return printers.JSON(n.Out, r)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Detail(printers.Detail{Country: c, Neighbors: neighbors, Saved: state, Views: views})
	return nil
}
