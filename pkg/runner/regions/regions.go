package regions

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/session"
)

// Regions prints the distinct regions of the dataset.
type Regions struct {
	Session *session.Session
	JSON    bool
	Out     io.Writer
}

func (n *Regions) Do(_ context.Context) error {
	if n.Session == nil {
		return errors.New("can not list regions, no session")
	}
	regions := n.Session.Regions()
	if n.JSON {
		return printers.JSON(n.Out, regions)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount("Regions", len(regions), "region", "regions")
	pp.Regions(regions...)
	return nil
}
