// Package profile shows and submits the user profile on the command line.
package profile

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/wherein/pkg/printers"
	prof "tableflip.dev/wherein/pkg/profile"
	"tableflip.dev/wherein/pkg/session"
)

// Show prints the greeting and the newest profile.
type Show struct {
	Session *session.Session
	JSON    bool
	Out     io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not show profile, no session")
	}
	svc := n.Session.Profile()
	p, err := svc.Newest(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]any{"greeting": prof.Greeting(p), "profile": p})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Profile(p)
	if draft, ok, _ := svc.Draft(); ok && !draft.IsZero() {
		pp.None("an unsubmitted profile draft is pending, run `wherein profile submit` to send it")
	}
	return nil
}

// Submit sends the profile form. Flag values are merged on top of any
// pending draft; on failure the merged form becomes the draft.
type Submit struct {
	Session *session.Session
	Form    prof.Form
	Discard bool
	JSON    bool
	Out     io.Writer
}

func (n *Submit) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not submit profile, no session")
	}
	svc := n.Session.Profile()
	if n.Discard {
		return svc.ClearDraft()
	}

	form := n.Form
	if draft, ok, err := svc.Draft(); err == nil && ok {
		form = draft.Merge(n.Form)
	}

	p, err := svc.Submit(ctx, form)
	if err != nil {
		if !n.JSON {
			pp := printers.PrettyPrint{Out: n.Out}
			pp.Error("Profile not saved, your entries were kept as a draft.")
		}
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]any{"greeting": prof.Greeting(p), "profile": p})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	_, _ = color.New(color.FgGreen).Fprintln(outOr(n.Out), "Profile saved.")
	pp.Profile(p)
	return nil
}

func outOr(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
