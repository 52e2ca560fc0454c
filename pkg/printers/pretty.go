package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/profile"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/viewcount"
)

// PrettyPrint renders country data for the terminal.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// State reports the saved state of a country; nil hides the column.
	State func(name string) saved.Membership
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, one, many string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " - %d %s\n", count, one)
	default:
		_, _ = c.Fprintf(pp.out(), " - %d %s\n", count, many)
	}
}

// None prints a faint placeholder line.
func (pp *PrettyPrint) None(msg string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), " %s\n\n", msg)
}

// Countries prints one row per country.
func (pp *PrettyPrint) Countries(list ...country.Country) {
	if len(list) == 0 {
		pp.None("no matching countries")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	star := color.New(color.FgHiYellow)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	if pp.State != nil {
		tbl.AddRow("", bold.Sprint("Country"), bold.Sprint("Capital"), bold.Sprint("Region"), bold.Sprint("Population"))
	} else {
		tbl.AddRow(bold.Sprint("Country"), bold.Sprint("Capital"), bold.Sprint("Region"), bold.Sprint("Population"))
	}
	for _, c := range list {
		row := []interface{}{c.CommonName(), c.DisplayCapital(), faint.Sprint(c.DisplayRegion()), c.DisplayPopulation()}
		if pp.State != nil {
			mark := " "
			if pp.State(c.CommonName()) == saved.Saved {
				mark = star.Sprint("★")
			}
			row = append([]interface{}{mark}, row...)
		}
		tbl.AddRow(row...)
	}
	if pp.State != nil {
		tbl.RightAlign(4)
	} else {
		tbl.RightAlign(3)
	}

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Regions prints the region list.
func (pp *PrettyPrint) Regions(regions ...string) {
	if len(regions) == 0 {
		pp.None("no regions")
		return
	}
	for _, r := range regions {
		_, _ = fmt.Fprintf(pp.out(), "  %s\n", r)
	}
	pp.NewLine()
}

// Detail is the data shown for one country.
type Detail struct {
	Country   country.Country
	Neighbors []country.Country
	Saved     saved.Membership
	Views     viewcount.Display
}

// Detail prints the detail view of one country.
func (pp *PrettyPrint) Detail(d Detail) {
	c := d.Country
	pp.Title(c.CommonName())
	if c.Name.Official != "" && c.Name.Official != c.CommonName() {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), c.Name.Official)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Capital"), c.DisplayCapital())
	tbl.AddRow(bold.Sprint("Population"), c.DisplayPopulation())
	tbl.AddRow(bold.Sprint("Region"), c.DisplayRegion())
	tbl.AddRow(bold.Sprint("Borders"), BorderList(d.Neighbors))
	tbl.AddRow(bold.Sprint("Saved"), savedLabel(d.Saved))
	tbl.AddRow(bold.Sprint("Views"), viewsLabel(d.Views))
	if ref := c.FlagRef(); ref != "" {
		tbl.AddRow(bold.Sprint("Flag"), ref)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// BorderList joins neighbor names, or "None".
func BorderList(neighbors []country.Country) string {
	if len(neighbors) == 0 {
		return "None"
	}
	names := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		names = append(names, n.CommonName())
	}
	return strings.Join(names, ", ")
}

func savedLabel(m saved.Membership) string {
	switch m {
	case saved.Saved:
		return color.New(color.FgHiYellow).Sprint("★ saved")
	case saved.Unsaved:
		return "not saved"
	default:
		return color.New(color.Faint).Sprint("unknown")
	}
}

func viewsLabel(d viewcount.Display) string {
	if d.State == viewcount.Failed {
		return color.New(color.FgRed).Sprint(d.String())
	}
	return d.String()
}

// Profile prints the greeting and the stored profile.
func (pp *PrettyPrint) Profile(p *profile.Profile) {
	pp.Title(profile.Greeting(p))
	if p == nil {
		pp.None("no profile yet")
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Email"), p.Email)
	tbl.AddRow(bold.Sprint("Country"), p.Country)
	if p.Bio != "" {
		tbl.AddRow(bold.Sprint("Bio"), p.Bio)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Error prints a failure line in red.
func (pp *PrettyPrint) Error(msg string) {
	_, _ = color.New(color.FgRed).Fprintln(pp.out(), msg)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	if w == nil {
		w = color.Output
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
