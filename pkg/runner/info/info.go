package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/session"
)

// Info prints where configuration and state come from and how the dataset
// was resolved.
type Info struct {
	Session *session.Session
	JSON    bool
	Out     io.Writer
}

// Report is the JSON form of Info.
type Report struct {
	ConfigPath    string `json:"config_path_env,omitempty"`
	ConfigFile    string `json:"config_file,omitempty"`
	RemoteURL     string `json:"remote_url"`
	DatasetURL    string `json:"dataset_url"`
	StatePath     string `json:"state_path"`
	Timeout       string `json:"http_timeout"`
	DatasetOrigin string `json:"dataset_origin"`
	FallbackCause string `json:"fallback_cause,omitempty"`
	Countries     int    `json:"countries"`
	Regions       int    `json:"regions"`
}

func (n *Info) Do(_ context.Context) error {
	if n.Session == nil {
		return errors.New("can not report info, no session")
	}
	cfg := n.Session.Config()
	ds := n.Session.Dataset()

	r := Report{
		ConfigPath: os.Getenv("WHEREIN_CONFIG_PATH"),
		ConfigFile: cfg.Source(),
		RemoteURL:  cfg.RemoteURL(),
		DatasetURL: cfg.DatasetURL(),
		StatePath:  cfg.StatePath(),
		Timeout:    cfg.Timeout().String(),
		Countries:  n.Session.Index().Len(),
		Regions:    len(n.Session.Regions()),
	}
	if ds.Live {
		r.DatasetOrigin = "live"
	} else {
		r.DatasetOrigin = "fallback"
		if ds.Err != nil {
			r.FallbackCause = ds.Err.Error()
		}
	}

	if n.JSON {
		return printers.JSON(n.Out, r)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if r.ConfigPath != "" {
		_, _ = fmt.Fprintln(out, "WHEREIN_CONFIG_PATH found on env, using", r.ConfigPath)
	} else {
		_, _ = fmt.Fprintln(out, "WHEREIN_CONFIG_PATH env var not set")
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	configFile := r.ConfigFile
	if configFile == "" {
		configFile = "(defaults and environment)"
	}
	tbl.AddRow(bold.Sprint("Config file"), configFile)
	tbl.AddRow(bold.Sprint("Remote store"), r.RemoteURL)
	tbl.AddRow(bold.Sprint("Dataset"), r.DatasetURL)
	tbl.AddRow(bold.Sprint("State path"), r.StatePath)
	tbl.AddRow(bold.Sprint("HTTP timeout"), r.Timeout)
	origin := r.DatasetOrigin
	if r.FallbackCause != "" {
		origin = fmt.Sprintf("%s (%s)", origin, r.FallbackCause)
	}
	tbl.AddRow(bold.Sprint("Dataset origin"), origin)
	tbl.AddRow(bold.Sprint("Countries"), r.Countries)
	tbl.AddRow(bold.Sprint("Regions"), r.Regions)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
