package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"artflow/brush"
	"artflow/internal/logging"
	"artflow/paint"
	"artflow/parallel"

	"github.com/alecthomas/kong"
)

type brushesCmd struct{}

func (b *brushesCmd) Run(kctx *kong.Context) error {
	w := tabwriter.NewWriter(kctx.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tOPACITY\tHARDNESS\tSPACING\tSTABILIZATION")
	for _, name := range brush.PresetNames() {
		s, _ := brush.Preset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%g\n", name, s.Type, s.Size, s.Opacity, s.Hardness,
			s.Spacing, s.Stabilization)
	}
	return w.Flush()
}

var cli struct {
	LogLevel slog.Level `help:"Log level (debug, info, warn, error)" default:"info"`
	Workers  int        `help:"Number of parallel export workers. Zero uses one per CPU" default:"0"`

	Paint   paint.CLICmd `cmd:"" help:"Play a painting script and export the result"`
	Brushes brushesCmd   `cmd:"" help:"List the built-in brush presets"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("artflow"),
		kong.Description("Raster painting engine driven by recorded painting scripts."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/artflow.json", "~/.config/artflow/config.json"),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.LogLevel}))
	slog.SetDefault(logger)
	logging.SetLogger(logger)

	pool := parallel.Start(cli.Workers)
	err := kctx.Run(pool)
	kctx.FatalIfErrorf(err)
}
