package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/infrastructure"
	"github.com/JaimeStill/wayfarer/internal/plans"
	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/formatting"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

type planOptions struct {
	from      string
	to        string
	interests []string
	start     string
	end       string
	out       string
	raw       bool
}

func planCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Research a destination and write a day-by-day itinerary",
		Example: `  wayfarer plan --from Chennai --to Madurai --start 2025-03-01 --end 2025-03-04 \
    --interests "Culture & History" --interests "Food & Cuisine"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return runPlan(cmd.Context(), path, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "City you are travelling from")
	f.StringVar(&opts.to, "to", "", "Destination city")
	f.StringSliceVar(&opts.interests, "interests", nil, "Travel interests (repeatable or comma separated)")
	f.StringVar(&opts.start, "start", "", "First day of the trip (YYYY-MM-DD)")
	f.StringVar(&opts.end, "end", "", "Last day of the trip (YYYY-MM-DD)")
	f.StringVar(&opts.out, "out", "", "Directory for stage reports (default: storage.path from config)")
	f.BoolVar(&opts.raw, "raw", false, "Print the itinerary as markdown instead of rendering it")

	for _, name := range []string{"from", "to", "start", "end"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runPlan(ctx context.Context, configPath string, opts planOptions, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	prefix := ""
	if opts.out != "" {
		cfg.Storage.Provider = storage.ProviderLocal
		cfg.Storage.Path = opts.out
	}

	params, err := plans.CreateCommand{
		Origin:      opts.from,
		Destination: opts.to,
		Interests:   opts.interests,
		StartDate:   opts.start,
		EndDate:     opts.end,
	}.Params()
	if err != nil {
		return err
	}

	logger := infrastructure.NewLogger(cfg.Level())

	infra, err := infrastructure.NewLocal(cfg, logger)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()
	defer infra.Lifecycle.Shutdown(5 * time.Second)

	rt, err := infra.Pipeline(cfg)
	if err != nil {
		return err
	}

	sink := progress.NewSink(progress.NewTerminal(stderr))
	run, err := workflow.Execute(ctx, rt.WithProgress(sink), params)
	sink.Flush()
	if err != nil {
		if errors.Is(err, workflow.ErrRateLimited) {
			fmt.Fprintf(stderr,
				"\nThe model provider is rate limiting requests. Wait a minute and retry, "+
					"or lower pipeline.max_rpm (currently %d).\n", *cfg.Pipeline.MaxRPM)
		}
		return err
	}

	if opts.out == "" {
		prefix = storage.Key(cfg.Pipeline.ArtifactPrefix, run.ID.String())
	}

	defs := rt.Stages()
	if err := workflow.PersistArtifacts(ctx, infra.Storage, defs, prefix, run); err != nil {
		return err
	}

	fmt.Fprintln(stderr)
	for _, res := range run.Results {
		def, _ := defs.Lookup(res.Stage)
		fmt.Fprintf(stderr, "wrote %s (%s)\n",
			storage.Key(cfg.Storage.Path, workflow.ArtifactKey(prefix, def)),
			formatting.FormatBytes(int64(len(res.Text)), 1),
		)
	}

	return printItinerary(stdout, run.Final(), opts.raw)
}

func printItinerary(w io.Writer, text string, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}

	rendered, err := r.Render(text)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, rendered)
	return err
}
