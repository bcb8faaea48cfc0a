package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/app"
	"github.com/roadproximity/proximity/internal/infrastructure/fixfeed"
	"github.com/roadproximity/proximity/pkg/logger"
)

var trackFile string

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Replay a JSON-lines fix stream through a tracking session",
	Long: `track reads one location fix per line, for example

  {"coordinates":{"latitude":23.25186,"longitude":77.48454},"speed":4.2,"timestamp":1700000000000}

and feeds them to a tracking session at FIX_INTERVAL, printing every update.
Use --file - to read from standard input.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return track(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	trackCmd.Flags().StringVarP(&trackFile, "file", "f", "-", "fix stream to replay, - for stdin")
}

func track(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	in := stdin
	if trackFile != "-" {
		f, err := os.Open(trackFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	dispatcher := a.NewDispatcher(a.NewSession(presenter.NewConsole(stdout)))
	feed := fixfeed.NewReplay(in, cfg.Pipeline.FixInterval, logger.Component(log, "fixfeed"))

	fixes, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error {
		defer dispatcher.Close()
		for fix := range fixes {
			if err := dispatcher.Submit(fix); err != nil {
				log.Warn().Err(err).Msg("fix rejected")
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if last, err := feed.Current(ctx); err == nil {
		log.Info().Str("last", last.Coordinates.String()).Msg("replay finished")
	}
	return nil
}
