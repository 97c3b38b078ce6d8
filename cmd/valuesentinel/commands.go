package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/report"
	"ValueSentinel/internal/scheduler"
	"ValueSentinel/internal/universe"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "valuesentinel", version)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled collection and ranking",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		sched := scheduler.NewScheduler(ctx, a.svc, cmd.OutOrStdout(), a.cfg.Ranking.TopN, a.log)
		if err := sched.RegisterAll(a.cfg.Schedule.MidTermCron, a.cfg.Schedule.LongTermCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		startup := make(chan struct{})
		if os.Getenv("RUN_ON_START") == "true" {
			a.log.Info().Msg("RUN_ON_START enabled, ranking both horizons now")
			go func() {
				defer close(startup)
				for _, h := range model.Horizons {
					sched.RunNow(h)
				}
			}()
		} else {
			close(startup)
		}

		a.log.Info().Msg("ValueSentinel is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		a.log.Info().Msg("Shutdown signal received, stopping")
		<-startup
		return nil
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the latest snapshots of a horizon and record the run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		h, err := parseHorizonFlag(cmd)
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if top == 0 {
			top = a.cfg.Ranking.TopN
		}
		run, err := a.svc.Run(cmd.Context(), h)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.FormatRanking(run, top))
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <stock-id>",
	Short: "Show the full score breakdown of one stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := parseHorizonFlag(cmd)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		analysis, err := a.svc.Analyze(cmd.Context(), args[0], h)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.FormatAnalysis(analysis))
		return nil
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch prices, build snapshots and recompute sector averages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.svc.Refresh(cmd.Context())
	},
}

var importCmd = &cobra.Command{
	Use:   "import <universe.yaml>",
	Short: "Load stocks, fundamentals and favorable tags into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := universe.Load(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := f.Apply(cmd.Context(), a.store, time.Now()); err != nil {
			return err
		}
		a.log.Info().Int("stocks", len(f.Stocks)).Int("favorable_tags", len(f.FavorableTags)).Msg("Universe imported")
		return nil
	},
}

func init() {
	horizonFlag(rankCmd)
	rankCmd.Flags().Int("top", 0, "number of stocks to show (default ranking.top_n)")
	horizonFlag(analyzeCmd)
}
