/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/game"
	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/server"
)

var (
	simFrom    string
	simDest    string
	simStep    time.Duration
	simHolds   []string
	simRelease time.Duration
	simRecord  bool
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one load headless and print its events",
	Long: `Run one load from --from to --dest with a fixed time step and print every
lifecycle event with the simulated time it happened at. Hold points given
with --hold are released after --release of simulated time.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session, err := game.NewSession(cfg)
		if err != nil {
			log.Fatal(err)
		}
		if err := session.Start(simFrom); err != nil {
			log.Fatal(err)
		}

		var now time.Duration
		session.Loader.Bus().On(loader.AllStatuses, func(e *loader.Event) {
			line := fmt.Sprintf("%8.3fs  %-40s %s", now.Seconds(), e.Status, e.Phase)
			if !e.Origin.IsZero() {
				line += " origin=" + e.Origin.Name
			}
			fmt.Println(line)
		})

		if simRecord {
			repo, err := server.OpenDB(cfg.Server.DB)
			if err != nil {
				log.Fatal(err)
			}
			defer repo.Close()
			ctx, cancel := context.WithCancel(context.Background())
			rec := server.NewRecorder(repo, nil)
			rec.Attach(session.Loader.Bus())
			done := make(chan struct{})
			go func() {
				rec.Run(ctx)
				close(done)
			}()
			defer func() {
				cancel()
				<-done
			}()
		}

		if err := session.Load(simDest); err != nil {
			log.Fatal(err)
		}
		for _, name := range simHolds {
			point, ok := loader.ParseHoldPoint(name)
			if !ok {
				log.Fatalf("unknown hold point %q", name)
			}
			session.SetHold(point, true)
		}

		const limit = 10 * time.Minute
		released := len(simHolds) == 0
		for session.Loader.Busy() && now < limit {
			now += simStep
			if !released && now >= simRelease {
				session.ClearHolds()
				released = true
			}
			session.Tick(simStep)
		}
		if session.Loader.Busy() {
			log.Fatalf("load still in %s after %s", session.Loader.Phase(), limit)
		}
		fmt.Printf("active scene: %s\n", session.Host.ActiveScene().Name)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simFrom, "from", config.TitleScene, "Scene to start in")
	simulateCmd.Flags().StringVarP(&simDest, "dest", "d", config.TableScene, "Scene to load")
	simulateCmd.Flags().DurationVar(&simStep, "dt", 16*time.Millisecond, "Fixed time step")
	simulateCmd.Flags().StringSliceVar(&simHolds, "hold", nil, "Hold points to set before the load starts")
	simulateCmd.Flags().DurationVar(&simRelease, "release", 500*time.Millisecond, "Simulated time after which holds are released")
	simulateCmd.Flags().BoolVar(&simRecord, "record", false, "Store the events in the telemetry database")
}
