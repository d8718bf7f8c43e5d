/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/game"
	"github.com/SvenDH/go-card-prototype/ui"
	"github.com/SvenDH/go-card-prototype/ui/screens"
)

const (
	screenWidth  = 960
	screenHeight = 600
)

var (
	playTelemetry bool
	playShowDebug bool
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	Long: `Open the game window on the title scene. With --telemetry the loader
events are recorded and served over HTTP and websockets while playing, and
connected clients can set hold points or request loads.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session, err := game.NewSession(cfg)
		if err != nil {
			log.Fatal(err)
		}
		app := screens.NewApp(session, screenWidth, screenHeight)
		if err := session.Start(config.TitleScene); err != nil {
			log.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if playTelemetry {
			rec, closer, err := startTelemetry(ctx, cfg.Server, session)
			if err != nil {
				log.Fatal(err)
			}
			defer closer()
			rec.Attach(session.Loader.Bus())
			session.OnProgress = rec.Progress
		}
		if cfgFile != "" {
			watcher, err := config.Watch(cfgFile)
			if err != nil {
				log.Printf("config: not watching %s: %v", cfgFile, err)
			} else {
				defer watcher.Close()
				go func() {
					for {
						select {
						case c, ok := <-watcher.Changes:
							if !ok {
								return
							}
							c.Loader.Debug = c.Loader.Debug || debug
							session.Apply(c)
						case err, ok := <-watcher.Errors:
							if !ok {
								return
							}
							log.Printf("config: %v", err)
						}
					}
				}()
			}
		}

		prog := &ui.Program{
			M:         app,
			Width:     screenWidth,
			Height:    screenHeight,
			ShowDebug: playShowDebug,
		}
		if err := prog.Run("Card Prototype"); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolVarP(&playTelemetry, "telemetry", "t", false, "Record loads and serve them on the configured address")
	playCmd.Flags().BoolVar(&playShowDebug, "fps", false, "Show TPS and FPS")
}
