/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded loads without running the game",
	Long: `Serve the telemetry routes over the recorded loads. Users register and
log in to get a token for the websocket; game commands are refused since no
game runs in this process.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		_, closer, err := startTelemetry(ctx, cfg.Server, nil)
		if err != nil {
			log.Fatal(err)
		}
		defer closer()
		<-ctx.Done()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on, overrides the configuration")
}
