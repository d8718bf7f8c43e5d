/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SvenDH/go-card-prototype/server"
)

var (
	remoteURL      string
	remoteUser     string
	remotePassword string
	remoteRegister bool
)

// remoteCmd represents the remote command
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Follow and steer a game started with play --telemetry",
	Long: `Log in to a telemetry server, print the loads it streams and read
commands from stdin:

  hold <point> [on|off]   set or release a hold point
  clear                   release every hold point
  load <scene>            request a load
  quit`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tok, err := server.Login(ctx, remoteURL, remoteUser, remotePassword, remoteRegister)
		if err != nil {
			log.Fatal(err)
		}
		remote, err := server.Dial(ctx, remoteURL, tok.AccessToken)
		if err != nil {
			log.Fatal(err)
		}
		defer remote.Close()

		go func() {
			for m := range remote.Messages {
				data, _ := json.Marshal(m.Data)
				fmt.Printf("%-14s %s\n", m.Type, data)
			}
			fmt.Println("connection closed")
			os.Exit(0)
		}()

		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			c, quit, err := server.ParseCommand(in.Text())
			if quit {
				return
			}
			if err != nil {
				fmt.Println(err)
				continue
			}
			if c == nil {
				continue
			}
			if err := remote.Send(*c); err != nil {
				log.Fatal(err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)

	remoteCmd.Flags().StringVarP(&remoteURL, "url", "u", "http://localhost:8080", "Telemetry server")
	remoteCmd.Flags().StringVar(&remoteUser, "user", "", "User name")
	remoteCmd.Flags().StringVar(&remotePassword, "password", "", "Password")
	remoteCmd.Flags().BoolVar(&remoteRegister, "register", false, "Create the user first")
}
