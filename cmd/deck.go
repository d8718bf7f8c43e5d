/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/SvenDH/go-card-prototype/hand"
)

var (
	deckSeed int64
	deckList bool
)

// deckCmd represents the deck command
var deckCmd = &cobra.Command{
	Use:   "deck [file]",
	Short: "Parse a deck file and deal an opening hand",
	Long: `Parse a deck list file, shuffle the configured deck and deal a hand into
the configured fan layout. Without a file the configured deck file, or the
built in starter deck, is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) == 1 {
			cfg.Hand.DeckFile = args[0]
		}
		decks, err := cfg.Decks()
		if err != nil {
			log.Fatal(err)
		}
		if deckList {
			for _, d := range decks.Decks {
				cards, err := d.Cards()
				if err != nil {
					log.Fatal(err)
				}
				fmt.Printf("%s: %d cards\n", d.Name, len(cards))
			}
			return
		}
		cards, err := cfg.Deck()
		if err != nil {
			log.Fatal(err)
		}
		if deckSeed == 0 {
			deckSeed = time.Now().UnixNano()
		}
		deck := hand.NewDeck(rand.New(rand.NewSource(deckSeed)), cards...)
		h := hand.New(cfg.Hand.Capacity)
		h.MaxSelected = cfg.Hand.MaxSelected
		drawn := h.Fill(deck)
		slots := hand.Arrange(len(drawn), cfg.Hand.Layout)
		for i, c := range drawn {
			s := slots[i]
			fmt.Printf("%-24s x=%7.1f y=%6.1f angle=%5.1f\n", c, s.X, s.Y, s.Angle)
		}
		fmt.Printf("%d cards left in the deck\n", deck.Len())
	},
}

func init() {
	rootCmd.AddCommand(deckCmd)

	deckCmd.Flags().Int64Var(&deckSeed, "seed", 0, "Shuffle seed, 0 picks one from the clock")
	deckCmd.Flags().BoolVarP(&deckList, "list", "l", false, "Only list the decks in the file")
}
