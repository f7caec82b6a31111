// Package main provides the gamefeatures CLI for extracting opening,
// castling, queen-survival and board-occupancy features from chess games.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
