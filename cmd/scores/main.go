package main

import (
	"os"

	"github.com/argie33/algo-sub009/cmd/scores/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
