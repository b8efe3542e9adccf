package main

import (
	"os"

	"github.com/CaptShanks/kpm2keepass/cmd/kpm2keepass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
