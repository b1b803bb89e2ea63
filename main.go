package main

import (
	"os"

	"github.com/steindani/multipass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
