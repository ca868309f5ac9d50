package main

import (
	"os"

	"github.com/foodwaste/predictor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
