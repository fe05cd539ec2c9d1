package main

import (
	"os"

	"github.com/kanishk-singh19/Wellness/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
