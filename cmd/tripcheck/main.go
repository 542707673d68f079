package main

import (
	"os"

	"github.com/voyagehq/tripcheck/cmd/tripcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
