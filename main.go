package main

import (
	"os"

	"github.com/conneroisu/keymapdoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
