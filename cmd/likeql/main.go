package main

import (
	"os"

	"github.com/kyle-williams-1/likeql/cmd/likeql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
