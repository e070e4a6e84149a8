package main

import (
	"os"

	"github.com/lover33/elixir-omg/cmd/omgtx/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
