package main

import (
	"os"

	"github.com/solatis/craftbook/cmd/craftbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
