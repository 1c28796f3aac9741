package main

import (
	"os"

	"github.com/d1nch8g/animalese/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
