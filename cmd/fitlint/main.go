package main

import (
	"os"

	"github.com/fitlint/fitlint/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
