package main

import (
	"os"

	"github.com/henderiw/intervalmap/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
