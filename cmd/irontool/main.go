package main

import (
	"os"

	"github.com/2beens/irontracker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
