package main

import (
	"os"

	"github.com/loganmanery/credvault/cmd/credvault/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
