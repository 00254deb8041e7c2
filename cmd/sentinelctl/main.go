package main

import (
	"fmt"
	"os"

	"github.com/autopeer-io/sentinel/cmd/sentinelctl/app"
)

func main() {
	if err := app.NewSentinelctlCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
