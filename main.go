package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	// The application starts in root.go: cobra parses the command line, loads
	// the environment (and an optional .env file) and runs the chosen command.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
