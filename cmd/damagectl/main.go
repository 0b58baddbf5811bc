package main

import (
	"errors"
	"os"
)

const (
	exitSuccess  = 0
	exitProblems = 1
	exitError    = 2
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errProblemsFound) {
			os.Exit(exitProblems)
		}
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
