package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sadokz/lamaitrise/internal/app"
)

func main() {
	// Local development convenience; in production the environment is set
	// by the runtime and no .env file exists.
	_ = godotenv.Load()

	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
