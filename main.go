package main

import (
	"fmt"
	"os"

	"github.com/keenthemes/ktui-picker/internal/cli"
	"github.com/keenthemes/ktui-picker/internal/logger"
)

func main() {
	logger.Initialize()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
