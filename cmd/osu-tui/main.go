package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/riuna/osu-downloader/internal/config"
	"github.com/riuna/osu-downloader/internal/tui"
)

func main() {
	var (
		outputFlag = flag.String("output", "", "Output directory (overrides config)")
		configFlag = flag.String("config", "", "Path to config file")
	)

	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	config.ApplyLogLevel(settings)

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
