package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/riuna/osu-downloader/internal/config"
	"github.com/riuna/osu-downloader/internal/download"
	httpclient "github.com/riuna/osu-downloader/internal/http"
	ioutils "github.com/riuna/osu-downloader/internal/io"
	"github.com/riuna/osu-downloader/internal/mirror"
	"github.com/riuna/osu-downloader/internal/model"
	"github.com/riuna/osu-downloader/internal/osu"
	"github.com/riuna/osu-downloader/internal/prompt"
)

func main() {
	// Command line flags. Without -user the program runs interactively and
	// prompts for everything, like the original console tool.
	var (
		userFlag    = flag.String("user", "", "Numeric osu! user ID (omit for interactive mode)")
		countFlag   = flag.Int("count", 10, "How many beatmaps to download")
		offsetFlag  = flag.Int("offset", 0, "Most-played ranking offset to start from")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")

		noHitsoundFlag   = flag.Bool("no-hitsound", false, "Download without hitsounds")
		noStoryboardFlag = flag.Bool("no-storyboard", false, "Download without storyboards")
		noBgFlag         = flag.Bool("no-bg", false, "Download without backgrounds")
		noVideoFlag      = flag.Bool("no-video", true, "Download without videos")
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
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	config.ApplyLogLevel(settings)

	if err := ioutils.EnsureDir(settings.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	fmt.Println("osu! Beatmap Downloader")
	fmt.Println()

	userID := *userFlag
	count := *countFlag
	offset := *offsetFlag
	opts := model.DownloadOptions{
		NoHitsound:   *noHitsoundFlag,
		NoStoryboard: *noStoryboardFlag,
		NoBackground: *noBgFlag,
		NoVideo:      *noVideoFlag,
	}

	if userID == "" {
		p := prompt.New(os.Stdin, os.Stdout)
		userID = p.UserID()
		if userID == "" {
			fmt.Fprintln(os.Stderr, "No user ID given.")
			os.Exit(1)
		}
		count = p.Int("How many beatmaps to download? (e.g. 100)", 10)
		offset = p.Int("Start from offset? (0 for beginning)", 0)

		fmt.Println("\nSelect download options (y/n):")
		opts.NoHitsound = p.YesNo("NoHitsound", false)
		opts.NoStoryboard = p.YesNo("NoStoryboard", false)
		opts.NoBackground = p.YesNo("NoBg", false)
		opts.NoVideo = p.YesNo("NoVideo", true)
		fmt.Println()
	}

	hc := httpclient.NewClient(settings.ClientTimeout, settings.UserAgent)
	listing := osu.NewClient(hc, settings)
	archives := mirror.NewClient(hc, settings)

	manager := download.NewManager(settings, archives, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "x "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "+ "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})

	// One progress bar per archive, created lazily because the total is only
	// known once the mirror answers.
	var bar *progressbar.ProgressBar
	var current model.BeatmapSet
	manager.OnItemStart = func(index, total int, set model.BeatmapSet) {
		bar = nil
		current = set
	}
	manager.OnItemProgress = func(written, total int64) {
		if bar == nil {
			size := total
			if size == 0 {
				size = -1
			}
			bar = progressbar.DefaultBytes(size, current.ArchiveName())
		}
		_ = bar.Set64(written)
	}

	fmt.Printf("Fetching most-played beatmaps for user %s...\n", userID)
	entries, err := listing.FetchMostPlayed(ctx, userID, count, offset)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nFetch cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error fetching beatmaps: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No beatmaps found. Exiting.")
		return
	}

	fmt.Printf("\nStarting downloads (%d beatmaps)...\n\n", len(entries))
	summary := manager.Run(ctx, entries, opts)

	if ctx.Err() != nil {
		fmt.Println("\nDownload cancelled.")
		os.Exit(130)
	}

	fmt.Println()
	fmt.Printf("Complete! Downloaded %d/%d beatmaps", summary.Downloaded, summary.Total)
	if summary.Failed > 0 {
		fmt.Printf(", %d failed", summary.Failed)
	}
	fmt.Println()
	if summary.ReportPath != "" {
		fmt.Printf("Failed downloads saved to %s\n", summary.ReportPath)
	}
}
