package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/NamanBalaji/ytdl/internal/config"
	"github.com/NamanBalaji/ytdl/internal/cookies"
	"github.com/NamanBalaji/ytdl/internal/history"
	"github.com/NamanBalaji/ytdl/internal/logger"
	"github.com/NamanBalaji/ytdl/internal/prompt"
	"github.com/NamanBalaji/ytdl/internal/quality"
	"github.com/NamanBalaji/ytdl/internal/ui"
	"github.com/NamanBalaji/ytdl/internal/ytdlp"
)

type flags struct {
	quality        string
	outputDir      string
	outputTemplate string
	cookieBrowser  string
	playlist       bool
	playlistStart  int
	playlistEnd    int
	subtitles      bool
	metadata       bool
	rateLimit      string
	retries        int
	archivePath    string
	noArchive      bool
	nonInteractive bool
	noUpdate       bool
	verbose        bool
	debug          bool
	showHistory    bool
}

func parseFlags() *flags {
	f := &flags{}

	flag.StringVar(&f.quality, "quality", "max-video", "Quality preset: max-video, max-audio, min-video, min-size")
	flag.StringVar(&f.quality, "q", "max-video", "Shorthand for -quality")
	flag.StringVar(&f.outputDir, "output", "", "Output directory (default: the configured download directory)")
	flag.StringVar(&f.outputDir, "o", "", "Shorthand for -output")
	flag.StringVar(&f.outputTemplate, "output-template", "", "yt-dlp output filename template")
	flag.StringVar(&f.cookieBrowser, "cookies", "", "Browser to take cookies from: chrome, firefox, edge, brave, opera")
	flag.StringVar(&f.cookieBrowser, "c", "", "Shorthand for -cookies")
	flag.BoolVar(&f.playlist, "playlist", false, "Download the entire playlist")
	flag.BoolVar(&f.playlist, "p", false, "Shorthand for -playlist")
	flag.IntVar(&f.playlistStart, "from", 0, "Playlist start position (1-based)")
	flag.IntVar(&f.playlistEnd, "to", 0, "Playlist end position (1-based)")
	flag.BoolVar(&f.subtitles, "subtitle", false, "Download subtitles as well")
	flag.BoolVar(&f.subtitles, "s", false, "Shorthand for -subtitle")
	flag.BoolVar(&f.metadata, "metadata", false, "Save description, metadata and thumbnail")
	flag.BoolVar(&f.metadata, "m", false, "Shorthand for -metadata")
	flag.StringVar(&f.rateLimit, "limit-rate", "", "Bandwidth limit, e.g. 1M or 500K")
	flag.IntVar(&f.retries, "retry", -1, "Retry count (default: from config)")
	flag.IntVar(&f.retries, "r", -1, "Shorthand for -retry")
	flag.StringVar(&f.archivePath, "download-archive", "", "Archive file for skipping already-downloaded items")
	flag.BoolVar(&f.noArchive, "no-archive", false, "Disable the download archive")
	flag.BoolVar(&f.nonInteractive, "non-interactive", false, "Never prompt; fail when the URL is missing")
	flag.BoolVar(&f.noUpdate, "no-update", false, "Skip the yt-dlp self-update on start")
	flag.BoolVar(&f.verbose, "verbose", false, "Show every yt-dlp output line")
	flag.BoolVar(&f.verbose, "v", false, "Shorthand for -verbose")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&f.showHistory, "history", false, "List previous download runs and exit")
	flag.Parse()

	return f
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	stateDir := filepath.Join(homeDir, ".ytdl")

	err = os.MkdirAll(stateDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	err = logger.InitLogging(f.debug, filepath.Join(stateDir, "ytdl.log"))
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := history.Open(filepath.Join(stateDir, "ytdl.db"))
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	if f.showHistory {
		return printHistory(store)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if cfg.ShouldUpdateOnStart() && !f.noUpdate {
		fmt.Println("Checking for yt-dlp updates...")

		if !ytdlp.Update(ctx, cfg.Binary) {
			fmt.Fprintln(os.Stderr, "warning: yt-dlp self-update skipped")
		}
	}

	version, err := ytdlp.Version(ctx, cfg.Binary)
	if err != nil {
		return fmt.Errorf("yt-dlp is not available: install it and make sure %q is on PATH", cfg.Binary)
	}

	fmt.Printf("yt-dlp version: %s\n", version)

	dcfg, err := buildDownloadConfig(f, cfg)
	if err != nil {
		return err
	}

	if err := dcfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if dcfg.OutputDir != "" {
		if err := os.MkdirAll(dcfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dcfg.OutputDir, err)
		}
	}

	if dcfg.Verbose {
		printConfig(dcfg)
	}

	spec, err := ytdlp.BuildCommand(dcfg, cfg.Binary)
	if err != nil {
		return err
	}

	logger.Debugf("invoking %s %s", spec.Binary, strings.Join(spec.Args, " "))

	rec := history.NewRecord(dcfg.URL, f.quality)
	display := ui.NewProgress(os.Stdout)
	runner := ytdlp.NewRunner(dcfg.Verbose)

	outcome, err := runner.Run(ctx, spec, display)
	if err != nil {
		if errors.Is(err, ytdlp.ErrBinaryNotFound) {
			return fmt.Errorf("yt-dlp is not available: install it and make sure %q is on PATH", cfg.Binary)
		}

		return err
	}

	rec.FinishedAt = time.Now()
	rec.Outcome = outcome.Reason.String()
	rec.ExitCode = outcome.ExitCode

	if err := store.Save(rec); err != nil {
		logger.Errorf("failed to record run: %v", err)
	}

	if outcome.Success {
		fmt.Println("\nDownload completed successfully.")

		return nil
	}

	if remediation := outcome.Remediation(); remediation != "" {
		fmt.Fprintln(os.Stderr, "\n"+remediation)
	} else if outcome.Diagnostic != "" {
		fmt.Fprintln(os.Stderr, "\nyt-dlp error output:")
		fmt.Fprintln(os.Stderr, outcome.Diagnostic)
	}

	return outcome.Err()
}

// buildDownloadConfig merges CLI flags, configuration defaults and, when the
// URL is missing, interactive answers into the immutable per-run config.
func buildDownloadConfig(f *flags, cfg *config.Config) (ytdlp.DownloadConfig, error) {
	preset, err := quality.Parse(f.quality)
	if err != nil {
		return ytdlp.DownloadConfig{}, err
	}

	url := strings.TrimSpace(flag.Arg(0))
	playlist := f.playlist
	subtitles := f.subtitles

	if url == "" {
		if f.nonInteractive {
			return ytdlp.DownloadConfig{}, ytdlp.ErrMissingURL
		}

		p := prompt.New(os.Stdin, os.Stdout)

		fmt.Println("\nNo URL given; starting interactive mode.")

		url, err = p.AskURL()
		if err != nil {
			return ytdlp.DownloadConfig{}, fmt.Errorf("input error: %w", err)
		}

		if url == "" {
			return ytdlp.DownloadConfig{}, ytdlp.ErrMissingURL
		}

		preset, err = p.AskQuality()
		if err != nil {
			return ytdlp.DownloadConfig{}, fmt.Errorf("input error: %w", err)
		}

		if strings.Contains(url, "playlist") {
			playlist, err = p.AskPlaylist()
			if err != nil {
				return ytdlp.DownloadConfig{}, fmt.Errorf("input error: %w", err)
			}
		}

		subtitles, err = p.AskSubtitles()
		if err != nil {
			return ytdlp.DownloadConfig{}, fmt.Errorf("input error: %w", err)
		}

		f.quality = preset.String()
	}

	outputDir := f.outputDir
	if outputDir == "" {
		outputDir = cfg.DownloadDir
	}

	retries := f.retries
	if retries == -1 {
		retries = cfg.Retries
	}

	archivePath := f.archivePath
	if archivePath == "" && !f.noArchive {
		archivePath = filepath.Join(outputDir, cfg.ArchiveName)
	}

	outputTemplate := f.outputTemplate
	if outputTemplate == "" {
		outputTemplate = cfg.OutputTemplate
	}

	return ytdlp.DownloadConfig{
		URL:            url,
		Quality:        preset,
		OutputDir:      outputDir,
		OutputTemplate: outputTemplate,
		CookieBrowser:  resolveCookies(f.cookieBrowser),
		Playlist:       playlist,
		PlaylistStart:  f.playlistStart,
		PlaylistEnd:    f.playlistEnd,
		Subtitles:      subtitles,
		Metadata:       f.metadata,
		RateLimit:      f.rateLimit,
		Retries:        retries,
		ArchivePath:    archivePath,
		Verbose:        f.verbose,
	}, nil
}

// resolveCookies maps a browser name to the credential-source token.
// Resolution problems are warnings only; yt-dlp may still succeed through
// mechanisms the probe does not anticipate.
func resolveCookies(name string) string {
	if name == "" {
		return ""
	}

	browser, err := cookies.Parse(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; continuing without cookies\n", err)
		logger.Warnf("cookie resolution failed: %v", err)

		return ""
	}

	if path, err := browser.Locate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "hint: make sure you are signed in to YouTube in %s\n", browser)
		logger.Warnf("cookie probe failed for %s: %v", browser, err)
	} else {
		logger.Debugf("cookie store for %s found at %s", browser, path)
	}

	return browser.String()
}

func printConfig(dcfg ytdlp.DownloadConfig) {
	fmt.Println("=== Download settings ===")
	fmt.Printf("URL: %s\n", dcfg.URL)
	fmt.Printf("Format: %s\n", dcfg.Quality.FormatSelector())
	fmt.Printf("Output: %s\n", filepath.Join(dcfg.OutputDir, dcfg.OutputTemplate))

	if dcfg.CookieBrowser != "" {
		fmt.Printf("Cookies: %s\n", dcfg.CookieBrowser)
	} else {
		fmt.Println("Cookies: disabled (public videos only)")
	}

	if dcfg.Playlist {
		fmt.Printf("Playlist: all items (from %d to %d)\n", dcfg.PlaylistStart, dcfg.PlaylistEnd)
	}

	if dcfg.Subtitles {
		fmt.Println("Subtitles: yes")
	}

	if dcfg.Metadata {
		fmt.Println("Metadata: yes")
	}

	if dcfg.RateLimit != "" {
		fmt.Printf("Rate limit: %s\n", dcfg.RateLimit)
	}

	fmt.Printf("Retries: %d\n", dcfg.Retries)

	if dcfg.ArchivePath != "" {
		fmt.Printf("Archive: %s\n", dcfg.ArchivePath)
	}

	fmt.Println("=========================")
}

func printHistory(store *history.Store) error {
	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list run history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No previous runs.")

		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %-14s %-10s %s\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"), rec.Outcome, rec.Quality, rec.URL)
	}

	return nil
}
