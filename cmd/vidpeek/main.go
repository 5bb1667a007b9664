package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vidpeek/internal/adapter"
	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/service"
	"github.com/mmcdole/vidpeek/internal/store"
	"github.com/mmcdole/vidpeek/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: vidpeek [-v] <path> [path...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("vidpeek %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting vidpeek", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	if len(args) == 0 {
		flag.Usage()
		return errors.New("no file given")
	}
	files := fileRefs(args)

	transport := adapter.NewHTTPTransport(cfg.Server.URL, adapter.WithComponent(logger, "transport"))
	decoders := adapter.NewDecoderRegistry(cfg.Decoder, adapter.WithComponent(logger, "decoder"))
	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.SubtitleFlag, adapter.WithComponent(logger, "player"))

	objects, err := store.NewObjectStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open object store: %w", err)
	}
	defer objects.Close()

	previewSvc := service.NewPreviewService(
		adapter.NewRouteTokens(cfg.Routes),
		transport,
		decoders,
		objects,
		adapter.WithComponent(logger, "preview"),
	)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		printLinks(os.Stdout, previewSvc, cfg.Server.URL, files)
		return nil
	}

	playbackSvc := service.NewPlaybackService(service.PlaybackDeps{
		Launcher:   launcher,
		Objects:    objects,
		BaseURL:    adapter.StaticBaseURL(cfg.Server.URL),
		Clipboard:  adapter.SystemClipboard{},
		Translator: adapter.NewCatalog(cfg.UI.Language),
		Logger:     adapter.WithComponent(logger, "playback"),
	})

	model := tui.NewPreviewModel(previewSvc, playbackSvc, files, adapter.WithComponent(logger, "tui"))

	p := tea.NewProgram(model, tea.WithAltScreen())
	playbackSvc.SetNotifier(tui.NewProgramNotifier(p.Send))

	logger.Info("starting TUI", "files", len(files))

	final, err := p.Run()
	if m, ok := final.(tui.PreviewModel); ok {
		m.Close()
	}
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// fileRefs turns index paths into file references named by their last element
func fileRefs(args []string) []domain.FileRef {
	files := make([]domain.FileRef, 0, len(args))
	for _, arg := range args {
		p := arg
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		files = append(files, domain.FileRef{Path: p, Name: path.Base(p)})
	}
	return files
}

// printLinks writes the resolved links of each file, for scripts and pipes
func printLinks(w io.Writer, svc *service.PreviewService, base string, files []domain.FileRef) {
	base = strings.TrimRight(base, "/")
	for _, f := range files {
		links, strategy := svc.Resolve(f)
		fmt.Fprintf(w, "%s\n", f.Path)
		fmt.Fprintf(w, "  strategy:  %s\n", strategy)
		fmt.Fprintf(w, "  media:     %s%s\n", base, links.MediaURL)
		fmt.Fprintf(w, "  thumbnail: %s%s\n", base, links.ThumbnailURL)
		fmt.Fprintf(w, "  subtitle:  %s%s\n", base, links.SubtitleURL)
	}
}

// runSetupFlow asks for the index origin and saves it
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to vidpeek!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	var serverURL string

	for {
		fmt.Print("Enter your index URL (e.g., https://drive.example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimRight(strings.TrimSpace(input), "/")

		if serverURL == "" {
			fmt.Println("Index URL cannot be empty. Please try again.")
			continue
		}
		if u, err := url.Parse(serverURL); err != nil || u.Scheme == "" || u.Host == "" {
			fmt.Println("Index URL must look like https://host. Please try again.")
			continue
		}

		if err := checkServer(serverURL, logger); err != nil {
			fmt.Printf("\n✗ Could not reach index: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		break
	}

	cfg.Server.URL = serverURL
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Add protected folder tokens under \"routes\" in the config file if needed.")
	fmt.Println("Run vidpeek <path> to preview a file.")
	return nil
}

// checkServer fetches the index root once
func checkServer(serverURL string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Print("Checking index...")
	defer fmt.Print("\r                  \r")

	_, err := adapter.NewHTTPTransport(serverURL, logger).FetchBinary(ctx, "/")
	return err
}
