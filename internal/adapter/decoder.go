package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"strings"
	"sync"

	"github.com/mmcdole/vidpeek/internal/domain"
)

// DecoderFactory loads one decoder extension
type DecoderFactory func(ctx context.Context) (domain.DecoderModule, error)

// DecoderRegistry loads decoder extensions on demand. Nothing is probed
// until a preview asks for the decoder.
type DecoderRegistry struct {
	mu        sync.RWMutex
	factories map[string]DecoderFactory
	logger    *slog.Logger
}

// NewDecoderRegistry creates a registry with the built-in decoders
func NewDecoderRegistry(cfg DecoderConfig, logger *slog.Logger) *DecoderRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &DecoderRegistry{
		factories: make(map[string]DecoderFactory),
		logger:    logger,
	}
	r.Register(domain.FlvDecoderID, func(ctx context.Context) (domain.DecoderModule, error) {
		return loadFFmpegModule(ctx, domain.FlvDecoderID, cfg.FFmpeg, "flv", logger)
	})
	return r
}

// Register adds or replaces the factory for id
func (r *DecoderRegistry) Register(id string, factory DecoderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
}

// Load runs the factory registered for id
func (r *DecoderRegistry) Load(ctx context.Context, id string) (domain.DecoderModule, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrDecoderNotFound)
	}

	r.logger.Info("loading decoder extension", "decoder", id)
	return factory(ctx)
}

// ffmpegModule remuxes a container into MPEG-TS that any player understands
type ffmpegModule struct {
	id     string
	binary string
	logger *slog.Logger
}

// loadFFmpegModule checks that ffmpeg exists and can demux format
func loadFFmpegModule(ctx context.Context, id, binary, format string, logger *slog.Logger) (domain.DecoderModule, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", binary, err)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-hide_banner", "-demuxers")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", binary, err)
	}
	if !hasDemuxer(stdout.String(), format) {
		return nil, fmt.Errorf("%s cannot demux %s", binary, format)
	}

	logger.Debug("decoder extension ready", "decoder", id, "ffmpeg", path)
	return &ffmpegModule{id: id, binary: path, logger: logger}, nil
}

// hasDemuxer scans `ffmpeg -demuxers` output for format
func hasDemuxer(listing, format string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		// Rows look like: " D  flv             FLV (Flash Video)"
		if len(fields) < 2 || !strings.Contains(fields[0], "D") {
			continue
		}
		for _, name := range strings.Split(fields[1], ",") {
			if name == format {
				return true
			}
		}
	}
	return false
}

func (m *ffmpegModule) ID() string { return m.id }

// CreateSession reserves a loopback address for the remuxed stream
func (m *ffmpegModule) CreateSession(cfg domain.SessionConfig) (domain.DecoderSession, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("session needs a media URL")
	}
	addr, err := reserveLoopback()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve stream address: %w", err)
	}
	return &ffmpegSession{
		binary: m.binary,
		input:  cfg.URL,
		format: cfg.Type,
		output: "http://" + addr + "/stream.ts",
		logger: m.logger,
	}, nil
}

func reserveLoopback() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr, nil
}

// ffmpegSession serves the remuxed stream on a loopback HTTP address
type ffmpegSession struct {
	mu      sync.Mutex
	binary  string
	input   string
	format  string
	output  string
	element domain.MediaElement
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// AttachMediaElement points el at the session output, replacing any raw source
func (s *ffmpegSession) AttachMediaElement(el domain.MediaElement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := el.Source(); prev != "" && prev != s.output {
		s.logger.Debug("decoder session taking over element", "previous", prev)
	}
	s.element = el
	el.SetSource(s.output)
	return nil
}

// Load starts ffmpeg listening on the session output
func (s *ffmpegSession) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.element == nil {
		return fmt.Errorf("no media element attached")
	}
	if s.cmd != nil {
		return nil
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	if s.format != "" {
		args = append(args, "-f", s.format)
	}
	args = append(args, "-i", s.input, "-c", "copy", "-f", "mpegts", "-listen", "1", s.output)

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, s.binary, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start decoder: %w", err)
	}

	s.cmd = cmd
	s.cancel = cancel
	s.logger.Info("decoder session started", "output", s.output)

	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.logger.Warn("decoder session exited", "error", err)
		}
	}()
	return nil
}

// Destroy stops ffmpeg. Safe to call more than once.
func (s *ffmpegSession) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.cmd = nil
	s.element = nil
	return nil
}
