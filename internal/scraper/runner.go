package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	DEFAULT_SKRAPER_PATH   = "/usr/local/bin/skraper"
	DEFAULT_SCRAPE_TIMEOUT = 30 * time.Second

	// outputMarker is the log line fragment skraper prints before the path
	// of the file it produced.
	outputMarker = "has been written to "
)

var allowedNetworks = map[string]bool{
	"twitter":   true,
	"reddit":    true,
	"instagram": true,
	"twitch":    true,
	"pinterest": true,
}

var (
	ErrNetworkNotAllowed   = errors.New("network is not supported")
	ErrBinaryNotFound      = errors.New("skraper binary not found")
	ErrBinaryNotExecutable = errors.New("skraper binary is not executable")
	ErrCommandFailed       = errors.New("skraper command failed")
	ErrCommandTimeout      = errors.New("skraper command timed out")
	ErrOutputPathNotFound  = errors.New("could not find generated file path in skraper output")
)

// NetworkAllowed reports whether the given social network can be scraped.
func NetworkAllowed(network string) bool {
	return allowedNetworks[strings.ToLower(network)]
}

// Runner invokes the external skraper CLI and locates the JSON file it
// writes. It owns no state beyond its configuration.
type Runner struct {
	binPath string
	timeout time.Duration
}

func NewRunner(binPath string, timeout time.Duration) *Runner {
	if binPath == "" {
		binPath = DEFAULT_SKRAPER_PATH
	}
	if timeout <= 0 {
		timeout = DEFAULT_SCRAPE_TIMEOUT
	}
	return &Runner{binPath: binPath, timeout: timeout}
}

// RunResult carries the subprocess log and the path of the produced file.
type RunResult struct {
	Log        string
	OutputPath string
}

// Run executes `skraper <network> <query> -t json` and extracts the produced
// file path from its output. Spaces are stripped from both arguments before
// they reach the subprocess.
func (r *Runner) Run(ctx context.Context, network, query string) (RunResult, error) {
	network = strings.ToLower(network)
	if !allowedNetworks[network] {
		return RunResult{}, fmt.Errorf("%w: %s", ErrNetworkNotAllowed, network)
	}

	if err := r.checkBinary(); err != nil {
		return RunResult{}, err
	}

	safeNetwork := strings.ReplaceAll(network, " ", "")
	safeQuery := strings.ReplaceAll(query, " ", "")

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binPath, safeNetwork, safeQuery, "-t", "json")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	slog.Info("[ScrapeRunner] skraper finished",
		slog.String("network", safeNetwork),
		slog.Duration("elapsed", time.Since(start)))

	if ctx.Err() == context.DeadlineExceeded {
		slog.Error("[ScrapeRunner] skraper command timed out",
			slog.String("network", safeNetwork))
		return RunResult{}, ErrCommandTimeout
	}
	if err != nil {
		slog.Error("[ScrapeRunner] skraper command failed",
			slog.String("network", safeNetwork),
			slog.String("stderr", stderr.String()))
		return RunResult{}, fmt.Errorf("%w: %s", ErrCommandFailed, strings.TrimSpace(stderr.String()))
	}

	log := stdout.String()
	path, ok := ParseOutputPath(log)
	if !ok {
		slog.Warn("[ScrapeRunner] Could not find generated file path in output")
		return RunResult{Log: log}, ErrOutputPathNotFound
	}

	return RunResult{Log: log, OutputPath: path}, nil
}

func (r *Runner) checkBinary() error {
	info, err := os.Stat(r.binPath)
	if err != nil {
		slog.Error("[ScrapeRunner] skraper binary not found",
			slog.String("path", r.binPath))
		return fmt.Errorf("%w at %s", ErrBinaryNotFound, r.binPath)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		slog.Error("[ScrapeRunner] skraper binary is not executable",
			slog.String("path", r.binPath))
		return fmt.Errorf("%w at %s", ErrBinaryNotExecutable, r.binPath)
	}
	return nil
}

// ParseOutputPath scans subprocess output for the line naming the produced
// file and returns the path after the marker.
func ParseOutputPath(log string) (string, bool) {
	for _, line := range strings.Split(log, "\n") {
		if idx := strings.Index(line, outputMarker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(outputMarker):]), true
		}
	}
	return "", false
}
