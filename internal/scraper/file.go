package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var ErrMalformedOutput = errors.New("failed to parse generated JSON file")

// ReadScrapedFile reads and decodes the JSON file skraper produced. Files
// that are not valid UTF-8 are re-decoded as Latin-1 before parsing; skraper
// occasionally emits that for some networks.
func ReadScrapedFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read generated file at %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		slog.Warn("[ScrapeRunner] Generated file is not valid UTF-8, retrying as Latin-1",
			slog.String("path", path))
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, decErr.Error())
		}
		data = decoded
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err.Error())
	}

	return payload, nil
}

// RemoveScrapedFile deletes the temporary file skraper produced. Failure is
// logged, not propagated.
func RemoveScrapedFile(path string) {
	if err := os.Remove(path); err != nil {
		slog.Warn("[ScrapeRunner] Failed to remove temporary file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	slog.Info("[ScrapeRunner] Cleaned up temporary file",
		slog.String("path", path))
}
