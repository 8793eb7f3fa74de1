package ytdlp

import (
	"errors"
	"fmt"
)

// DownloadConfig describes a single yt-dlp invocation. It is built once
// from merged CLI and interactive input, validated, and read-only for the
// remainder of the run.
type DownloadConfig struct {
	URL            string
	Quality        Quality
	OutputDir      string
	OutputTemplate string

	// CookieBrowser is the canonical credential-source token, empty when
	// cookies are not used.
	CookieBrowser string

	Playlist      bool
	PlaylistStart int // 1-based, 0 when unset
	PlaylistEnd   int // 1-based, 0 when unset

	Subtitles bool
	Metadata  bool

	RateLimit   string // passed through verbatim, e.g. "1M", "500K"
	Retries     int
	ArchivePath string
	Verbose     bool
}

// Quality is the subset of the quality policy the command builder needs.
type Quality interface {
	FormatSelector() string
	NeedsAudioExtraction() bool
}

// Validate checks the configuration before any invocation is built.
func (c DownloadConfig) Validate() error {
	if c.Retries < 0 {
		return fmt.Errorf("retry count must not be negative, got %d", c.Retries)
	}

	if c.PlaylistStart < 0 || c.PlaylistEnd < 0 {
		return errors.New("playlist positions are 1-based")
	}

	if c.PlaylistStart > 0 && c.PlaylistEnd > 0 && c.PlaylistStart > c.PlaylistEnd {
		return fmt.Errorf("playlist start position (%d) is greater than end position (%d)", c.PlaylistStart, c.PlaylistEnd)
	}

	return nil
}
