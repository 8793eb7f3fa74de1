package ytdlp

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissingURL is returned when a command is built without a target URL.
var ErrMissingURL = errors.New("no URL specified")

const (
	defaultBinary         = "yt-dlp"
	defaultOutputTemplate = "%(title)s-%(id)s.%(ext)s"
	subtitleLangs         = "ja,en"
)

// CommandSpec is the resolved executable name plus the ordered argument
// vector for one invocation. It is built once and consumed exactly once by
// the spawn call.
type CommandSpec struct {
	Binary string
	Args   []string
}

// BuildCommand maps a download configuration to a yt-dlp invocation. The
// flag ordering is stable. Every value is a discrete argument token; nothing
// is shell-concatenated.
func BuildCommand(cfg DownloadConfig, binary string) (CommandSpec, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return CommandSpec{}, ErrMissingURL
	}

	if binary == "" {
		binary = defaultBinary
	}

	args := []string{"--newline", "--progress"}

	args = append(args, "-f", cfg.Quality.FormatSelector())
	if cfg.Quality.NeedsAudioExtraction() {
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "0")
	}

	if cfg.CookieBrowser != "" {
		args = append(args, "--cookies-from-browser", cfg.CookieBrowser)
	}

	template := cfg.OutputTemplate
	if template == "" {
		template = defaultOutputTemplate
	}

	output := template
	if cfg.OutputDir != "" {
		output = filepath.Join(cfg.OutputDir, template)
	}

	args = append(args, "-o", output)

	if cfg.Playlist {
		if cfg.PlaylistStart > 0 {
			args = append(args, "--playlist-start", strconv.Itoa(cfg.PlaylistStart))
		}

		if cfg.PlaylistEnd > 0 {
			args = append(args, "--playlist-end", strconv.Itoa(cfg.PlaylistEnd))
		}
	} else {
		args = append(args, "--no-playlist")
	}

	if cfg.Subtitles {
		args = append(args, "--write-subs", "--write-auto-subs", "--sub-lang", subtitleLangs)
	}

	if cfg.Metadata {
		args = append(args, "--write-info-json", "--write-description", "--write-thumbnail")
	}

	if cfg.RateLimit != "" {
		args = append(args, "--limit-rate", cfg.RateLimit)
	}

	args = append(args, "--retries", strconv.Itoa(cfg.Retries))

	if cfg.ArchivePath != "" {
		args = append(args, "--download-archive", cfg.ArchivePath)
	}

	args = append(args, "--no-warnings", "--ignore-errors", "--no-continue")
	args = append(args, cfg.URL)

	return CommandSpec{Binary: binary, Args: args}, nil
}
