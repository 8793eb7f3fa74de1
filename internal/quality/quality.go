package quality

import (
	"fmt"
	"strings"
)

// Preset selects a download quality profile.
type Preset int

const (
	// MaxVideo downloads the best available video and audio streams.
	MaxVideo Preset = iota
	// MaxAudio downloads the best audio stream only and extracts it to mp3.
	MaxAudio
	// MinVideo downloads the worst available video and audio streams.
	MinVideo
	// MinSize downloads the smallest mp4 variant.
	MinSize
)

// Parse resolves a preset name as accepted on the command line.
func Parse(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max-video":
		return MaxVideo, nil
	case "max-audio":
		return MaxAudio, nil
	case "min-video":
		return MinVideo, nil
	case "min-size":
		return MinSize, nil
	default:
		return MaxVideo, fmt.Errorf("unknown quality preset %q", s)
	}
}

// String returns the preset name as accepted by Parse.
func (p Preset) String() string {
	switch p {
	case MaxAudio:
		return "max-audio"
	case MinVideo:
		return "min-video"
	case MinSize:
		return "min-size"
	default:
		return "max-video"
	}
}

// FormatSelector returns the yt-dlp format selection string for the preset.
func (p Preset) FormatSelector() string {
	switch p {
	case MaxAudio:
		return "bestaudio"
	case MinVideo:
		return "worstvideo+worstaudio/worst"
	case MinSize:
		return "worst[ext=mp4]"
	default:
		return "bestvideo+bestaudio/best"
	}
}

// NeedsAudioExtraction reports whether the preset requires post-download
// audio extraction.
func (p Preset) NeedsAudioExtraction() bool {
	return p == MaxAudio
}

// Description returns a short human-readable description of the preset.
func (p Preset) Description() string {
	switch p {
	case MaxAudio:
		return "best audio only (mp3)"
	case MinVideo:
		return "lowest quality (preview)"
	case MinSize:
		return "smallest file size"
	default:
		return "best quality (up to 4K)"
	}
}
