package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/NamanBalaji/ytdl/internal/prompt"
	"github.com/NamanBalaji/ytdl/internal/quality"
)

func TestAskURL(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := prompt.New(strings.NewReader("  https://example.com/watch?v=abc  \n"), &out)

	url, err := p.AskURL()
	if err != nil {
		t.Fatalf("AskURL returned error: %v", err)
	}

	if url != "https://example.com/watch?v=abc" {
		t.Fatalf("url = %q, want trimmed input", url)
	}

	if !strings.Contains(out.String(), "URL:") {
		t.Fatalf("prompt text not written: %q", out.String())
	}
}

func TestAskURLEmptyInput(t *testing.T) {
	t.Parallel()

	p := prompt.New(strings.NewReader(""), &bytes.Buffer{})

	if _, err := p.AskURL(); err == nil {
		t.Fatal("expected an error on closed input")
	}
}

func TestAskQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected quality.Preset
	}{
		{name: "default_on_enter", input: "\n", expected: quality.MaxVideo},
		{name: "explicit_one", input: "1\n", expected: quality.MaxVideo},
		{name: "audio", input: "2\n", expected: quality.MaxAudio},
		{name: "preview", input: "3\n", expected: quality.MinVideo},
		{name: "smallest", input: "4\n", expected: quality.MinSize},
		{name: "garbage_falls_back", input: "nope\n", expected: quality.MaxVideo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := prompt.New(strings.NewReader(tt.input), &bytes.Buffer{})

			got, err := p.AskQuality()
			if err != nil {
				t.Fatalf("AskQuality returned error: %v", err)
			}

			if got != tt.expected {
				t.Fatalf("preset = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestYesNoPrompts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes_short", input: "y\n", expected: true},
		{name: "yes_long", input: "YES\n", expected: true},
		{name: "no_short", input: "n\n", expected: false},
		{name: "default_no", input: "\n", expected: false},
		{name: "garbage_is_no", input: "sure\n", expected: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := prompt.New(strings.NewReader(tt.input+tt.input), &bytes.Buffer{})

			playlist, err := p.AskPlaylist()
			if err != nil {
				t.Fatalf("AskPlaylist returned error: %v", err)
			}

			if playlist != tt.expected {
				t.Fatalf("AskPlaylist = %v, want %v", playlist, tt.expected)
			}

			subs, err := p.AskSubtitles()
			if err != nil {
				t.Fatalf("AskSubtitles returned error: %v", err)
			}

			if subs != tt.expected {
				t.Fatalf("AskSubtitles = %v, want %v", subs, tt.expected)
			}
		})
	}
}
