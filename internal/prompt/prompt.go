// Package prompt implements the interactive mode used when no URL is given
// on the command line.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/NamanBalaji/ytdl/internal/quality"
)

// Prompter asks the user for download settings over a line-oriented stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// AskURL prompts for the target URL.
func (p *Prompter) AskURL() (string, error) {
	fmt.Fprintln(p.out, "\nEnter the URL to download:")
	fmt.Fprintln(p.out, "  e.g. https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	fmt.Fprint(p.out, "\nURL: ")

	return p.readLine()
}

// AskQuality prompts for a quality preset; Enter selects MaxVideo.
func (p *Prompter) AskQuality() (quality.Preset, error) {
	fmt.Fprintln(p.out, "\nSelect download quality:")
	fmt.Fprintln(p.out, "  1. best quality (up to 4K) - default")
	fmt.Fprintln(p.out, "  2. best audio only (mp3)")
	fmt.Fprintln(p.out, "  3. lowest quality (preview)")
	fmt.Fprintln(p.out, "  4. smallest file size")
	fmt.Fprint(p.out, "\nChoice [1-4, Enter=1]: ")

	choice, err := p.readLine()
	if err != nil {
		return quality.MaxVideo, err
	}

	switch choice {
	case "2":
		return quality.MaxAudio, nil
	case "3":
		return quality.MinVideo, nil
	case "4":
		return quality.MinSize, nil
	default:
		return quality.MaxVideo, nil
	}
}

// AskPlaylist asks whether the whole playlist should be downloaded.
func (p *Prompter) AskPlaylist() (bool, error) {
	fmt.Fprintln(p.out, "\nDownload the entire playlist?")
	fmt.Fprint(p.out, "  [y/N]: ")

	return p.readYesNo()
}

// AskSubtitles asks whether subtitles should be downloaded too.
func (p *Prompter) AskSubtitles() (bool, error) {
	fmt.Fprintln(p.out, "\nDownload subtitles as well?")
	fmt.Fprint(p.out, "  [y/N]: ")

	return p.readYesNo()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (p *Prompter) readYesNo() (bool, error) {
	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
