package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/NamanBalaji/ytdl/internal/logger"
)

var (
	// ErrBinaryNotFound indicates the configured yt-dlp binary was not found.
	ErrBinaryNotFound = errors.New("yt-dlp binary not found")
	// ErrLaunchFailed indicates the yt-dlp process could not be spawned.
	ErrLaunchFailed = errors.New("failed to launch yt-dlp")
)

// Display receives live progress updates. Only the stdout consumer writes
// to it while the pipeline runs; the pipeline always finalizes it before
// returning.
type Display interface {
	Update(ev ProgressEvent)
	Println(line string)
	Finish(msg string)
}

// FailureReason classifies why a completed run failed.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonBotChallenge
	ReasonCookieLocked
	ReasonGeneric
)

// String returns a stable label for the reason, used in run history.
func (r FailureReason) String() string {
	switch r {
	case ReasonBotChallenge:
		return "bot-challenge"
	case ReasonCookieLocked:
		return "cookie-locked"
	case ReasonGeneric:
		return "failed"
	default:
		return "success"
	}
}

// Outcome is the classified result of a completed yt-dlp run.
type Outcome struct {
	Success    bool
	Reason     FailureReason
	ExitCode   int
	Diagnostic string
}

// Err converts a failed outcome into an error; a successful outcome yields nil.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}

	switch o.Reason {
	case ReasonBotChallenge:
		return errors.New("YouTube authentication required: sign in with your browser and retry")
	case ReasonCookieLocked:
		return errors.New("cookie store is locked: close the browser and retry")
	default:
		return fmt.Errorf("yt-dlp exited with code %d", o.ExitCode)
	}
}

// Remediation returns targeted guidance for the failure, or "" when only
// the raw diagnostic applies.
func (o Outcome) Remediation() string {
	switch o.Reason {
	case ReasonBotChallenge:
		return `YouTube asked for browser cookie authentication.

How to fix:
  1. Open Chrome and sign in to YouTube.
  2. Run this tool again with --cookies chrome.

To use another browser:
  --cookies firefox
  --cookies edge`
	case ReasonCookieLocked:
		return `The browser cookie database could not be copied.

How to fix (try any of the following):
  1. Quit Chrome completely and run this tool again.
  2. Kill any remaining Chrome processes.
  3. Use Firefox instead: ytdl --cookies firefox <URL>
  4. Use Edge instead: ytdl --cookies edge <URL>

Hint: the cookie file is locked while the browser is running.`
	default:
		return ""
	}
}

// Runner spawns yt-dlp and drives the progress pipeline for one invocation.
type Runner struct {
	verbose bool
}

// NewRunner creates a runner. With verbose set, non-progress output lines
// are surfaced through the display instead of being discarded.
func NewRunner(verbose bool) *Runner {
	return &Runner{verbose: verbose}
}

// Run spawns the command and drains both output streams concurrently until
// the process exits: stdout feeds the progress parser and the display,
// stderr is buffered verbatim for failure classification. The display is
// finalized on every path past a successful spawn.
func (r *Runner) Run(ctx context.Context, spec CommandSpec, display Display) (Outcome, error) {
	if _, err := exec.LookPath(spec.Binary); err != nil {
		return Outcome{}, ErrBinaryNotFound
	}

	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	var stderrLines []string

	g := new(errgroup.Group)
	g.Go(func() error {
		r.drainStdout(stdout, display)

		return nil
	})
	g.Go(func() error {
		stderrLines = drainStderr(stderr)

		return nil
	})

	// Both consumers terminate on their stream's end-of-input; join them
	// before waiting on exit status.
	_ = g.Wait()

	waitErr := cmd.Wait()
	if waitErr == nil {
		// Warnings on stderr do not matter once the tool exits cleanly.
		display.Finish("done")

		return Outcome{Success: true, Reason: ReasonNone}, nil
	}

	display.Finish("failed")

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return Outcome{}, fmt.Errorf("failed to wait for yt-dlp: %w", waitErr)
	}

	return classifyFailure(exitErr.ExitCode(), strings.Join(stderrLines, "\n")), nil
}

// drainStdout reads raw bytes up to each newline; the output is not
// guaranteed to be well-formed text, so invalid bytes are replaced.
func (r *Runner) drainStdout(rd io.Reader, display Display) {
	br := bufio.NewReader(rd)

	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			line := strings.TrimRight(strings.ToValidUTF8(raw, string(utf8.RuneError)), "\r\n")
			r.handleLine(line, display)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debugf("yt-dlp stdout read error: %v", err)
			}

			return
		}
	}
}

func (r *Runner) handleLine(line string, display Display) {
	if strings.TrimSpace(line) == "" {
		return
	}

	ev, err := ParseProgressLine(line)

	switch {
	case err != nil:
		// Recoverable; the display is left untouched.
		logger.Debugf("dropping line: %v", err)
	case ev != nil:
		display.Update(*ev)
	case strings.Contains(line, downloadMarker):
		display.Println(line)
	case r.verbose:
		display.Println(line)
	}
}

func drainStderr(rd io.Reader) []string {
	var lines []string

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		logger.Debugf("yt-dlp stderr read error: %v", err)
	}

	return lines
}

const (
	botChallengePhrase = "Sign in to confirm you're not a bot"
	cookieLockedPhrase = "Could not copy Chrome cookie database"
)

// classifyFailure maps a non-zero exit to a typed outcome by inspecting the
// diagnostic buffer. The substring checks are tied to yt-dlp's current
// message wording; keeping them in one place means a wording change touches
// only this function.
func classifyFailure(exitCode int, diagnostic string) Outcome {
	out := Outcome{ExitCode: exitCode, Diagnostic: diagnostic}

	switch {
	case strings.Contains(diagnostic, botChallengePhrase):
		out.Reason = ReasonBotChallenge
	case strings.Contains(diagnostic, cookieLockedPhrase):
		out.Reason = ReasonCookieLocked
	default:
		out.Reason = ReasonGeneric
	}

	return out
}
