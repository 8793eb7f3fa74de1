package ytdlp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedProgress is returned for lines that carry the download marker
// and a percent clause that cannot be parsed. Such lines are recoverable and
// are dropped by the pipeline.
var ErrMalformedProgress = errors.New("malformed progress line")

const downloadMarker = "[download]"

// Single pattern with optional groups, e.g.
//
//	[download]  45.2% of 123.45MiB at 1.23MiB/s ETA 00:42
//
// The "of", "at" and "ETA" clauses are each independently optional.
var progressRe = regexp.MustCompile(
	`\[download\]\s+(?P<percent>[\d.]+)%` +
		`(?:\s+of\s+~?\s*(?P<total>[\d.]+)(?P<totalUnit>[A-Za-z]+))?` +
		`(?:\s+at\s+(?P<speed>[\d.]+)(?P<speedUnit>[A-Za-z]+)/s)?` +
		`(?:\s+ETA\s+(?P<eta>[\d:]+))?`)

var (
	idxPercent   = progressRe.SubexpIndex("percent")
	idxTotal     = progressRe.SubexpIndex("total")
	idxTotalUnit = progressRe.SubexpIndex("totalUnit")
	idxSpeed     = progressRe.SubexpIndex("speed")
	idxSpeedUnit = progressRe.SubexpIndex("speedUnit")
	idxETA       = progressRe.SubexpIndex("eta")
)

// ProgressEvent is a structured snapshot of download completion state
// derived from one yt-dlp output line. Optional fields are nil when the
// corresponding clause was absent.
type ProgressEvent struct {
	Percent    float64
	Downloaded *int64
	Total      *int64
	SpeedBPS   *float64
	ETA        *time.Duration
}

// ParseProgressLine extracts a progress event from a single output line.
// Lines without the download marker yield (nil, nil). Marker lines whose
// percent clause is malformed yield ErrMalformedProgress; marker lines
// without a percent clause at all are plain status lines and yield
// (nil, nil) so the pipeline can surface them verbatim.
func ParseProgressLine(line string) (*ProgressEvent, error) {
	if !strings.Contains(line, downloadMarker) {
		return nil, nil
	}

	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		if strings.Contains(line, "%") {
			return nil, fmt.Errorf("%w: %s", ErrMalformedProgress, strings.TrimSpace(line))
		}

		return nil, nil
	}

	percent, err := strconv.ParseFloat(m[idxPercent], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad percent %q", ErrMalformedProgress, m[idxPercent])
	}

	ev := &ProgressEvent{Percent: percent}

	if m[idxTotal] != "" {
		val, err := strconv.ParseFloat(m[idxTotal], 64)
		if err == nil {
			total := truncateBytes(val, m[idxTotalUnit])
			downloaded := int64(float64(total) * percent / 100)
			ev.Total = &total
			ev.Downloaded = &downloaded
		}
	}

	if m[idxSpeed] != "" {
		val, err := strconv.ParseFloat(m[idxSpeed], 64)
		if err == nil {
			speed := val * sizeMultiplier(m[idxSpeedUnit])
			ev.SpeedBPS = &speed
		}
	}

	if m[idxETA] != "" {
		if eta, ok := parseClock(m[idxETA]); ok {
			ev.ETA = &eta
		}
	}

	return ev, nil
}

func sizeMultiplier(unit string) float64 {
	switch unit {
	case "KiB":
		return 1024
	case "MiB":
		return 1024 * 1024
	case "GiB":
		return 1024 * 1024 * 1024
	default:
		return 1
	}
}

func truncateBytes(val float64, unit string) int64 {
	return int64(val * sizeMultiplier(unit))
}

// parseClock accepts exactly minutes:seconds, both integer. Any other
// shape means the ETA is unknown, not an error.
func parseClock(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}

	m, err1 := strconv.Atoi(parts[0])
	sec, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}

	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, true
}

// FormatBytes renders a byte count using the largest binary unit that fits.
func FormatBytes(n int64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}

	size := float64(n)
	idx := 0

	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}

	return fmt.Sprintf("%.2f %s", size, units[idx])
}

// FormatDuration renders a duration as MM:SS. Minutes overflow the
// two-digit field unclamped.
func FormatDuration(d time.Duration) string {
	total := int64(d.Seconds())

	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DownloadedString renders the downloaded byte count, or "unknown".
func (e ProgressEvent) DownloadedString() string {
	if e.Downloaded == nil {
		return "unknown"
	}

	return FormatBytes(*e.Downloaded)
}

// TotalString renders the total byte count, or "unknown".
func (e ProgressEvent) TotalString() string {
	if e.Total == nil {
		return "unknown"
	}

	return FormatBytes(*e.Total)
}

// SpeedString renders the transfer speed, or "unknown".
func (e ProgressEvent) SpeedString() string {
	if e.SpeedBPS == nil {
		return "unknown"
	}

	return FormatBytes(int64(*e.SpeedBPS)) + "/s"
}

// ETAString renders the remaining time, or "unknown".
func (e ProgressEvent) ETAString() string {
	if e.ETA == nil {
		return "unknown"
	}

	return FormatDuration(*e.ETA)
}
