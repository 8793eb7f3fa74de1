package ytdlp

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestParseProgressLineFull(t *testing.T) {
	t.Parallel()

	line := "[download]  45.2% of 123.45MiB at 1.23MiB/s ETA 00:42"

	ev, err := ParseProgressLine(line)
	if err != nil {
		t.Fatalf("ParseProgressLine returned error: %v", err)
	}

	if ev == nil {
		t.Fatal("expected an event")
	}

	if ev.Percent != 45.2 {
		t.Fatalf("percent = %f, want 45.2", ev.Percent)
	}

	totalBytes := 123.45 * 1024 * 1024
	wantTotal := int64(totalBytes)
	if ev.Total == nil || *ev.Total != wantTotal {
		t.Fatalf("total = %v, want %d", ev.Total, wantTotal)
	}

	wantDownloaded := int64(float64(wantTotal) * 45.2 / 100)
	if ev.Downloaded == nil || *ev.Downloaded != wantDownloaded {
		t.Fatalf("downloaded = %v, want %d", ev.Downloaded, wantDownloaded)
	}

	wantSpeed := 1.23 * 1024 * 1024
	if ev.SpeedBPS == nil || math.Abs(*ev.SpeedBPS-wantSpeed) > 1e-6 {
		t.Fatalf("speed = %v, want %f", ev.SpeedBPS, wantSpeed)
	}

	if ev.ETA == nil || *ev.ETA != 42*time.Second {
		t.Fatalf("eta = %v, want 42s", ev.ETA)
	}
}

func TestParseProgressLineOptionalClauses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantTotal bool
		wantSpeed bool
		wantETA   bool
	}{
		{"percent_only", "[download]  12.0%", false, false, false},
		{"no_speed", "[download]  12.0% of 4.00MiB ETA 01:00", true, false, true},
		{"no_eta", "[download]  12.0% of 4.00MiB at 2.00KiB/s", true, true, false},
		{"approximate_total", "[download]  12.0% of ~4.00GiB at 2.00KiB/s ETA 00:05", true, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, err := ParseProgressLine(tt.line)
			if err != nil || ev == nil {
				t.Fatalf("ParseProgressLine(%q) = (%v, %v), want event", tt.line, ev, err)
			}

			if (ev.Total != nil) != tt.wantTotal {
				t.Fatalf("total presence = %v, want %v", ev.Total != nil, tt.wantTotal)
			}

			if (ev.Downloaded != nil) != tt.wantTotal {
				t.Fatalf("downloaded presence must follow total")
			}

			if (ev.SpeedBPS != nil) != tt.wantSpeed {
				t.Fatalf("speed presence = %v, want %v", ev.SpeedBPS != nil, tt.wantSpeed)
			}

			if (ev.ETA != nil) != tt.wantETA {
				t.Fatalf("eta presence = %v, want %v", ev.ETA != nil, tt.wantETA)
			}
		})
	}
}

func TestParseProgressLineBoundaries(t *testing.T) {
	t.Parallel()

	t.Run("no_marker_is_no_match", func(t *testing.T) {
		t.Parallel()

		ev, err := ParseProgressLine("100% of something else entirely")
		if ev != nil || err != nil {
			t.Fatalf("expected no match, got (%v, %v)", ev, err)
		}
	})

	t.Run("marker_with_bad_percent_is_parse_error", func(t *testing.T) {
		t.Parallel()

		for _, line := range []string{
			"[download]  ..% of 4.00MiB",
			"[download]  NaN% of 4.00MiB",
		} {
			ev, err := ParseProgressLine(line)
			if !errors.Is(err, ErrMalformedProgress) {
				t.Fatalf("ParseProgressLine(%q) error = %v, want ErrMalformedProgress", line, err)
			}

			if ev != nil {
				t.Fatalf("no event expected for %q", line)
			}
		}
	})

	t.Run("marker_status_line_is_no_match", func(t *testing.T) {
		t.Parallel()

		ev, err := ParseProgressLine("[download] Destination: movie.mp4")
		if ev != nil || err != nil {
			t.Fatalf("expected no match, got (%v, %v)", ev, err)
		}
	})
}

func TestParseProgressLineIdempotent(t *testing.T) {
	t.Parallel()

	line := "[download]  45.2% of 123.45MiB at 1.23MiB/s ETA 00:42"

	first, err1 := ParseProgressLine(line)
	second, err2 := ParseProgressLine(line)

	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parsing is not idempotent: %#v vs %#v", first, second)
	}
}

func TestDownloadedBytesFloorProperty(t *testing.T) {
	t.Parallel()

	totals := []int64{0, 1, 999, 1024, 123456, 987654321}

	for _, total := range totals {
		for pct := 0; pct <= 100; pct++ {
			line := fmt.Sprintf("[download]  %d.0%% of %dB", pct, total)

			ev, err := ParseProgressLine(line)
			if err != nil || ev == nil {
				t.Fatalf("ParseProgressLine(%q) = (%v, %v)", line, ev, err)
			}

			expected := int64(math.Floor(float64(total) * float64(pct) / 100))
			if ev.Downloaded == nil || *ev.Downloaded != expected {
				t.Fatalf("downloaded for total=%d pct=%d = %v, want %d", total, pct, ev.Downloaded, expected)
			}

			if ev.Total != nil && *ev.Downloaded > *ev.Total {
				t.Fatalf("downloaded %d exceeds total %d", *ev.Downloaded, *ev.Total)
			}
		}
	}
}

func TestSizeMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unit     string
		expected float64
	}{
		{"KiB", 1024},
		{"MiB", 1024 * 1024},
		{"GiB", 1024 * 1024 * 1024},
		{"B", 1},
		{"XYZ", 1},
	}

	for _, tt := range tests {
		if got := sizeMultiplier(tt.unit); got != tt.expected {
			t.Fatalf("sizeMultiplier(%q) = %f, want %f", tt.unit, got, tt.expected)
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected time.Duration
		ok       bool
	}{
		{"01:30", 90 * time.Second, true},
		{"00:42", 42 * time.Second, true},
		{"61:01", 61*time.Minute + time.Second, true},
		{"invalid", 0, false},
		{"1:02:03", 0, false},
		{"::", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := parseClock(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseClock(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if ok && got != tt.expected {
				t.Fatalf("parseClock(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    int64
		expected string
	}{
		{512, "512.00 B"},
		{1024, "1.00 KiB"},
		{1024 * 1024, "1.00 MiB"},
		{1536 * 1024 * 1024, "1.50 GiB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.input); got != tt.expected {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    time.Duration
		expected string
	}{
		{30 * time.Second, "00:30"},
		{90 * time.Second, "01:30"},
		{3661 * time.Second, "61:01"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Fatalf("FormatDuration(%s) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEventStringsUnknown(t *testing.T) {
	t.Parallel()

	ev := ProgressEvent{Percent: 10}

	if ev.TotalString() != "unknown" || ev.DownloadedString() != "unknown" ||
		ev.SpeedString() != "unknown" || ev.ETAString() != "unknown" {
		t.Fatalf("absent fields should render as unknown: %+v", ev)
	}
}
