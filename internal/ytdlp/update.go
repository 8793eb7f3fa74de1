package ytdlp

import (
	"context"
	"os/exec"
	"strings"

	"github.com/NamanBalaji/ytdl/internal/logger"
)

// Update brings yt-dlp up to date, preferring a pip upgrade and falling
// back to the tool's own --update mechanism. Update failure is never fatal;
// it reports whether an update mechanism succeeded.
func Update(ctx context.Context, binary string) bool {
	if binary == "" {
		binary = defaultBinary
	}

	if err := exec.CommandContext(ctx, "pip", "install", "--upgrade", "yt-dlp").Run(); err == nil {
		logger.Infof("updated yt-dlp via pip")

		return true
	}

	if err := exec.CommandContext(ctx, binary, "--update").Run(); err == nil {
		logger.Infof("updated yt-dlp via --update")

		return true
	}

	logger.Warnf("yt-dlp self-update skipped; a manual update may be required")

	return false
}

// Version returns the installed yt-dlp version string, or ErrBinaryNotFound
// when the tool cannot be executed.
func Version(ctx context.Context, binary string) (string, error) {
	if binary == "" {
		binary = defaultBinary
	}

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", ErrBinaryNotFound
	}

	return strings.TrimSpace(string(out)), nil
}
