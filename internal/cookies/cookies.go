// Package cookies resolves a browser name to the credential-source token
// passed to yt-dlp via --cookies-from-browser, and probes the local cookie
// store so the user can be warned up front when it is missing. The probe is
// best-effort only: yt-dlp performs its own discovery and decryption, so a
// failed probe never blocks the download.
package cookies

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrUnsupportedBrowser is returned when the browser name matches none
	// of the supported browsers.
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	// ErrStoreNotFound indicates the cookie store probe found nothing.
	ErrStoreNotFound = errors.New("cookie store not found")
)

// Browser identifies a supported cookie source.
type Browser int

const (
	Chrome Browser = iota
	Firefox
	Edge
	Brave
	Opera
)

// Parse resolves a case-insensitive browser name.
func Parse(name string) (Browser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chrome":
		return Chrome, nil
	case "firefox":
		return Firefox, nil
	case "edge":
		return Edge, nil
	case "brave":
		return Brave, nil
	case "opera":
		return Opera, nil
	default:
		return Chrome, fmt.Errorf("%w: %q", ErrUnsupportedBrowser, name)
	}
}

// String returns the canonical lowercase token, used verbatim as the
// argument to --cookies-from-browser.
func (b Browser) String() string {
	switch b {
	case Firefox:
		return "firefox"
	case Edge:
		return "edge"
	case Brave:
		return "brave"
	case Opera:
		return "opera"
	default:
		return "chrome"
	}
}

// Locate probes the platform-specific cookie store for the browser and
// returns its path. A missing store or an unresolvable base directory is
// reported as an error; callers treat it as a warning.
func (b Browser) Locate() (string, error) {
	path, err := b.storePath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}

		return "", err
	}

	return path, nil
}

func (b Browser) storePath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return b.windowsStorePath()
	case "darwin":
		return b.darwinStorePath()
	case "linux":
		return b.linuxStorePath()
	default:
		return "", fmt.Errorf("no known cookie store location on %s", runtime.GOOS)
	}
}

func (b Browser) windowsStorePath() (string, error) {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		return "", errors.New("LOCALAPPDATA environment variable is not set")
	}

	switch b {
	case Chrome:
		return filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default", "Network", "Cookies"), nil
	case Firefox:
		// Firefox profiles have randomized names, so only the profile root
		// can be probed.
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable is not set")
		}

		return filepath.Join(appData, "Mozilla", "Firefox", "Profiles"), nil
	case Edge:
		return filepath.Join(localAppData, "Microsoft", "Edge", "User Data", "Default", "Network", "Cookies"), nil
	case Brave:
		return filepath.Join(localAppData, "BraveSoftware", "Brave-Browser", "User Data", "Default", "Network", "Cookies"), nil
	case Opera:
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable is not set")
		}

		return filepath.Join(appData, "Opera Software", "Opera Stable", "Network", "Cookies"), nil
	}

	return "", ErrUnsupportedBrowser
}

func (b Browser) darwinStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	support := filepath.Join(home, "Library", "Application Support")

	switch b {
	case Chrome:
		return filepath.Join(support, "Google", "Chrome", "Default", "Cookies"), nil
	case Firefox:
		return filepath.Join(support, "Firefox", "Profiles"), nil
	case Edge:
		return filepath.Join(support, "Microsoft Edge", "Default", "Cookies"), nil
	case Brave:
		return filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default", "Cookies"), nil
	case Opera:
		return filepath.Join(support, "com.operasoftware.Opera", "Cookies"), nil
	}

	return "", ErrUnsupportedBrowser
}

func (b Browser) linuxStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	switch b {
	case Chrome:
		return filepath.Join(home, ".config", "google-chrome", "Default", "Cookies"), nil
	case Firefox:
		return filepath.Join(home, ".mozilla", "firefox"), nil
	case Edge:
		return filepath.Join(home, ".config", "microsoft-edge", "Default", "Cookies"), nil
	case Brave:
		return filepath.Join(home, ".config", "BraveSoftware", "Brave-Browser", "Default", "Cookies"), nil
	case Opera:
		return filepath.Join(home, ".config", "opera", "Cookies"), nil
	}

	return "", ErrUnsupportedBrowser
}
