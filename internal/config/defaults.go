package config

import (
	"github.com/adrg/xdg"
)

const (
	binaryName     = "yt-dlp"
	outputTemplate = "%(title)s-%(id)s.%(ext)s"
	retryCount     = 3
	archiveName    = "downloaded.txt"
	updateOnStart  = true
)

var downloadDir = xdg.UserDirs.Download
