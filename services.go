package main

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var defaultOpenPath = func(location string) error {
	return openPathForOS(runtime.GOOS, location)
}

// openPathForOS dispatches a bookmark location to the platform opener.
// URLs and filesystem paths both go through the same command; the OS picks
// the handler.
func openPathForOS(goos string, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("empty location")
	}
	if !isURL(location) {
		if _, err := os.Stat(location); err != nil {
			return errors.New("path does not exist")
		}
	}
	cmdName, args := openCommandForOS(goos, location)
	if cmdName == "" {
		return errors.New("unsupported platform")
	}
	cmd := exec.Command(cmdName, args...)
	return cmd.Start()
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func openCommandForOS(goos string, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}
	default:
		return "", nil
	}
}
