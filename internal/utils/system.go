package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SystemInfo holds information about the current system
type SystemInfo struct {
	OS           string
	Architecture string
	PID          int
}

// DetectSystem returns information about the current operating system and architecture
func DetectSystem() SystemInfo {
	return SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		PID:          os.Getpid(),
	}
}

// --------------------------------------
// LOG DIRECTORY
// --------------------------------------

// ResolveLogDir picks the directory holding agent.log. ProgramData is only
// set on Windows, where the service often runs with System32 as cwd.
func ResolveLogDir(explicit string) string {
	if dir := strings.TrimSpace(explicit); dir != "" {
		return dir
	}
	if programData := strings.TrimSpace(os.Getenv("ProgramData")); programData != "" {
		return filepath.Join(programData, "PrintAgent")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "PrintAgent"
	}
	return filepath.Join(cwd, "PrintAgent")
}
