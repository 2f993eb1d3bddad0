// pkg/platform/utils.go
package platform

import (
	"os"
	"os/exec"
)

// lookPath resolves a command name or path to an executable
func lookPath(cmd string) (string, error) {
	return exec.LookPath(cmd)
}

// fileExists checks if a regular file exists at path
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
