// pkg/platform/resolver.go
package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvWingetPath overrides the winget executable location
const EnvWingetPath = "WUPD_WINGET_PATH"

// ResolveExecutable finds the winget executable to run.
//
// Priority:
// 1. Explicitly configured path
// 2. WUPD_WINGET_PATH
// 3. winget on PATH
// 4. The App Installer alias under %LOCALAPPDATA%\Microsoft\WindowsApps
func ResolveExecutable(configured string) (string, error) {
	if configured != "" {
		return lookPath(configured)
	}

	if env := os.Getenv(EnvWingetPath); env != "" {
		return lookPath(env)
	}

	if path, err := lookPath("winget"); err == nil {
		return path, nil
	}

	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		alias := filepath.Join(local, "Microsoft", "WindowsApps", "winget.exe")
		if fileExists(alias) {
			return alias, nil
		}
	}

	return "", fmt.Errorf("winget executable not found")
}
