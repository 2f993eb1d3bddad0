// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Platform represents the detected system platform
type Platform struct {
	OS        string // windows, linux, darwin
	Arch      string // amd64, arm64, 386, arm
	Winget    string // resolved winget executable, empty when not found
	Available bool   // whether winget can be run
}

// Detect detects the current platform and locates winget. executable is the
// configured winget path, which may be empty.
func Detect(executable string) (*Platform, error) {
	p := &Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	path, err := ResolveExecutable(executable)
	if err == nil {
		p.Winget = path
		p.Available = true
	}

	// Off Windows winget only exists behind an explicit path (e.g. a wrapper script)
	if p.OS != "windows" && executable == "" && !p.Available {
		return nil, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	return p, nil
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	winget := p.Winget
	if !p.Available {
		winget = "not found"
	}
	return fmt.Sprintf("%s/%s (winget: %s)", p.OS, p.Arch, winget)
}
