// pkg/core/package.go
package core

import "github.com/arc-language/wupd/pkg/winget"

// Package is an upgradable package as shown to the user
type Package struct {
	winget.PackageRecord
	Held bool `json:"held,omitempty"` // Whether the package is on the holds list
}
