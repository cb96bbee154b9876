// Package xdg exposes the wayfinder directories resolved by the config
// package as port.XDGPaths.
package xdg

import (
	"path/filepath"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/infrastructure/config"
)

// Adapter resolves every directory on each call so a changed environment
// (tests, ENV=dev) is picked up.
type Adapter struct{}

var _ port.XDGPaths = (*Adapter)(nil)

// New returns the adapter.
func New() *Adapter {
	return &Adapter{}
}

func (*Adapter) ConfigDir() (string, error) {
	return resolve(func(d *config.XDGDirs) string { return d.ConfigHome })
}

func (*Adapter) DataDir() (string, error) {
	return resolve(func(d *config.XDGDirs) string { return d.DataHome })
}

func (*Adapter) StateDir() (string, error) {
	return resolve(func(d *config.XDGDirs) string { return d.StateHome })
}

func (*Adapter) CacheDir() (string, error) {
	return resolve(func(d *config.XDGDirs) string { return d.CacheHome })
}

// FilterCacheDir holds downloaded lists and their compiled snapshots.
func (*Adapter) FilterCacheDir() (string, error) {
	return resolve(func(d *config.XDGDirs) string { return filepath.Join(d.CacheHome, "filters") })
}

func resolve(pick func(*config.XDGDirs) string) (string, error) {
	dirs, err := config.GetXDGDirs()
	if err != nil {
		return "", err
	}
	return pick(dirs), nil
}
