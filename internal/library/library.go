// Package library maintains a small index of the beatmaps below the
// player's home directory, so the launcher can list them without
// reparsing every file.
package library

import (
	"os"
	"path/filepath"
)

type Entry struct {
	Path    string
	Title   string
	Artist  string
	Creator string
	Version string
	Mode    int
}

type Library interface {
	Init() error
	Deinit()

	// Rebuild walks the home directory and reindexes every .osu file.
	Rebuild() (int, error)

	// List returns the indexed beatmaps, ordered by artist and title.
	List() ([]Entry, error)
}

// Home is where beatmaps live, from OSHU_HOME or ~/.oshu.
func Home() string {
	if v := os.Getenv("OSHU_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".oshu")
}
