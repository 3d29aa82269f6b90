package library

import (
	"os"
	"path/filepath"
	"testing"
)

const fixture = `osu file format v14

[General]
AudioFilename: audio.mp3
Mode: 0

[Metadata]
Title:Index Me
Artist:Somebody
Creator:someone
Version:Normal

[Difficulty]
CircleSize:4
OverallDifficulty:7

[TimingPoints]
0,500,4,2,0,60,1,0

[HitObjects]
256,192,1000,1,0,0:0:0:0:
`

func testLibrary(t *testing.T) *DefaultLibrary {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "Somebody - Index Me")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "map.osu"), []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}
	// A file that does not parse must not poison the index.
	if err := os.WriteFile(filepath.Join(dir, "broken.osu"), []byte("not a beatmap"), 0644); err != nil {
		t.Fatal(err)
	}
	l := &DefaultLibrary{Root: root}
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(l.Deinit)
	return l
}

func TestRebuildAndList(t *testing.T) {
	l := testLibrary(t)

	count, err := l.Rebuild()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Log("indexed", count)
		t.Fail()
	}

	entries, err := l.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatal("entries", entries)
	}
	e := entries[0]
	if e.Title != "Index Me" || e.Artist != "Somebody" || e.Version != "Normal" {
		t.Log("entry", e)
		t.Fail()
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	l := testLibrary(t)

	if _, err := l.Rebuild(); err != nil {
		t.Fatal(err)
	}
	count, err := l.Rebuild()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Log("second rebuild indexed", count)
		t.Fail()
	}
	entries, _ := l.List()
	if len(entries) != 1 {
		t.Log("duplicated entries", entries)
		t.Fail()
	}
}
