package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"git.lost.host/meutraa/circles/internal/config"
	"git.lost.host/meutraa/circles/internal/library"
)

func main() {
	config.Parse()
	if !*config.Verbose {
		// The alternate screen buffer owns the terminal; keep quiet
		// unless asked.
		log.SetOutput(io.Discard)
	}
	if err := run(); nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if *config.BuildIndex || *config.ListMaps {
		return runLibrary()
	}

	if *config.BeatmapPath == "" {
		return errors.New("no beatmap given, see --help")
	}

	p := &Program{}
	if err := p.Init(*config.BeatmapPath); nil != err {
		return err
	}
	defer p.Deinit()
	return p.Run()
}

func runLibrary() error {
	l := &library.DefaultLibrary{}
	if err := l.Init(); nil != err {
		return err
	}
	defer l.Deinit()

	if *config.BuildIndex {
		count, err := l.Rebuild()
		if nil != err {
			return fmt.Errorf("unable to rebuild the index: %w", err)
		}
		fmt.Printf("indexed %v beatmaps under %v\n", count, l.Root)
	}
	if *config.ListMaps {
		entries, err := l.List()
		if nil != err {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s - %s [%s]\n\t%s\n", e.Artist, e.Title, e.Version, e.Path)
		}
	}
	return nil
}
