package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"git.lost.host/meutraa/circles/internal/audio"
	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/config"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
	"git.lost.host/meutraa/circles/internal/screen"
	"git.lost.host/meutraa/circles/internal/sound"
)

// soundPlayer binds the sample library to the player's mixer tracks.
type soundPlayer struct {
	player  *audio.Player
	library *sound.Library
}

func (s *soundPlayer) PlayHitSound(h beatmap.HitSound) {
	s.library.PlayHitSound(s.player, h)
}

func (s *soundPlayer) StopLoop() {
	s.player.StopLoop()
}

type Program struct {
	Beatmap  *beatmap.Beatmap
	Player   *audio.Player
	Library  *sound.Library
	Game     *game.Game
	Renderer *render.DefaultRenderer
	View     *render.View

	events       chan input.Event
	usesTerminal bool
	stopped      int32
	initialized  bool
}

func (p *Program) Init(path string) error {
	b, err := beatmap.Load(path)
	if nil != err {
		return fmt.Errorf("unable to load beatmap: %w", err)
	}
	if err := b.Validate(); nil != err {
		return fmt.Errorf("invalid beatmap: %w", err)
	}
	if b.Mode != beatmap.ModeOsu {
		log.Println("beatmap mode", b.Mode, "is not interpreted, playing as osu")
	}
	p.Beatmap = b

	audioPath := filepath.Join(filepath.Dir(path), b.AudioFilename)
	p.Player, err = audio.OpenPlayer(audioPath, config.AudioBufferLength)
	if nil != err {
		return fmt.Errorf("unable to open audio: %w", err)
	}

	p.Library = sound.NewLibrary(p.Player.SampleRate())
	p.Library.LoadBeatmap(b)

	p.Game = game.New(b, p.Player, &soundPlayer{player: p.Player, library: p.Library})
	p.Game.Autoplay = *config.Autoplay
	p.Game.Pointer = &game.AssistPointer{Game: p.Game}

	p.events = make(chan input.Event, 128)
	if *config.Device != "" {
		err = input.ReadDevice(*config.Device, p.events)
	} else {
		err = input.ReadTerminal(p.events)
		p.usesTerminal = err == nil
	}
	if nil != err {
		p.Player.Close()
		return fmt.Errorf("unable to open keyboard: %w", err)
	}

	p.Renderer = &render.DefaultRenderer{FramePeriod: config.FramePeriod}
	if err := p.Renderer.Init(); nil != err {
		p.Player.Close()
		return err
	}
	w, h := config.WindowSize()
	p.View = render.NewView(p.Renderer, w, h)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		atomic.StoreInt32(&p.stopped, 1)
	}()

	p.initialized = true
	return nil
}

func (p *Program) Run() error {
	var s screen.Screen = &screen.Playing{Game: p.Game}
	if *config.StartPaused {
		p.Game.Pause()
		s = &screen.Paused{Game: p.Game}
	}

	p.Renderer.RenderLoop(func(now time.Time, wall float64) bool {
		if atomic.LoadInt32(&p.stopped) != 0 {
			return false
		}
		for i := len(p.events); i > 0; i-- {
			if s = s.OnEvent(<-p.events); s == nil {
				return false
			}
		}
		if s = s.Update(wall); s == nil {
			return false
		}
		s.Draw(p.View)
		return true
	})

	log.Println("missed frames:", p.Renderer.MissedFrames())
	return nil
}

func (p *Program) Deinit() {
	if !p.initialized {
		return
	}
	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal:", err)
	}
	if p.usesTerminal {
		if err := input.CloseTerminal(); nil != err {
			log.Println("unable to close keyboard:", err)
		}
	}
	p.Player.Close()
}
