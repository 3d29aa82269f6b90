package game

import "git.lost.host/meutraa/circles/internal/input"

// Mode is a rule set for judging hit objects. Check runs every frame;
// Press and Release react to key events; Autoplay replaces all three when
// the player is a spectator. Relinquish drops any held object without
// judging it, for pauses and seeks.
type Mode interface {
	Check(g *Game)
	Autoplay(g *Game)
	Press(g *Game, key input.Key)
	Release(g *Game, key input.Key)
	Relinquish(g *Game)
}
