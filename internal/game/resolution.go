package game

import (
	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Recipient says who a resolution is delivered to.
type Recipient int

const (
	// ToOne delivers to the player who sent the action.
	ToOne Recipient = iota
	// ToAll broadcasts to every player in the game.
	ToAll
)

func (r Recipient) String() string {
	if r == ToAll {
		return "all"
	}
	return "one"
}

// Event names carried by resolutions.
const (
	EventGame    = "game event"
	EventIllegal = "illegal action"
	EventEnd     = "game end"
	EventLoaded  = "loading done"
)

// Resolution is the outcome of one submitted action.
type Resolution struct {
	To      Recipient `json:"-"`
	Player  int       `json:"-"`
	Event   string    `json:"event"`
	Content any       `json:"content"`
}

// Update is the content of a legal action's resolution and of the state
// sent to a player who finished loading. Action and Response are empty for
// the latter.
type Update struct {
	Game     *state.Game     `json:"game"`
	Action   *actions.Record `json:"action,omitempty"`
	Response string          `json:"response,omitempty"`
}

// Legal reports whether the resolution carries a state update.
func (r Resolution) Legal() bool {
	return r.Event != EventIllegal
}
