package entities

import (
	"fmt"
	"strings"
)

// Game identifies a game outcome engine
type Game string

const (
	GameDice        Game = "dice"
	GameLimbo       Game = "limbo"
	GameKeno        Game = "keno"
	GameWheel       Game = "wheel"
	GamePlinko      Game = "plinko"
	GameBlackjack   Game = "blackjack"
	GameSlots       Game = "slots"
	GamePlanes      Game = "planes"
	GameGuessNumber Game = "guess"
	GameLambchop    Game = "lambchop"
)

// AllGames lists every supported game in display order
var AllGames = []Game{
	GameDice,
	GameLimbo,
	GameKeno,
	GameWheel,
	GamePlinko,
	GameBlackjack,
	GameSlots,
	GamePlanes,
	GameGuessNumber,
	GameLambchop,
}

// ParseGame converts a game name into a Game, rejecting unknown names
func ParseGame(name string) (Game, error) {
	normalized := Game(strings.ToLower(strings.TrimSpace(name)))
	for _, g := range AllGames {
		if g == normalized {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown game %q", name)
}

func (g Game) String() string {
	return string(g)
}

// Risk selects a payout table for games with risk levels
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Valid returns true if the risk level is known
func (r Risk) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// GameParams carries the game-specific parameters of a wager request.
// Zero values mean "not supplied" and are replaced by defaults during validation.
type GameParams struct {
	// Dice
	Target float64 `json:"target,omitempty"`
	Over   bool    `json:"over,omitempty"`

	// Limbo
	Multiplier float64 `json:"multiplier,omitempty"`

	// Keno: explicit picks, or a quick pick of Spots numbers
	Picks []int `json:"picks,omitempty"`
	Spots int   `json:"spots,omitempty"`

	// Wheel, Plinko
	Risk Risk `json:"risk,omitempty"`
	Rows int  `json:"rows,omitempty"`

	// Planes
	Plane string `json:"plane,omitempty"`

	// GuessNumber
	Guess int `json:"guess,omitempty"`
	Range int `json:"range,omitempty"`

	// Lambchop
	Rung int `json:"rung,omitempty"`

	// Blackjack policy
	StandOn    int  `json:"stand_on,omitempty"`
	DoubleDown bool `json:"double_down,omitempty"`
}

// WagerRequest is a validated-shape bet request coming from the orchestrator
type WagerRequest struct {
	AccountID int64
	Game      Game
	Amount    int64
	Params    GameParams
}
