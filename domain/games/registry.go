package games

import (
	"fmt"

	"gambler/wager-engine/domain/entities"
)

// HouseEdgeSource supplies the configured house edge per game
type HouseEdgeSource interface {
	HouseEdgeFor(game string) float64
}

// Registry holds one engine per game
type Registry struct {
	engines map[entities.Game]Engine
}

// NewRegistry builds every engine. Any invalid edge or table is returned as a
// ConfigurationError and must stop startup.
func NewRegistry(edges HouseEdgeSource) (*Registry, error) {
	constructors := map[entities.Game]func(float64) (Engine, error){
		entities.GameDice:        func(e float64) (Engine, error) { return NewDice(e) },
		entities.GameLimbo:       func(e float64) (Engine, error) { return NewLimbo(e) },
		entities.GameKeno:        func(e float64) (Engine, error) { return NewKeno(e) },
		entities.GameWheel:       func(e float64) (Engine, error) { return NewWheel(e) },
		entities.GamePlinko:      func(e float64) (Engine, error) { return NewPlinko(e) },
		entities.GameBlackjack:   func(e float64) (Engine, error) { return NewBlackjack(e) },
		entities.GameSlots:       func(e float64) (Engine, error) { return NewSlots(e) },
		entities.GamePlanes:      func(e float64) (Engine, error) { return NewPlanes(e) },
		entities.GameGuessNumber: func(e float64) (Engine, error) { return NewGuessNumber(e) },
		entities.GameLambchop:    func(e float64) (Engine, error) { return NewLambchop(e) },
	}

	r := &Registry{engines: make(map[entities.Game]Engine, len(constructors))}
	for _, game := range entities.AllGames {
		construct, ok := constructors[game]
		if !ok {
			return nil, entities.NewConfigurationError(string(game), "no engine registered")
		}
		engine, err := construct(edges.HouseEdgeFor(string(game)))
		if err != nil {
			return nil, fmt.Errorf("failed to build %s engine: %w", game, err)
		}
		r.engines[game] = engine
	}
	return r, nil
}

// Get returns the engine for a game
func (r *Registry) Get(game entities.Game) (Engine, bool) {
	engine, ok := r.engines[game]
	return engine, ok
}

// Games returns the registered games in display order
func (r *Registry) Games() []entities.Game {
	games := make([]entities.Game, 0, len(r.engines))
	for _, game := range entities.AllGames {
		if _, ok := r.engines[game]; ok {
			games = append(games, game)
		}
	}
	return games
}

// FixedHouseEdge applies one edge to every game
type FixedHouseEdge float64

func (f FixedHouseEdge) HouseEdgeFor(string) float64 {
	return float64(f)
}
