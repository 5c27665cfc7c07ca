package games

import (
	"fmt"
	"sort"

	"gambler/wager-engine/domain/entities"
)

const (
	kenoNumbers      = 40
	kenoDrawn        = 10
	kenoMaxSpots     = 10
	kenoDefaultSpots = 5
)

// kenoRawTables holds the shape of each pay table, indexed by hits.
// Tables are rescaled so every spot count returns exactly the target RTP.
var kenoRawTables = map[int][]float64{
	1:  {0, 4},
	2:  {0, 1, 9},
	3:  {0, 0, 2, 27},
	4:  {0, 0, 1.5, 5, 90},
	5:  {0, 0, 0, 3, 15, 300},
	6:  {0, 0, 0, 2, 6, 60, 1000},
	7:  {0, 0, 0, 1, 4, 20, 150, 2500},
	8:  {0, 0, 0, 0, 3, 10, 60, 500, 5000},
	9:  {0, 0, 0, 0, 2, 6, 30, 150, 1500, 10000},
	10: {0, 0, 0, 0, 0, 4, 15, 80, 500, 3000, 10000},
}

// Keno draws 10 of 40 numbers and pays by how many of the player's spots hit
type Keno struct {
	houseEdge float64
	tables    map[int][]float64
}

// NewKeno creates a keno engine and normalizes every pay table
func NewKeno(houseEdge float64) (*Keno, error) {
	if err := checkHouseEdge(entities.GameKeno, houseEdge); err != nil {
		return nil, err
	}
	k := &Keno{houseEdge: houseEdge, tables: make(map[int][]float64, kenoMaxSpots)}
	for spots := 1; spots <= kenoMaxSpots; spots++ {
		raw, ok := kenoRawTables[spots]
		if !ok || len(raw) != spots+1 {
			return nil, entities.NewConfigurationError(
				fmt.Sprintf("keno table %d", spots), "table must have one entry per hit count")
		}
		table, err := normalizeTable(entities.GameKeno, fmt.Sprintf("%d spots", spots), raw, kenoHitProbabilities(spots), 1-houseEdge)
		if err != nil {
			return nil, err
		}
		k.tables[spots] = table
	}
	return k, nil
}

// kenoHitProbabilities returns the hypergeometric P(hits = h) for h = 0..spots
func kenoHitProbabilities(spots int) []float64 {
	total := binomial(kenoNumbers, spots)
	probs := make([]float64, spots+1)
	for hits := 0; hits <= spots; hits++ {
		probs[hits] = binomial(kenoDrawn, hits) * binomial(kenoNumbers-kenoDrawn, spots-hits) / total
	}
	return probs
}

func (k *Keno) Game() entities.Game   { return entities.GameKeno }
func (k *Keno) HouseEdge() float64    { return k.houseEdge }
func (k *Keno) MaxStakeFactor() int64 { return 1 }

func (k *Keno) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if len(params.Picks) > 0 {
		if params.Spots != 0 && params.Spots != len(params.Picks) {
			return params, invalidParams("You picked %d numbers but asked for %d spots", len(params.Picks), params.Spots)
		}
		if len(params.Picks) > kenoMaxSpots {
			return params, invalidParams("Pick at most %d numbers", kenoMaxSpots)
		}
		seen := make(map[int]bool, len(params.Picks))
		for _, n := range params.Picks {
			if n < 1 || n > kenoNumbers {
				return params, invalidParams("Keno numbers must be between 1 and %d", kenoNumbers)
			}
			if seen[n] {
				return params, invalidParams("Number %d was picked twice", n)
			}
			seen[n] = true
		}
		params.Spots = len(params.Picks)
		return params, nil
	}

	if params.Spots == 0 {
		params.Spots = kenoDefaultSpots
	}
	if params.Spots < 1 || params.Spots > kenoMaxSpots {
		return params, invalidParams("Spots must be between 1 and %d", kenoMaxSpots)
	}
	return params, nil
}

func (k *Keno) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := k.Normalize(params)
	if err != nil {
		return nil, err
	}

	picks := append([]int(nil), params.Picks...)
	quickPick := len(picks) == 0
	if quickPick {
		picks = sampleWithoutReplacement(draws, kenoNumbers, params.Spots)
	}
	drawn := sampleWithoutReplacement(draws, kenoNumbers, kenoDrawn)

	drawnSet := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		drawnSet[n] = true
	}
	hits := 0
	for _, n := range picks {
		if drawnSet[n] {
			hits++
		}
	}

	sort.Ints(picks)
	sort.Ints(drawn)
	multiplier := k.tables[params.Spots][hits]
	description := fmt.Sprintf("%d of %d spots hit", hits, params.Spots)
	return settle(amount, multiplier, 1, description, map[string]any{
		"picks":      picks,
		"drawn":      drawn,
		"hits":       hits,
		"quick_pick": quickPick,
	}), nil
}

func (k *Keno) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := k.Normalize(params)
	if err != nil {
		return nil, err
	}
	probs := kenoHitProbabilities(params.Spots)
	buckets := make([]Bucket, len(probs))
	for hits, p := range probs {
		buckets[hits] = Bucket{
			Label:       fmt.Sprintf("%d hits", hits),
			Probability: p,
			Multiplier:  k.tables[params.Spots][hits],
			StakeFactor: 1,
		}
	}
	return buckets, nil
}
