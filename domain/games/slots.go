package games

import (
	"fmt"
	"strings"

	"gambler/wager-engine/domain/entities"
)

const slotsReels = 3

type slotSymbol struct {
	name   string
	weight int
	triple float64 // raw pay for three of a kind
	pair   float64 // raw pay for exactly two of a kind
}

// Every reel carries the same weighted strip
var slotSymbols = []slotSymbol{
	{name: "cherry", weight: 6, triple: 3, pair: 0.4},
	{name: "lemon", weight: 5, triple: 4, pair: 0.5},
	{name: "bell", weight: 4, triple: 6, pair: 0.7},
	{name: "bar", weight: 3, triple: 8, pair: 1},
	{name: "seven", weight: 2, triple: 15, pair: 2},
	{name: "diamond", weight: 1, triple: 30, pair: 5},
}

// Slots spins three weighted reels
type Slots struct {
	houseEdge   float64
	totalWeight int
	triples     []float64
	pairs       []float64
}

// NewSlots creates a slots engine with the pay table normalized to the target RTP
func NewSlots(houseEdge float64) (*Slots, error) {
	if err := checkHouseEdge(entities.GameSlots, houseEdge); err != nil {
		return nil, err
	}
	s := &Slots{houseEdge: houseEdge}
	for _, sym := range slotSymbols {
		if sym.weight <= 0 {
			return nil, entities.NewConfigurationError("slots symbol "+sym.name, "weight must be positive")
		}
		s.totalWeight += sym.weight
	}

	raw, probs := s.rawBuckets()
	table, err := normalizeTable(entities.GameSlots, "reels", raw, probs, 1-houseEdge)
	if err != nil {
		return nil, err
	}
	n := len(slotSymbols)
	s.triples = table[:n]
	s.pairs = table[n : 2*n]
	return s, nil
}

// rawBuckets lays out triples, then pairs, then the losing bucket
func (s *Slots) rawBuckets() (raw, probs []float64) {
	n := len(slotSymbols)
	raw = make([]float64, 2*n+1)
	probs = make([]float64, 2*n+1)
	var nothing = 1.0
	for i, sym := range slotSymbols {
		w := float64(sym.weight) / float64(s.totalWeight)
		raw[i] = sym.triple
		probs[i] = w * w * w
		raw[n+i] = sym.pair
		probs[n+i] = 3 * w * w * (1 - w)
		nothing -= probs[i] + probs[n+i]
	}
	probs[2*n] = nothing
	return raw, probs
}

func (s *Slots) Game() entities.Game   { return entities.GameSlots }
func (s *Slots) HouseEdge() float64    { return s.houseEdge }
func (s *Slots) MaxStakeFactor() int64 { return 1 }

func (s *Slots) Normalize(params entities.GameParams) (entities.GameParams, error) {
	return params, nil
}

func (s *Slots) spin(draws Draws) int {
	roll := draws.IntN(s.totalWeight)
	for i, sym := range slotSymbols {
		if roll < sym.weight {
			return i
		}
		roll -= sym.weight
	}
	return len(slotSymbols) - 1
}

func (s *Slots) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	var reels [slotsReels]int
	counts := make(map[int]int, slotsReels)
	names := make([]string, slotsReels)
	for i := range reels {
		reels[i] = s.spin(draws)
		counts[reels[i]]++
		names[i] = slotSymbols[reels[i]].name
	}

	multiplier := 0.0
	line := "no match"
	for symbol, count := range counts {
		switch count {
		case 3:
			multiplier = s.triples[symbol]
			line = "three " + slotSymbols[symbol].name
		case 2:
			multiplier = s.pairs[symbol]
			line = "two " + slotSymbols[symbol].name
		}
	}

	description := fmt.Sprintf("[ %s ] %s", strings.Join(names, " | "), line)
	return settle(amount, multiplier, 1, description, map[string]any{
		"reels": names,
		"line":  line,
	}), nil
}

func (s *Slots) Distribution(params entities.GameParams) ([]Bucket, error) {
	_, probs := s.rawBuckets()
	n := len(slotSymbols)
	buckets := make([]Bucket, 0, len(probs))
	for i, sym := range slotSymbols {
		buckets = append(buckets, Bucket{Label: "three " + sym.name, Probability: probs[i], Multiplier: s.triples[i], StakeFactor: 1})
	}
	for i, sym := range slotSymbols {
		buckets = append(buckets, Bucket{Label: "two " + sym.name, Probability: probs[n+i], Multiplier: s.pairs[i], StakeFactor: 1})
	}
	buckets = append(buckets, Bucket{Label: "no match", Probability: probs[2*n], Multiplier: 0, StakeFactor: 1})
	return buckets, nil
}
