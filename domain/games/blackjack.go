package games

import (
	"errors"
	"fmt"

	"gambler/wager-engine/domain/entities"
)

const (
	blackjackMinStand     = 12
	blackjackMaxStand     = 21
	blackjackDefaultStand = 17
	dealerStandsOn        = 17  // dealer stands on all 17s, soft included
	naturalBonus          = 1.5 // a natural pays 1.5x the calibrated win factor
)

// BlackjackPhase is the state of a blackjack round
type BlackjackPhase int

const (
	PhaseDealt BlackjackPhase = iota
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseResolved
)

func (p BlackjackPhase) String() string {
	switch p {
	case PhaseDealt:
		return "dealt"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// BlackjackAction is a player decision
type BlackjackAction int

const (
	ActionHit BlackjackAction = iota
	ActionStand
	ActionDouble
)

func (a BlackjackAction) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// BlackjackResult is how a resolved round settled
type BlackjackResult string

const (
	ResultLoss    BlackjackResult = "loss"
	ResultPush    BlackjackResult = "push"
	ResultWin     BlackjackResult = "win"
	ResultNatural BlackjackResult = "blackjack"
)

// ErrIllegalTransition is returned when an action is applied in the wrong phase
var ErrIllegalTransition = errors.New("illegal blackjack transition")

// hand holds card values; aces are stored as 1
type hand []int

// score returns the best total and whether an ace is counted as 11
func (h hand) score() (int, bool) {
	sum, hasAce := 0, false
	for _, card := range h {
		sum += card
		if card == 1 {
			hasAce = true
		}
	}
	if hasAce && sum+10 <= 21 {
		return sum + 10, true
	}
	return sum, false
}

func (h hand) best() int {
	total, _ := h.score()
	return total
}

func (h hand) natural() bool {
	return len(h) == 2 && h.best() == 21
}

func (h hand) hardDoubleTotal() bool {
	if len(h) != 2 || h[0] == 1 || h[1] == 1 {
		return false
	}
	sum := h[0] + h[1]
	return sum == 10 || sum == 11
}

// dealCard draws from an infinite deck: 2-9 face value, ten and court cards 10, ace 1
func dealCard(draws Draws) int {
	rank := draws.IntN(13) + 1
	if rank > 10 {
		return 10
	}
	return rank
}

// BlackjackRound is one hand moving through Dealt -> PlayerTurn -> DealerTurn -> Resolved.
// Naturals and player busts skip straight to Resolved.
type BlackjackRound struct {
	draws       Draws
	phase       BlackjackPhase
	player      hand
	dealer      hand
	stakeFactor int64
	result      BlackjackResult
	actions     []BlackjackAction
}

// NewBlackjackRound deals two cards each, alternating player and dealer
func NewBlackjackRound(draws Draws) *BlackjackRound {
	r := &BlackjackRound{draws: draws, phase: PhaseDealt, stakeFactor: 1}
	r.player = append(r.player, dealCard(draws))
	r.dealer = append(r.dealer, dealCard(draws))
	r.player = append(r.player, dealCard(draws))
	r.dealer = append(r.dealer, dealCard(draws))
	return r
}

// Phase returns the current phase
func (r *BlackjackRound) Phase() BlackjackPhase { return r.phase }

// StakeFactor is 2 after a double, 1 otherwise
func (r *BlackjackRound) StakeFactor() int64 { return r.stakeFactor }

// Begin checks for naturals and hands the turn to the player
func (r *BlackjackRound) Begin() error {
	if r.phase != PhaseDealt {
		return fmt.Errorf("%w: begin in %s", ErrIllegalTransition, r.phase)
	}
	playerNatural, dealerNatural := r.player.natural(), r.dealer.natural()
	switch {
	case playerNatural && dealerNatural:
		r.resolve(ResultPush)
	case playerNatural:
		r.resolve(ResultNatural)
	case dealerNatural:
		r.resolve(ResultLoss)
	default:
		r.phase = PhasePlayerTurn
	}
	return nil
}

// Apply performs a player action during the player's turn
func (r *BlackjackRound) Apply(action BlackjackAction) error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: %s in %s", ErrIllegalTransition, action, r.phase)
	}

	switch action {
	case ActionHit:
		r.player = append(r.player, dealCard(r.draws))
		if r.player.best() > 21 {
			r.resolve(ResultLoss)
		}
	case ActionStand:
		r.phase = PhaseDealerTurn
	case ActionDouble:
		if len(r.player) != 2 {
			return fmt.Errorf("%w: double after hitting", ErrIllegalTransition)
		}
		r.stakeFactor = 2
		r.player = append(r.player, dealCard(r.draws))
		if r.player.best() > 21 {
			r.resolve(ResultLoss)
		} else {
			r.phase = PhaseDealerTurn
		}
	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalTransition, int(action))
	}
	r.actions = append(r.actions, action)
	return nil
}

// PlayDealer draws dealer cards until 17 or more and settles the round
func (r *BlackjackRound) PlayDealer() error {
	if r.phase != PhaseDealerTurn {
		return fmt.Errorf("%w: dealer play in %s", ErrIllegalTransition, r.phase)
	}
	for r.dealer.best() < dealerStandsOn {
		r.dealer = append(r.dealer, dealCard(r.draws))
	}

	player, dealer := r.player.best(), r.dealer.best()
	switch {
	case dealer > 21 || player > dealer:
		r.resolve(ResultWin)
	case player == dealer:
		r.resolve(ResultPush)
	default:
		r.resolve(ResultLoss)
	}
	return nil
}

// Result returns the settled result once the round is resolved
func (r *BlackjackRound) Result() (BlackjackResult, error) {
	if r.phase != PhaseResolved {
		return "", fmt.Errorf("%w: round still in %s", ErrIllegalTransition, r.phase)
	}
	return r.result, nil
}

func (r *BlackjackRound) resolve(result BlackjackResult) {
	r.result = result
	r.phase = PhaseResolved
}

// blackjackPolicy is the player's fixed strategy: hit below StandOn, and
// optionally double on a hard 10 or 11 with the first two cards.
type blackjackPolicy struct {
	standOn    int
	doubleDown bool
}

func (p blackjackPolicy) decide(h hand) BlackjackAction {
	if p.doubleDown && h.hardDoubleTotal() {
		return ActionDouble
	}
	if h.best() < p.standOn {
		return ActionHit
	}
	return ActionStand
}

// blackjackCalibration is the exact distribution for one policy and the win
// factor k that makes its return equal the target RTP. A win returns
// stake*(1+k) and a natural returns amount*(1+1.5k).
type blackjackCalibration struct {
	winFactor float64
	buckets   []Bucket
}

// Blackjack plays a single automated hand under the requested policy
type Blackjack struct {
	houseEdge    float64
	calibrations map[blackjackPolicy]blackjackCalibration
}

// NewBlackjack creates a blackjack engine, calibrating every supported policy
func NewBlackjack(houseEdge float64) (*Blackjack, error) {
	if err := checkHouseEdge(entities.GameBlackjack, houseEdge); err != nil {
		return nil, err
	}
	b := &Blackjack{houseEdge: houseEdge, calibrations: make(map[blackjackPolicy]blackjackCalibration)}
	for standOn := blackjackMinStand; standOn <= blackjackMaxStand; standOn++ {
		for _, double := range []bool{false, true} {
			policy := blackjackPolicy{standOn: standOn, doubleDown: double}
			calibration, err := calibrateBlackjack(policy, 1-houseEdge)
			if err != nil {
				return nil, err
			}
			b.calibrations[policy] = calibration
		}
	}
	return b, nil
}

func (b *Blackjack) Game() entities.Game   { return entities.GameBlackjack }
func (b *Blackjack) HouseEdge() float64    { return b.houseEdge }
func (b *Blackjack) MaxStakeFactor() int64 { return 2 }

func (b *Blackjack) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.StandOn == 0 {
		params.StandOn = blackjackDefaultStand
	}
	if params.StandOn < blackjackMinStand || params.StandOn > blackjackMaxStand {
		return params, invalidParams("Stand-on total must be between %d and %d", blackjackMinStand, blackjackMaxStand)
	}
	return params, nil
}

func policyFor(params entities.GameParams) blackjackPolicy {
	return blackjackPolicy{standOn: params.StandOn, doubleDown: params.DoubleDown}
}

func (b *Blackjack) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := b.Normalize(params)
	if err != nil {
		return nil, err
	}
	policy := policyFor(params)
	calibration := b.calibrations[policy]

	round := NewBlackjackRound(draws)
	if err := round.Begin(); err != nil {
		return nil, err
	}
	for round.Phase() == PhasePlayerTurn {
		if err := round.Apply(policy.decide(round.player)); err != nil {
			return nil, err
		}
	}
	if round.Phase() == PhaseDealerTurn {
		if err := round.PlayDealer(); err != nil {
			return nil, err
		}
	}
	result, err := round.Result()
	if err != nil {
		return nil, err
	}

	stake := float64(round.StakeFactor())
	var multiplier float64
	switch result {
	case ResultPush:
		multiplier = stake
	case ResultWin:
		multiplier = stake * (1 + calibration.winFactor)
	case ResultNatural:
		multiplier = 1 + naturalBonus*calibration.winFactor
	}

	description := fmt.Sprintf("You %d vs dealer %d: %s", round.player.best(), round.dealer.best(), result)
	if round.StakeFactor() == 2 {
		description += " (doubled)"
	}
	actions := make([]string, len(round.actions))
	for i, a := range round.actions {
		actions[i] = a.String()
	}
	return settle(amount, multiplier, round.StakeFactor(), description, map[string]any{
		"player":  []int(round.player),
		"dealer":  []int(round.dealer),
		"actions": actions,
		"result":  string(result),
		"doubled": round.StakeFactor() == 2,
	}), nil
}

func (b *Blackjack) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := b.Normalize(params)
	if err != nil {
		return nil, err
	}
	calibration := b.calibrations[policyFor(params)]
	return append([]Bucket(nil), calibration.buckets...), nil
}

// WinFactor exposes the calibrated win factor for a policy
func (b *Blackjack) WinFactor(params entities.GameParams) (float64, error) {
	params, err := b.Normalize(params)
	if err != nil {
		return 0, err
	}
	return b.calibrations[policyFor(params)].winFactor, nil
}

// cardProbability is the infinite-deck chance of each card value 1..10
func cardProbability(value int) float64 {
	if value == 10 {
		return 4.0 / 13
	}
	return 1.0 / 13
}

type handKey struct {
	total  int // aces counted as 1
	hasAce bool
}

// finalTotals computes the distribution of final totals for a hand that hits
// while its best total is below standOn. Key 22 means bust.
type finalTotals struct {
	standOn int
	memo    map[handKey]map[int]float64
}

func newFinalTotals(standOn int) *finalTotals {
	return &finalTotals{standOn: standOn, memo: make(map[handKey]map[int]float64)}
}

func (f *finalTotals) from(total int, hasAce bool) map[int]float64 {
	key := handKey{total: total, hasAce: hasAce}
	if dist, ok := f.memo[key]; ok {
		return dist
	}

	best := total
	if hasAce && total+10 <= 21 {
		best = total + 10
	}

	dist := make(map[int]float64)
	switch {
	case total > 21:
		dist[22] = 1
	case best >= f.standOn:
		dist[best] = 1
	default:
		for card := 1; card <= 10; card++ {
			p := cardProbability(card)
			for final, q := range f.from(total+card, hasAce || card == 1) {
				dist[final] += p * q
			}
		}
	}
	f.memo[key] = dist
	return dist
}

// oneCard is the distribution after exactly one more card, used for doubles
func oneCard(total int, hasAce bool) map[int]float64 {
	dist := make(map[int]float64)
	for card := 1; card <= 10; card++ {
		t, ace := total+card, hasAce || card == 1
		best := t
		if ace && t+10 <= 21 {
			best = t + 10
		}
		if best > 21 {
			best = 22
		}
		dist[best] += cardProbability(card)
	}
	return dist
}

// calibrateBlackjack enumerates the exact infinite-deck distribution for a
// policy and solves for the win factor k with (A + kB) / S = rtp.
func calibrateBlackjack(policy blackjackPolicy, rtp float64) (blackjackCalibration, error) {
	player := newFinalTotals(policy.standOn)
	dealer := newFinalTotals(dealerStandsOn)

	var lossSingle, lossDouble, pushSingle, pushDouble, winSingle, winDouble, natural float64

	for p1 := 1; p1 <= 10; p1++ {
		for p2 := 1; p2 <= 10; p2++ {
			pp := cardProbability(p1) * cardProbability(p2)
			playerHand := hand{p1, p2}
			playerNatural := playerHand.natural()

			// The player's final totals do not depend on the dealer's cards
			var playerDist map[int]float64
			doubled := false
			if !playerNatural {
				switch policy.decide(playerHand) {
				case ActionDouble:
					doubled = true
					playerDist = oneCard(p1+p2, p1 == 1 || p2 == 1)
				default:
					playerDist = player.from(p1+p2, p1 == 1 || p2 == 1)
				}
			}

			for d1 := 1; d1 <= 10; d1++ {
				for d2 := 1; d2 <= 10; d2++ {
					w := pp * cardProbability(d1) * cardProbability(d2)
					dealerHand := hand{d1, d2}
					dealerNatural := dealerHand.natural()

					switch {
					case playerNatural && dealerNatural:
						pushSingle += w
						continue
					case playerNatural:
						natural += w
						continue
					case dealerNatural:
						lossSingle += w
						continue
					}

					dealerDist := dealer.from(d1+d2, d1 == 1 || d2 == 1)
					for pf, pq := range playerDist {
						if pf == 22 {
							if doubled {
								lossDouble += w * pq
							} else {
								lossSingle += w * pq
							}
							continue
						}
						for df, dq := range dealerDist {
							mass := w * pq * dq
							switch {
							case df == 22 || pf > df:
								if doubled {
									winDouble += mass
								} else {
									winSingle += mass
								}
							case pf == df:
								if doubled {
									pushDouble += mass
								} else {
									pushSingle += mass
								}
							default:
								if doubled {
									lossDouble += mass
								} else {
									lossSingle += mass
								}
							}
						}
					}
				}
			}
		}
	}

	staked := lossSingle + pushSingle + winSingle + natural + 2*(lossDouble+pushDouble+winDouble)
	fixedReturn := pushSingle + 2*pushDouble + winSingle + 2*winDouble + natural
	perFactor := winSingle + 2*winDouble + naturalBonus*natural
	k := (rtp*staked - fixedReturn) / perFactor
	if k <= 0 {
		return blackjackCalibration{}, entities.NewConfigurationError(
			fmt.Sprintf("blackjack policy stand=%d double=%t", policy.standOn, policy.doubleDown),
			"no positive win factor reaches the target return")
	}

	buckets := []Bucket{
		{Label: "loss", Probability: lossSingle, Multiplier: 0, StakeFactor: 1},
		{Label: "push", Probability: pushSingle, Multiplier: 1, StakeFactor: 1},
		{Label: "win", Probability: winSingle, Multiplier: 1 + k, StakeFactor: 1},
		{Label: "blackjack", Probability: natural, Multiplier: 1 + naturalBonus*k, StakeFactor: 1},
	}
	if policy.doubleDown {
		buckets = append(buckets,
			Bucket{Label: "double loss", Probability: lossDouble, Multiplier: 0, StakeFactor: 2},
			Bucket{Label: "double push", Probability: pushDouble, Multiplier: 2, StakeFactor: 2},
			Bucket{Label: "double win", Probability: winDouble, Multiplier: 2 * (1 + k), StakeFactor: 2},
		)
	}
	return blackjackCalibration{winFactor: k, buckets: buckets}, nil
}
