package entities

import "time"

// Wager is the immutable record of one resolved bet
type Wager struct {
	ID         int64          `db:"id"`
	AccountID  int64          `db:"account_id"`
	Game       Game           `db:"game"`
	Amount     int64          `db:"amount"`
	Stake      int64          `db:"stake"` // amount actually at risk; doubled blackjack stakes twice the amount
	Payout     int64          `db:"payout"`
	Effect     int64          `db:"effect"` // Payout - Stake
	Multiplier float64        `db:"multiplier"`
	Params     GameParams     `db:"params"`
	Outcome    map[string]any `db:"outcome"`
	DrawSeed   int64          `db:"draw_seed"`
	DrawNonce  uint64         `db:"draw_nonce"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Won returns true if the wager paid more than it staked
func (w *Wager) Won() bool {
	return w.Effect > 0
}

// WagerResult is returned to callers after a wager settles
type WagerResult struct {
	Wager       *Wager
	Description string
	NewBalance  int64
}

// WagerTotals aggregates wagers over a period
type WagerTotals struct {
	Count  int64
	Staked int64
	Payout int64
}

// NetLoss returns staked minus paid out, floored at zero
func (t WagerTotals) NetLoss() int64 {
	if loss := t.Staked - t.Payout; loss > 0 {
		return loss
	}
	return 0
}
