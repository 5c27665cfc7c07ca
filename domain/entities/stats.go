package entities

// LeaderboardMetric selects how accounts are ranked
type LeaderboardMetric string

const (
	LeaderboardBalance LeaderboardMetric = "balance"
	LeaderboardWagered LeaderboardMetric = "wagered"
	LeaderboardProfit  LeaderboardMetric = "profit"
)

// Valid returns true if the metric is known
func (m LeaderboardMetric) Valid() bool {
	return m == LeaderboardBalance || m == LeaderboardWagered || m == LeaderboardProfit
}

// LeaderboardEntry is one ranked account
type LeaderboardEntry struct {
	Rank      int
	AccountID int64
	Value     int64
}

// GameStats aggregates one account's wagers on one game
type GameStats struct {
	Game    Game
	Count   int64
	Wins    int64
	Staked  int64
	Payout  int64
	Biggest int64 // largest single effect
}

// Net returns payout minus staked
func (s GameStats) Net() int64 {
	return s.Payout - s.Staked
}

// ReconciliationReport compares an account's stored balance against its ledger
type ReconciliationReport struct {
	AccountID         int64
	StoredBalance     int64
	CalculatedBalance int64
	EntryCount        int
	BrokenEntries     []int64 // entries whose snapshot does not chain
}

// Consistent returns true if the ledger replays to the stored balance
func (r ReconciliationReport) Consistent() bool {
	return r.StoredBalance == r.CalculatedBalance && len(r.BrokenEntries) == 0
}
