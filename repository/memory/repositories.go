package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/google/uuid"
)

func (u *unitOfWork) check() error {
	if !u.active {
		return errNotInTransaction
	}
	return nil
}

// allAccounts returns committed accounts overlaid with this unit of work's copies
func (u *unitOfWork) allAccounts() []*entities.Account {
	u.store.mu.RLock()
	merged := make(map[int64]*entities.Account, len(u.store.accounts))
	for id, a := range u.store.accounts {
		merged[id] = a
	}
	u.store.mu.RUnlock()
	for id, a := range u.accounts {
		merged[id] = a
	}

	out := make([]*entities.Account, 0, len(merged))
	for _, a := range merged {
		out = append(out, copyAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *unitOfWork) visibleWagers() []*entities.Wager {
	u.store.mu.RLock()
	var out []*entities.Wager
	if !u.deleteWagers {
		out = append(out, u.store.wagers...)
	}
	u.store.mu.RUnlock()
	return append(out, u.wagers...)
}

func (u *unitOfWork) visibleLedger() []*entities.LedgerEntry {
	u.store.mu.RLock()
	var out []*entities.LedgerEntry
	if !u.deleteLedger {
		out = append(out, u.store.ledger...)
	}
	u.store.mu.RUnlock()
	return append(out, u.ledger...)
}

func (u *unitOfWork) visibleClaims() []*entities.Claim {
	u.store.mu.RLock()
	var out []*entities.Claim
	if !u.deleteClaims {
		out = append(out, u.store.claims...)
	}
	u.store.mu.RUnlock()
	return append(out, u.claims...)
}

func (u *unitOfWork) visibleTransfers() []*entities.TransferEntry {
	u.store.mu.RLock()
	var out []*entities.TransferEntry
	if !u.deleteTransfers {
		out = append(out, u.store.transfers...)
	}
	u.store.mu.RUnlock()
	return append(out, u.transfers...)
}

type accountRepository struct {
	uow *unitOfWork
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	return copyAccount(r.uow.account(id)), nil
}

func (r *accountRepository) Create(ctx context.Context, account *entities.Account) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	if r.uow.account(account.ID) != nil {
		return fmt.Errorf("account %d already exists", account.ID)
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}
	r.uow.accounts[account.ID] = copyAccount(account)
	r.uow.created[account.ID] = true
	r.uow.dirty[account.ID] = true
	return nil
}

func (r *accountRepository) CompareAndSetBalance(ctx context.Context, update entities.BalanceUpdate) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	account := r.uow.account(update.AccountID)
	if account == nil {
		return fmt.Errorf("account %d not found", update.AccountID)
	}
	if account.Balance != update.ExpectedBalance {
		return entities.ErrConcurrencyConflict
	}
	if update.NewBalance < 0 {
		return fmt.Errorf("balance of account %d would become negative", update.AccountID)
	}
	account.Balance = update.NewBalance
	account.TotalWagered += update.WageredDelta
	if update.AdvanceNonce {
		account.DrawNonce++
	}
	account.UpdatedAt = time.Now().UTC()
	r.uow.dirty[account.ID] = true
	return nil
}

func (r *accountRepository) UpdateState(ctx context.Context, id int64, state entities.AccountState) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	account := r.uow.account(id)
	if account == nil {
		return fmt.Errorf("account %d not found", id)
	}
	account.State = state
	account.UpdatedAt = time.Now().UTC()
	r.uow.dirty[id] = true
	return nil
}

func (r *accountRepository) UpdateSeed(ctx context.Context, id int64, seed int64) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	account := r.uow.account(id)
	if account == nil {
		return fmt.Errorf("account %d not found", id)
	}
	account.DrawSeed = seed
	account.DrawNonce = 0
	account.UpdatedAt = time.Now().UTC()
	r.uow.dirty[id] = true
	return nil
}

func (r *accountRepository) ListIDs(ctx context.Context) ([]int64, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	accounts := r.uow.allAccounts()
	ids := make([]int64, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids, nil
}

// LockAllForReset is a no-op; the store's commit-time balance check and the
// callers' keyed locks cover it
func (r *accountRepository) LockAllForReset(ctx context.Context) error {
	return r.uow.check()
}

func (r *accountRepository) ResetAll(ctx context.Context, balance int64) (int64, error) {
	ids, err := r.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		account := r.uow.account(id)
		account.Balance = balance
		account.TotalWagered = 0
		account.UpdatedAt = time.Now().UTC()
		r.uow.dirty[id] = true
	}
	return int64(len(ids)), nil
}

type wagerRepository struct {
	uow *unitOfWork
}

func (r *wagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	wager.ID = r.uow.store.allocateID()
	if wager.CreatedAt.IsZero() {
		wager.CreatedAt = time.Now().UTC()
	}
	stored := *wager
	r.uow.wagers = append(r.uow.wagers, &stored)
	return nil
}

func (r *wagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	for _, w := range r.uow.visibleWagers() {
		if w.ID == id {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

func (r *wagerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Wager, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	all := r.uow.visibleWagers()
	var out []*entities.Wager
	for i := len(all) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if all[i].AccountID == accountID {
			c := *all[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *wagerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	var count int64
	for _, w := range r.uow.visibleWagers() {
		if w.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (r *wagerRepository) TotalsSince(ctx context.Context, accountID int64, since time.Time) (entities.WagerTotals, error) {
	var totals entities.WagerTotals
	if err := r.uow.check(); err != nil {
		return totals, err
	}
	for _, w := range r.uow.visibleWagers() {
		if w.AccountID == accountID && w.CreatedAt.After(since) {
			totals.Count++
			totals.Staked += w.Stake
			totals.Payout += w.Payout
		}
	}
	return totals, nil
}

func (r *wagerRepository) GameBreakdown(ctx context.Context, accountID int64) ([]entities.GameStats, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	byGame := make(map[entities.Game]*entities.GameStats)
	for _, w := range r.uow.visibleWagers() {
		if w.AccountID != accountID {
			continue
		}
		stats, ok := byGame[w.Game]
		if !ok {
			stats = &entities.GameStats{Game: w.Game, Biggest: w.Effect}
			byGame[w.Game] = stats
		}
		stats.Count++
		stats.Staked += w.Stake
		stats.Payout += w.Payout
		if w.Effect > 0 {
			stats.Wins++
		}
		if w.Effect > stats.Biggest {
			stats.Biggest = w.Effect
		}
	}

	var out []entities.GameStats
	for _, game := range entities.AllGames {
		if stats, ok := byGame[game]; ok {
			out = append(out, *stats)
		}
	}
	return out, nil
}

func (r *wagerRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	count := int64(len(r.uow.visibleWagers()))
	r.uow.deleteWagers = true
	r.uow.wagers = nil
	return count, nil
}

type ledgerRepository struct {
	uow *unitOfWork
}

func (r *ledgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	entry.ID = r.uow.store.allocateID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	stored := *entry
	r.uow.ledger = append(r.uow.ledger, &stored)
	return nil
}

func (r *ledgerRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LedgerEntry, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	var out []*entities.LedgerEntry
	for _, e := range r.uow.visibleLedger() {
		if e.AccountID == accountID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ledgerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	entries, err := r.GetByAccount(ctx, accountID)
	return int64(len(entries)), err
}

func (r *ledgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	count := int64(len(r.uow.visibleLedger()))
	r.uow.deleteLedger = true
	r.uow.ledger = nil
	return count, nil
}

type claimRepository struct {
	uow *unitOfWork
}

func (r *claimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	claim.ID = r.uow.store.allocateID()
	stored := *claim
	r.uow.claims = append(r.uow.claims, &stored)
	return nil
}

func (r *claimRepository) GetLatest(ctx context.Context, accountID int64, kind entities.ClaimKind, label string) (*entities.Claim, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	var latest *entities.Claim
	for _, c := range r.uow.visibleClaims() {
		if c.AccountID != accountID || c.Kind != kind || c.Label != label {
			continue
		}
		if latest == nil || !c.ClaimedAt.Before(latest.ClaimedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *claimRepository) CountByAccount(ctx context.Context, accountID int64, kind entities.ClaimKind) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	var count int64
	for _, c := range r.uow.visibleClaims() {
		if c.AccountID == accountID && c.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *claimRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	count := int64(len(r.uow.visibleClaims()))
	r.uow.deleteClaims = true
	r.uow.claims = nil
	return count, nil
}

type transferRepository struct {
	uow *unitOfWork
}

func (r *transferRepository) CreatePair(ctx context.Context, debit, credit *entities.TransferEntry) error {
	if err := r.uow.check(); err != nil {
		return err
	}
	if debit.LinkID != credit.LinkID || debit.Amount != -credit.Amount {
		return fmt.Errorf("transfer entries do not form a pair")
	}
	for _, entry := range []*entities.TransferEntry{debit, credit} {
		entry.ID = r.uow.store.allocateID()
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}
		stored := *entry
		r.uow.transfers = append(r.uow.transfers, &stored)
	}
	return nil
}

func (r *transferRepository) GetByLink(ctx context.Context, linkID uuid.UUID) ([]*entities.TransferEntry, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}
	var out []*entities.TransferEntry
	for _, t := range r.uow.visibleTransfers() {
		if t.LinkID == linkID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *transferRepository) Summary(ctx context.Context, accountID int64) (entities.TransferSummary, error) {
	var summary entities.TransferSummary
	if err := r.uow.check(); err != nil {
		return summary, err
	}
	for _, t := range r.uow.visibleTransfers() {
		if t.AccountID != accountID {
			continue
		}
		if t.Amount < 0 {
			summary.Sent += -t.Amount
			summary.SentCount++
		} else {
			summary.Received += t.Amount
			summary.ReceivedCount++
		}
	}
	return summary, nil
}

func (r *transferRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.uow.check(); err != nil {
		return 0, err
	}
	count := int64(len(r.uow.visibleTransfers()))
	r.uow.deleteTransfers = true
	r.uow.transfers = nil
	return count, nil
}

type statsRepository struct {
	uow *unitOfWork
}

func (r *statsRepository) Leaderboard(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, error) {
	if err := r.uow.check(); err != nil {
		return nil, err
	}

	profit := make(map[int64]int64)
	if metric == entities.LeaderboardProfit {
		for _, w := range r.uow.visibleWagers() {
			profit[w.AccountID] += w.Effect
		}
	}

	var entries []entities.LeaderboardEntry
	for _, a := range r.uow.allAccounts() {
		if a.State == entities.AccountStateAbandoned {
			continue
		}
		var value int64
		switch metric {
		case entities.LeaderboardBalance:
			value = a.Balance
		case entities.LeaderboardWagered:
			value = a.TotalWagered
		case entities.LeaderboardProfit:
			value = profit[a.ID]
		default:
			return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
		}
		entries = append(entries, entities.LeaderboardEntry{AccountID: a.ID, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].AccountID < entries[j].AccountID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
