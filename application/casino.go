package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/utils"
)

// CommandResult is what the chat layer renders for a command
type CommandResult struct {
	Accepted     bool
	Message      string
	BalanceDelta int64
	NewBalance   int64
}

// Casino is the command boundary for the chat orchestrator. It shapes results
// and never exposes seeds, nonces or payout tables.
type Casino struct {
	services *Services
	lookup   interfaces.AccountLookup
}

// NewCasino creates the command facade. lookup may be nil when transfers by
// name are not offered.
func NewCasino(services *Services, lookup interfaces.AccountLookup) *Casino {
	return &Casino{services: services, lookup: lookup}
}

// Balance reports an account's balance, creating the account on first use
func (c *Casino) Balance(ctx context.Context, accountID int64) CommandResult {
	account, err := c.services.Accounts.GetAccount(ctx, accountID)
	if err != nil {
		return rejected("balance", err)
	}
	return CommandResult{
		Accepted:   true,
		Message:    fmt.Sprintf("Balance: %s", utils.FormatShortNotation(account.Balance)),
		NewBalance: account.Balance,
	}
}

// Wager resolves one wager
func (c *Casino) Wager(ctx context.Context, req entities.WagerRequest) CommandResult {
	result, err := c.services.Wagers.PlaceWager(ctx, req)
	if err != nil {
		return rejected("wager", err)
	}

	wager := result.Wager
	var verdict string
	switch {
	case wager.Effect > 0:
		verdict = fmt.Sprintf("Won %s", utils.FormatShortNotation(wager.Effect))
	case wager.Effect < 0:
		verdict = fmt.Sprintf("Lost %s", utils.FormatShortNotation(-wager.Effect))
	default:
		verdict = "Push"
	}

	return CommandResult{
		Accepted: true,
		Message: fmt.Sprintf("%s | %s (%s). Balance: %s",
			result.Description, verdict, utils.FormatMultiplier(wager.Multiplier), utils.FormatShortNotation(result.NewBalance)),
		BalanceDelta: wager.Effect,
		NewBalance:   result.NewBalance,
	}
}

// Transfer moves amount to the account the lookup resolves recipient to
func (c *Casino) Transfer(ctx context.Context, fromID int64, recipient string, amount int64) CommandResult {
	if c.lookup == nil {
		return CommandResult{Message: "Transfers by name are not available."}
	}

	toID, err := c.lookup.ResolveAccount(ctx, strings.TrimSpace(recipient))
	if errors.Is(err, ErrUnknownAccount) {
		return CommandResult{Message: fmt.Sprintf("Could not find %q.", recipient)}
	}
	if err != nil {
		return rejected("transfer", err)
	}

	return c.TransferTo(ctx, fromID, toID, amount)
}

// TransferTo moves amount between two known accounts
func (c *Casino) TransferTo(ctx context.Context, fromID, toID, amount int64) CommandResult {
	result, err := c.services.Transfers.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return rejected("transfer", err)
	}
	return CommandResult{
		Accepted:     true,
		Message:      fmt.Sprintf("Sent %s. Balance: %s", utils.FormatShortNotation(result.Amount), utils.FormatShortNotation(result.SenderBalance)),
		BalanceDelta: -result.Amount,
		NewBalance:   result.SenderBalance,
	}
}

// DailyBonus claims the once-per-period bonus
func (c *Casino) DailyBonus(ctx context.Context, accountID int64) CommandResult {
	result, err := c.services.Rewards.DailyBonus(ctx, accountID)
	return claimResult("daily_bonus", "Daily bonus", result, err)
}

// Rakeback claims the rakeback reward
func (c *Casino) Rakeback(ctx context.Context, accountID int64) CommandResult {
	result, err := c.services.Rewards.Rakeback(ctx, accountID)
	return claimResult("rakeback", "Rakeback", result, err)
}

// Lossback claims the lossback reward
func (c *Casino) Lossback(ctx context.Context, accountID int64) CommandResult {
	result, err := c.services.Rewards.Lossback(ctx, accountID)
	return claimResult("lossback", "Lossback", result, err)
}

// Counter increments a named counter for callers above the lowest tier
func (c *Casino) Counter(ctx context.Context, accountID int64, name string, level entities.PermissionLevel) CommandResult {
	result, err := c.services.Rewards.Counter(ctx, accountID, name, level)
	if err != nil {
		return rejected("counter", err)
	}
	if !result.Recorded {
		return CommandResult{Accepted: true, Message: "Noted."}
	}
	msg := "Counted."
	if result.Amount > 0 {
		msg = fmt.Sprintf("Counted. +%s", utils.FormatShortNotation(result.Amount))
	}
	return CommandResult{Accepted: true, Message: msg, BalanceDelta: result.Amount, NewBalance: result.NewBalance}
}

func claimResult(command, label string, result *entities.ClaimResult, err error) CommandResult {
	if err != nil {
		return rejected(command, err)
	}
	if !result.Recorded {
		return CommandResult{
			Accepted:   true,
			Message:    fmt.Sprintf("%s: nothing to claim right now.", label),
			NewBalance: result.NewBalance,
		}
	}
	return CommandResult{
		Accepted:     true,
		Message:      fmt.Sprintf("%s: +%s. Balance: %s", label, utils.FormatShortNotation(result.Amount), utils.FormatShortNotation(result.NewBalance)),
		BalanceDelta: result.Amount,
		NewBalance:   result.NewBalance,
	}
}

// Leaderboard renders the top n accounts by metric
func (c *Casino) Leaderboard(ctx context.Context, metric string, n int) CommandResult {
	entries, err := c.services.Stats.Leaderboard(ctx, entities.LeaderboardMetric(strings.ToLower(metric)), n)
	if err != nil {
		return rejected("leaderboard", err)
	}
	if len(entries) == 0 {
		return CommandResult{Accepted: true, Message: "No accounts yet."}
	}

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%d. %d: %s\n", entry.Rank, entry.AccountID, utils.FormatShortNotation(entry.Value))
	}
	return CommandResult{Accepted: true, Message: strings.TrimRight(b.String(), "\n")}
}

// History renders an account's latest n wagers, newest first
func (c *Casino) History(ctx context.Context, accountID int64, n int) CommandResult {
	wagers, err := c.services.Stats.RecentWagers(ctx, accountID, n)
	if err != nil {
		return rejected("history", err)
	}
	if len(wagers) == 0 {
		return CommandResult{Accepted: true, Message: "No wagers yet."}
	}

	var b strings.Builder
	for _, wager := range wagers {
		fmt.Fprintf(&b, "%s %s: %s (%s)\n", wager.Game, utils.FormatShortNotation(wager.Amount),
			formatEffect(wager.Effect), utils.FormatMultiplier(wager.Multiplier))
	}
	return CommandResult{Accepted: true, Message: strings.TrimRight(b.String(), "\n")}
}

func formatEffect(effect int64) string {
	if effect < 0 {
		return utils.FormatShortNotation(effect)
	}
	return "+" + utils.FormatShortNotation(effect)
}

// Abandon permanently closes the caller's account
func (c *Casino) Abandon(ctx context.Context, accountID int64, confirmed bool) CommandResult {
	if err := c.services.Accounts.Abandon(ctx, accountID, confirmed); err != nil {
		return rejected("abandon", err)
	}
	return CommandResult{Accepted: true, Message: "Account closed."}
}

// SetExcluded toggles self-exclusion on an account. Moderators and above only.
func (c *Casino) SetExcluded(ctx context.Context, caller entities.PermissionLevel, accountID int64, excluded bool) CommandResult {
	if !caller.AtLeast(entities.PermissionModerator) {
		return CommandResult{Message: "You do not have permission to do that."}
	}
	if err := c.services.Accounts.SetExcluded(ctx, accountID, excluded); err != nil {
		return rejected("exclude", err)
	}
	if excluded {
		return CommandResult{Accepted: true, Message: "Account excluded."}
	}
	return CommandResult{Accepted: true, Message: "Account reinstated."}
}

// ResetLedger wipes history and restarts every account. Admins only.
func (c *Casino) ResetLedger(ctx context.Context, caller entities.PermissionLevel, confirmed bool) CommandResult {
	if !caller.AtLeast(entities.PermissionAdmin) {
		return CommandResult{Message: "You do not have permission to do that."}
	}
	summary, err := c.services.Admin.ResetLedger(ctx, confirmed)
	if err != nil {
		return rejected("reset", err)
	}
	return CommandResult{
		Accepted: true,
		Message:  fmt.Sprintf("Reset %d accounts and cleared %d wagers.", summary.Accounts, summary.Wagers),
	}
}
