package application

import (
	"fmt"

	"gambler/wager-engine/config"
	"gambler/wager-engine/domain/games"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/locks"
	"gambler/wager-engine/domain/services"
)

// Services holds every domain service wired against one unit of work factory
type Services struct {
	Runner         *services.TransactionRunner
	Registry       *games.Registry
	Accounts       *services.AccountService
	Wagers         *services.WagerService
	Transfers      *services.TransferService
	Rewards        *services.RewardService
	Stats          *services.StatsService
	Reconciliation *services.ReconciliationService
	Audit          *services.AuditService
	Admin          *services.AdminService
}

// NewServices builds the engine. A bad house edge or reward rate is a
// ConfigurationError and the engine must not start.
func NewServices(cfg *config.Config, uowFactory interfaces.UnitOfWorkFactory, metrics interfaces.MetricsRecorder, cache interfaces.LeaderboardCache) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := games.NewRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build game registry: %w", err)
	}

	runner := services.NewTransactionRunner(uowFactory, locks.NewKeyedMutex(), metrics)
	ledger := services.NewLedgerService(runner.Now)
	accounts := services.NewAccountService(runner, ledger, cfg.StartingBalance)

	rewards, err := services.NewRewardService(runner, accounts, ledger, services.NewCooldownService(), cfg)
	if err != nil {
		return nil, err
	}

	return &Services{
		Runner:         runner,
		Registry:       registry,
		Accounts:       accounts,
		Wagers:         services.NewWagerService(runner, accounts, ledger, services.NewWagerValidator(registry, cfg, cfg.MinWager)),
		Transfers:      services.NewTransferService(runner, accounts, ledger, cfg.TransfersEnabled),
		Rewards:        rewards,
		Stats:          services.NewStatsService(runner, cache, cfg.MaxLeaderboardSize),
		Reconciliation: services.NewReconciliationService(runner),
		Audit:          services.NewAuditService(runner, registry),
		Admin:          services.NewAdminService(runner, ledger, cache, cfg.StartingBalance),
	}, nil
}
