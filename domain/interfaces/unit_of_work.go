package interfaces

import "context"

// UnitOfWork groups repository calls into one transaction. Events published
// through EventPublisher are held until Commit and dropped on Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	WagerRepository() WagerRepository
	LedgerRepository() LedgerRepository
	ClaimRepository() ClaimRepository
	TransferRepository() TransferRepository
	StatsRepository() StatsRepository
	EventPublisher() EventPublisher
}

// UnitOfWorkFactory creates a fresh UnitOfWork per operation
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
