package repository

import (
	"context"
	"fmt"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q Queryable
}

// NewAccountRepository creates an account repository outside of a transaction
func NewAccountRepository(db *database.DB) interfaces.AccountRepository {
	return &accountRepository{q: db.Pool}
}

func newAccountRepository(tx Queryable) interfaces.AccountRepository {
	return &accountRepository{q: tx}
}

const accountColumns = `id, balance, total_wagered, state, draw_seed, draw_nonce, created_at, updated_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Balance,
		&account.TotalWagered,
		&account.State,
		&account.DrawSeed,
		&account.DrawNonce,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account. The row is locked for the rest of the transaction.
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (id, balance, total_wagered, state, draw_seed, draw_nonce, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING created_at, updated_at`

	if account.State == "" {
		account.State = entities.AccountStateActive
	}

	err := r.q.QueryRow(ctx, query,
		account.ID,
		account.Balance,
		account.TotalWagered,
		account.State,
		account.DrawSeed,
		account.DrawNonce,
		stampOf(account.CreatedAt),
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) CompareAndSetBalance(ctx context.Context, update entities.BalanceUpdate) error {
	query := `
		UPDATE accounts
		SET balance = $3,
		    total_wagered = total_wagered + $4,
		    draw_nonce = CASE WHEN $5 THEN draw_nonce + 1 ELSE draw_nonce END,
		    updated_at = NOW()
		WHERE id = $1 AND balance = $2`

	tag, err := r.q.Exec(ctx, query,
		update.AccountID,
		update.ExpectedBalance,
		update.NewBalance,
		update.WageredDelta,
		update.AdvanceNonce,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConcurrencyConflict
	}
	return nil
}

func (r *accountRepository) UpdateState(ctx context.Context, id int64, state entities.AccountState) error {
	query := `UPDATE accounts SET state = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("failed to update account state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}
	return nil
}

func (r *accountRepository) UpdateSeed(ctx context.Context, id int64, seed int64) error {
	query := `UPDATE accounts SET draw_seed = $2, draw_nonce = 0, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, seed)
	if err != nil {
		return fmt.Errorf("failed to update draw seed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}
	return nil
}

func (r *accountRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account ids: %w", err)
	}
	return ids, nil
}

// LockAllForReset takes an EXCLUSIVE table lock. It waits for in-flight
// balance updates and account inserts to finish and keeps new ones, including
// SELECT ... FOR UPDATE, out until commit. Plain reads still proceed.
func (r *accountRepository) LockAllForReset(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE accounts IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	return nil
}

func (r *accountRepository) ResetAll(ctx context.Context, balance int64) (int64, error) {
	query := `UPDATE accounts SET balance = $1, total_wagered = 0, updated_at = NOW()`

	tag, err := r.q.Exec(ctx, query, balance)
	if err != nil {
		return 0, fmt.Errorf("failed to reset accounts: %w", err)
	}
	return tag.RowsAffected(), nil
}
