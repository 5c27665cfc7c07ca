package repository

import (
	"context"
	"fmt"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type claimRepository struct {
	q Queryable
}

// NewClaimRepository creates a claim repository outside of a transaction
func NewClaimRepository(db *database.DB) interfaces.ClaimRepository {
	return &claimRepository{q: db.Pool}
}

func newClaimRepository(tx Queryable) interfaces.ClaimRepository {
	return &claimRepository{q: tx}
}

func (r *claimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	query := `
		INSERT INTO claims (account_id, kind, label, amount, claimed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		claim.AccountID,
		claim.Kind,
		claim.Label,
		claim.Amount,
		claim.ClaimedAt,
	).Scan(&claim.ID)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

func (r *claimRepository) GetLatest(ctx context.Context, accountID int64, kind entities.ClaimKind, label string) (*entities.Claim, error) {
	query := `
		SELECT id, account_id, kind, label, amount, claimed_at
		FROM claims
		WHERE account_id = $1 AND kind = $2 AND label = $3
		ORDER BY claimed_at DESC, id DESC
		LIMIT 1`

	var claim entities.Claim
	err := r.q.QueryRow(ctx, query, accountID, kind, label).Scan(
		&claim.ID,
		&claim.AccountID,
		&claim.Kind,
		&claim.Label,
		&claim.Amount,
		&claim.ClaimedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest claim: %w", err)
	}
	return &claim, nil
}

func (r *claimRepository) CountByAccount(ctx context.Context, accountID int64, kind entities.ClaimKind) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM claims WHERE account_id = $1 AND kind = $2`, accountID, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}

func (r *claimRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM claims`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete claims: %w", err)
	}
	return tag.RowsAffected(), nil
}
