package repository

import (
	"context"
	"fmt"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	"github.com/google/uuid"
)

type transferRepository struct {
	q Queryable
}

// NewTransferRepository creates a transfer repository outside of a transaction
func NewTransferRepository(db *database.DB) interfaces.TransferRepository {
	return &transferRepository{q: db.Pool}
}

func newTransferRepository(tx Queryable) interfaces.TransferRepository {
	return &transferRepository{q: tx}
}

func (r *transferRepository) CreatePair(ctx context.Context, debit, credit *entities.TransferEntry) error {
	if debit.LinkID != credit.LinkID {
		return fmt.Errorf("transfer entries must share a link id")
	}
	if debit.Amount >= 0 || debit.Amount != -credit.Amount {
		return fmt.Errorf("transfer entries must be an opposite pair, got %d and %d", debit.Amount, credit.Amount)
	}

	query := `
		INSERT INTO transfers (link_id, account_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for _, entry := range []*entities.TransferEntry{debit, credit} {
		err := r.q.QueryRow(ctx, query, entry.LinkID, entry.AccountID, entry.Amount, stampOf(entry.CreatedAt)).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create transfer entry: %w", err)
		}
	}
	return nil
}

func (r *transferRepository) GetByLink(ctx context.Context, linkID uuid.UUID) ([]*entities.TransferEntry, error) {
	query := `
		SELECT id, link_id, account_id, amount, created_at
		FROM transfers
		WHERE link_id = $1
		ORDER BY amount`

	rows, err := r.q.Query(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer: %w", err)
	}
	defer rows.Close()

	var entries []*entities.TransferEntry
	for rows.Next() {
		var entry entities.TransferEntry
		if err := rows.Scan(&entry.ID, &entry.LinkID, &entry.AccountID, &entry.Amount, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer entries: %w", err)
	}
	return entries, nil
}

func (r *transferRepository) Summary(ctx context.Context, accountID int64) (entities.TransferSummary, error) {
	query := `
		SELECT COALESCE(SUM(-amount) FILTER (WHERE amount < 0), 0)::BIGINT,
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0)::BIGINT,
		       COUNT(*) FILTER (WHERE amount < 0),
		       COUNT(*) FILTER (WHERE amount > 0)
		FROM transfers
		WHERE account_id = $1`

	var summary entities.TransferSummary
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&summary.Sent,
		&summary.Received,
		&summary.SentCount,
		&summary.ReceivedCount,
	)
	if err != nil {
		return summary, fmt.Errorf("failed to summarize transfers: %w", err)
	}
	return summary, nil
}

func (r *transferRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transfers`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transfers: %w", err)
	}
	return tag.RowsAffected(), nil
}
