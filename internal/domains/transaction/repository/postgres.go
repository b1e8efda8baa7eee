package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agency-erp/internal/domains/transaction/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectTransaction = `
	SELECT t.id, t.date, t.type, t.category, t.amount, t.payment_status,
		t.client_id, t.project_id, t.influencer_id, t.memo,
		t.created_at, t.updated_at,
		c.name, p.name, i.name
	FROM transactions t
	LEFT JOIN clients c ON c.id = t.client_id
	LEFT JOIN projects p ON p.id = t.project_id
	LEFT JOIN influencers i ON i.id = t.influencer_id`

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	t := &model.Transaction{}
	err := row.Scan(
		&t.ID, &t.Date, &t.Type, &t.Category, &t.Amount, &t.PaymentStatus,
		&t.ClientID, &t.ProjectID, &t.InfluencerID, &t.Memo,
		&t.CreatedAt, &t.UpdatedAt,
		&t.ClientName, &t.ProjectName, &t.InfluencerName,
	)
	return t, err
}

func mapWriteError(err error, op string) error {
	if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
		return model.ErrInvalidReference
	}
	return fmt.Errorf("failed to %s transaction: %w", op, err)
}

func (r *postgresRepository) Create(ctx context.Context, t *model.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, date, type, category, amount, payment_status,
			client_id, project_id, influencer_id, memo,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.Date, t.Type, t.Category, t.Amount, t.PaymentStatus,
		t.ClientID, t.ProjectID, t.InfluencerID, t.Memo,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "create")
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, selectTransaction+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) Update(ctx context.Context, t *model.Transaction) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions SET
			date = $2, type = $3, category = $4, amount = $5, payment_status = $6,
			client_id = $7, project_id = $8, influencer_id = $9, memo = $10,
			updated_at = $11
		WHERE id = $1`,
		t.ID, t.Date, t.Type, t.Category, t.Amount, t.PaymentStatus,
		t.ClientID, t.ProjectID, t.InfluencerID, t.Memo,
		t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Transaction, int, error) {
	wb := utils.NewWhereBuilder()
	if f.From != nil {
		wb.Add("t.date >= ?", *f.From)
	}
	if f.To != nil {
		wb.Add("t.date < ?", *f.To)
	}
	if f.Type != nil {
		wb.Add("t.type = ?", *f.Type)
	}
	if f.ClientID != nil {
		wb.Add("t.client_id = ?", *f.ClientID)
	}
	if f.ProjectID != nil {
		wb.Add("t.project_id = ?", *f.ProjectID)
	}
	if f.Category != nil {
		wb.Add("t.category = ?", *f.Category)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions t` + wb.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	limit := wb.Next(f.Limit)
	offset := wb.Next((f.Page - 1) * f.Limit)
	query := selectTransaction + wb.SQL() +
		` ORDER BY t.date DESC, t.created_at DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Transaction, 0, f.Limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *postgresRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		selectTransaction+` WHERE t.date >= $1 AND t.date < $2 ORDER BY t.date, t.created_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var items []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
