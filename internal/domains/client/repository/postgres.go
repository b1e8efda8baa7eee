package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"agency-erp/internal/domains/client/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// projectCount / totalRevenue tính on-the-fly, không lưu cột
const selectClient = `
	SELECT c.id, c.name, c.business_no, c.contact_name, c.contact_email, c.contact_phone,
		c.status, c.categories, c.memo, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM projects p WHERE p.client_id = c.id),
		(SELECT COALESCE(SUM(t.amount), 0) FROM transactions t
			WHERE t.client_id = c.id AND t.type = 'REVENUE' AND t.payment_status <> 'CANCELLED')
	FROM clients c`

func scanClient(row pgx.Row) (*model.Client, error) {
	c := &model.Client{}
	var categories pq.StringArray
	err := row.Scan(
		&c.ID, &c.Name, &c.BusinessNo, &c.ContactName, &c.ContactEmail, &c.ContactPhone,
		&c.Status, &categories, &c.Memo, &c.CreatedAt, &c.UpdatedAt,
		&c.ProjectCount, &c.TotalRevenue,
	)
	c.Categories = []string(categories)
	if c.Categories == nil {
		c.Categories = []string{}
	}
	return c, err
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (
			id, name, business_no, contact_name, contact_email, contact_phone,
			status, categories, memo, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.BusinessNo, c.ContactName, c.ContactEmail, c.ContactPhone,
		c.Status, pq.Array(c.Categories), c.Memo, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, selectClient+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Client) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients SET
			name = $2, business_no = $3, contact_name = $4, contact_email = $5,
			contact_phone = $6, status = $7, categories = $8, memo = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.Name, c.BusinessNo, c.ContactName, c.ContactEmail,
		c.ContactPhone, c.Status, pq.Array(c.Categories), c.Memo, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrClientHasDependents
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Client, error) {
	wb := utils.NewWhereBuilder()
	if f.Search != "" {
		wb.Add("(c.name ILIKE ? OR c.contact_name ILIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Status != nil {
		wb.Add("c.status = ?", *f.Status)
	}

	rows, err := r.pool.Query(ctx, selectClient+wb.SQL()+` ORDER BY c.name`, wb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	items := []*model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
