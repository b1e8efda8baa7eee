package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"agency-erp/internal/domains/influencer/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const influencerColumns = `
	id, name, youtube_handle, instagram_handle, tiktok_handle,
	platforms, content_types, categories, followers,
	email, phone, bank_name, account_number, account_holder, memo,
	created_at, updated_at`

func scanInfluencer(row pgx.Row) (*model.Influencer, error) {
	inf := &model.Influencer{}
	var platforms, contentTypes, categories pq.StringArray
	err := row.Scan(
		&inf.ID, &inf.Name, &inf.YoutubeHandle, &inf.InstagramHandle, &inf.TiktokHandle,
		&platforms, &contentTypes, &categories, &inf.Followers,
		&inf.Email, &inf.Phone, &inf.BankName, &inf.AccountNumber, &inf.AccountHolder, &inf.Memo,
		&inf.CreatedAt, &inf.UpdatedAt,
	)
	inf.Platforms = nonNil(platforms)
	inf.ContentTypes = nonNil(contentTypes)
	inf.Categories = nonNil(categories)
	return inf, err
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

func (r *postgresRepository) Create(ctx context.Context, inf *model.Influencer) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO influencers (`+influencerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		inf.ID, inf.Name, inf.YoutubeHandle, inf.InstagramHandle, inf.TiktokHandle,
		pq.Array(inf.Platforms), pq.Array(inf.ContentTypes), pq.Array(inf.Categories), inf.Followers,
		inf.Email, inf.Phone, inf.BankName, inf.AccountNumber, inf.AccountHolder, inf.Memo,
		inf.CreatedAt, inf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create influencer: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Influencer, error) {
	inf, err := scanInfluencer(r.pool.QueryRow(ctx,
		`SELECT `+influencerColumns+` FROM influencers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInfluencerNotFound
		}
		return nil, fmt.Errorf("failed to get influencer: %w", err)
	}
	return inf, nil
}

func (r *postgresRepository) Update(ctx context.Context, inf *model.Influencer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE influencers SET
			name = $2, youtube_handle = $3, instagram_handle = $4, tiktok_handle = $5,
			platforms = $6, content_types = $7, categories = $8, followers = $9,
			email = $10, phone = $11, bank_name = $12, account_number = $13,
			account_holder = $14, memo = $15, updated_at = $16
		WHERE id = $1`,
		inf.ID, inf.Name, inf.YoutubeHandle, inf.InstagramHandle, inf.TiktokHandle,
		pq.Array(inf.Platforms), pq.Array(inf.ContentTypes), pq.Array(inf.Categories), inf.Followers,
		inf.Email, inf.Phone, inf.BankName, inf.AccountNumber,
		inf.AccountHolder, inf.Memo, inf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInfluencerNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM influencers WHERE id = $1`, id)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrInfluencerHasDependents
		}
		return fmt.Errorf("failed to delete influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInfluencerNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Influencer, error) {
	wb := utils.NewWhereBuilder()
	if f.Search != "" {
		like := "%" + f.Search + "%"
		wb.Add("(name ILIKE ? OR youtube_handle ILIKE ? OR instagram_handle ILIKE ?)", like, like, like)
	}
	if f.Category != "" {
		wb.Add("? = ANY(categories)", f.Category)
	}
	if f.Platform != "" {
		wb.Add("? = ANY(platforms)", f.Platform)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+influencerColumns+` FROM influencers`+wb.SQL()+` ORDER BY followers DESC, name`,
		wb.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	defer rows.Close()

	items := []*model.Influencer{}
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan influencer: %w", err)
		}
		items = append(items, inf)
	}
	return items, rows.Err()
}
