package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agency-erp/internal/domains/settlement/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const settlementColumns = `
	pi.id, pi.project_id, pi.influencer_id, pi.fee, pi.payment_status,
	pi.payment_due_date, pi.payment_date,
	pi.shooting_date, pi.draft_delivery_date, pi.upload_date,
	pi.created_at, pi.updated_at`

const detailSelect = `
	SELECT ` + settlementColumns + `,
		i.name, i.youtube_handle, i.instagram_handle, i.bank_name, i.account_number,
		p.name, p.client_id, COALESCE(c.name, '')
	FROM project_influencers pi
	JOIN influencers i ON i.id = pi.influencer_id
	JOIN projects p ON p.id = pi.project_id
	LEFT JOIN clients c ON c.id = p.client_id`

// scanSettlement đọc cột payment_status dạng raw rồi normalize ngay tại đây
func scanSettlement(row pgx.Row, extra ...any) (*model.Settlement, error) {
	s := &model.Settlement{}
	var rawStatus string
	dest := []any{
		&s.ID, &s.ProjectID, &s.InfluencerID, &s.Fee, &rawStatus,
		&s.PaymentDueDate, &s.PaymentDate,
		&s.ShootingDate, &s.DraftDeliveryDate, &s.UploadDate,
		&s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.PaymentStatus = model.NormalizeStatus(rawStatus)
	return s, nil
}

func scanDetail(row pgx.Row) (*model.SettlementDetail, error) {
	d := &model.SettlementDetail{}
	s, err := scanSettlement(row,
		&d.Influencer.Name, &d.Influencer.YoutubeHandle, &d.Influencer.InstagramHandle,
		&d.Influencer.BankName, &d.Influencer.AccountNumber,
		&d.Project.Name, &d.Project.ClientID, &d.Project.ClientName,
	)
	if err != nil {
		return nil, err
	}
	d.Settlement = *s
	d.Influencer.ID = s.InfluencerID
	d.Project.ID = s.ProjectID
	return d, nil
}

func collectDetails(rows pgx.Rows) ([]*model.SettlementDetail, error) {
	defer rows.Close()
	var out []*model.SettlementDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func collectSettlements(rows pgx.Rows) ([]*model.Settlement, error) {
	defer rows.Close()
	var out []*model.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// buildWhere đẩy các điều kiện lọc được xuống SQL; Status lọc sau trong Go
func buildWhere(f model.ListFilter) *utils.WhereBuilder {
	wb := utils.NewWhereBuilder()
	if f.ProjectID != nil {
		wb.Add("pi.project_id = ?", *f.ProjectID)
	}
	if f.InfluencerID != nil {
		wb.Add("pi.influencer_id = ?", *f.InfluencerID)
	}
	if f.DueFrom != nil {
		wb.Add("pi.payment_due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		wb.Add("pi.payment_due_date < ?", *f.DueTo)
	}
	return wb
}

// =====================================================
// READ
// =====================================================

func (r *postgresRepository) ProjectExists(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.SettlementDetail, error) {
	return r.List(ctx, model.ListFilter{ProjectID: &projectID})
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.SettlementDetail, error) {
	wb := buildWhere(filter)
	query := detailSelect + wb.SQL() + ` ORDER BY pi.created_at, pi.id`

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	all, err := collectDetails(rows)
	if err != nil {
		return nil, err
	}

	filtered := all[:0]
	for _, d := range all {
		if filter.Matches(&d.Settlement) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (r *postgresRepository) ListRaw(ctx context.Context, filter model.ListFilter) ([]*model.Settlement, error) {
	wb := buildWhere(filter)
	query := `SELECT ` + settlementColumns + ` FROM project_influencers pi` + wb.SQL() + ` ORDER BY pi.created_at, pi.id`

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	all, err := collectSettlements(rows)
	if err != nil {
		return nil, err
	}

	filtered := all[:0]
	for _, s := range all {
		if filter.Matches(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (r *postgresRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.SettlementDetail, error) {
	return r.List(ctx, model.ListFilter{DueFrom: &from, DueTo: &to})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SettlementDetail, error) {
	d, err := scanDetail(r.pool.QueryRow(ctx, detailSelect+` WHERE pi.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) LoadDirectory(ctx context.Context) (model.Directory, error) {
	dir := model.NewDirectory()

	rows, err := r.pool.Query(ctx, `SELECT id, name, youtube_handle, instagram_handle FROM influencers`)
	if err != nil {
		return dir, fmt.Errorf("failed to load influencers: %w", err)
	}
	for rows.Next() {
		var ref model.InfluencerRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.YoutubeHandle, &ref.InstagramHandle); err != nil {
			rows.Close()
			return dir, fmt.Errorf("scan influencer: %w", err)
		}
		dir.Influencers[ref.ID] = ref
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return dir, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT p.id, p.name, p.client_id, COALESCE(c.name, '')
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id`)
	if err != nil {
		return dir, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ref model.ProjectRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.ClientID, &ref.ClientName); err != nil {
			return dir, fmt.Errorf("scan project: %w", err)
		}
		dir.Projects[ref.ID] = ref
	}
	return dir, rows.Err()
}

// =====================================================
// WRITE
// =====================================================

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, paymentDate *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE project_influencers
		SET payment_status = $2, payment_date = $3, updated_at = NOW()
		WHERE id = $1`,
		id, string(status), paymentDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSettlementNotFound
	}
	return nil
}

func (r *postgresRepository) WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{q: tx})
	})
}

// =====================================================
// TRANSACTIONAL OPERATIONS
// =====================================================

type txRepository struct {
	q database.Querier
}

func (t *txRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Settlement, error) {
	// FOR UPDATE: hai request sync cùng project sẽ chạy tuần tự
	rows, err := t.q.Query(ctx, `SELECT `+settlementColumns+`
		FROM project_influencers pi
		WHERE pi.project_id = $1
		ORDER BY pi.created_at, pi.id
		FOR UPDATE`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read project settlements: %w", err)
	}
	return collectSettlements(rows)
}

func (t *txRepository) Upsert(ctx context.Context, s *model.Settlement) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	// Milestone dates chỉ ghi đè khi được gửi lên
	query := `
		INSERT INTO project_influencers (
			id, project_id, influencer_id, fee, payment_status,
			payment_due_date, payment_date,
			shooting_date, draft_delivery_date, upload_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (project_id, influencer_id) DO UPDATE SET
			fee = EXCLUDED.fee,
			payment_status = EXCLUDED.payment_status,
			payment_due_date = EXCLUDED.payment_due_date,
			payment_date = EXCLUDED.payment_date,
			shooting_date = COALESCE(EXCLUDED.shooting_date, project_influencers.shooting_date),
			draft_delivery_date = COALESCE(EXCLUDED.draft_delivery_date, project_influencers.draft_delivery_date),
			upload_date = COALESCE(EXCLUDED.upload_date, project_influencers.upload_date),
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := t.q.QueryRow(ctx, query,
		s.ID, s.ProjectID, s.InfluencerID, s.Fee, string(s.PaymentStatus),
		s.PaymentDueDate, s.PaymentDate,
		s.ShootingDate, s.DraftDeliveryDate, s.UploadDate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrInfluencerNotFound
		}
		if infradb.IsPgError(err, infradb.PgUniqueViolation) {
			return model.ErrDuplicateInfluencer
		}
		return fmt.Errorf("failed to upsert settlement: %w", err)
	}
	return nil
}

func (t *txRepository) Delete(ctx context.Context, projectID, influencerID uuid.UUID) error {
	_, err := t.q.Exec(ctx,
		`DELETE FROM project_influencers WHERE project_id = $1 AND influencer_id = $2`,
		projectID, influencerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return nil
}
