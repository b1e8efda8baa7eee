package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agency-erp/internal/domains/project/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectProject = `
	SELECT p.id, p.client_id, p.name, p.status, p.budget, p.start_date, p.deadline,
		p.description, p.created_at, p.updated_at,
		c.name,
		(SELECT COUNT(*) FROM project_influencers pi WHERE pi.project_id = p.id),
		(SELECT COALESCE(SUM(pi.fee), 0) FROM project_influencers pi WHERE pi.project_id = p.id)
	FROM projects p
	JOIN clients c ON c.id = p.client_id`

func scanProject(row pgx.Row) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(
		&p.ID, &p.ClientID, &p.Name, &p.Status, &p.Budget, &p.StartDate, &p.Deadline,
		&p.Description, &p.CreatedAt, &p.UpdatedAt,
		&p.ClientName, &p.InfluencerCount, &p.TotalFee,
	)
	return p, err
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Project) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO projects (
			id, client_id, name, status, budget, start_date, deadline,
			description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ClientID, p.Name, p.Status, p.Budget, p.StartDate, p.Deadline,
		p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrClientNotFound
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, selectProject+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Project) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET
			client_id = $2, name = $3, status = $4, budget = $5, start_date = $6,
			deadline = $7, description = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.ClientID, p.Name, p.Status, p.Budget, p.StartDate,
		p.Deadline, p.Description, p.UpdatedAt,
	)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrClientNotFound
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// Delete: project_influencers cascade theo FK, transactions/documents thì chặn
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrProjectHasDependents
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Project, error) {
	wb := utils.NewWhereBuilder()
	if f.ClientID != nil {
		wb.Add("p.client_id = ?", *f.ClientID)
	}
	if f.Status != nil {
		wb.Add("p.status = ?", *f.Status)
	}
	if f.Search != "" {
		wb.Add("p.name ILIKE ?", "%"+f.Search+"%")
	}

	rows, err := r.pool.Query(ctx,
		selectProject+wb.SQL()+` ORDER BY p.deadline NULLS LAST, p.created_at DESC`,
		wb.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	items := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *postgresRepository) ListDeadlines(ctx context.Context, from, to time.Time) ([]model.DeadlineMarker, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, c.name, p.deadline
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.deadline >= $1 AND p.deadline < $2
			AND p.status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY p.deadline`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	defer rows.Close()

	var markers []model.DeadlineMarker
	for rows.Next() {
		var m model.DeadlineMarker
		if err := rows.Scan(&m.ProjectID, &m.Name, &m.ClientName, &m.Deadline); err != nil {
			return nil, fmt.Errorf("scan deadline: %w", err)
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}
