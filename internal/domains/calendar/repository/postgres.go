package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agency-erp/internal/domains/calendar/model"
	"agency-erp/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const eventColumns = `id, type, title, description, date, source_id, project_id,
	external_id, synced_at, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	e := &model.Event{}
	err := row.Scan(
		&e.ID, &e.Type, &e.Title, &e.Description, &e.Date, &e.SourceID, &e.ProjectID,
		&e.ExternalID, &e.SyncedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	defer rows.Close()
	events := make([]*model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE date >= $1 AND date < $2
		ORDER BY date, type, title`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return collectEvents(rows)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO calendar_events (
			id, type, title, description, date, source_id, project_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Type, e.Title, e.Description, e.Date, e.SourceID, e.ProjectID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

func (r *postgresRepository) ReplaceMarkers(ctx context.Context, from, to time.Time, markers []*model.Event) (int, []*model.Event, error) {
	var removed []*model.Event
	upserted := 0

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		keep := make([]string, 0, len(markers))

		// Step 1: upsert; đổi title/date/description thì reset synced_at để sync lại
		for _, m := range markers {
			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO calendar_events (
					id, type, title, description, date, source_id, project_id, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (type, source_id) WHERE source_id IS NOT NULL
				DO UPDATE SET
					title = EXCLUDED.title,
					description = EXCLUDED.description,
					date = EXCLUDED.date,
					project_id = EXCLUDED.project_id,
					updated_at = EXCLUDED.updated_at,
					synced_at = CASE
						WHEN calendar_events.title IS DISTINCT FROM EXCLUDED.title
							OR calendar_events.date IS DISTINCT FROM EXCLUDED.date
							OR calendar_events.description IS DISTINCT FROM EXCLUDED.description
						THEN NULL
						ELSE calendar_events.synced_at
					END
				RETURNING id`,
				m.ID, m.Type, m.Title, m.Description, m.Date, m.SourceID, m.ProjectID, m.CreatedAt, m.UpdatedAt,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("upsert marker %s: %w", m.MarkerKey(), err)
			}
			keep = append(keep, id.String())
			upserted++
		}

		// Step 2: xoá marker không còn nguồn trong cửa sổ rebuild
		rows, err := tx.Query(ctx, `
			DELETE FROM calendar_events
			WHERE type IN ('PROJECT_DEADLINE', 'SETTLEMENT_DUE')
				AND date >= $1 AND date < $2
				AND NOT (id = ANY($3::uuid[]))
			RETURNING `+eventColumns,
			from, to, keep,
		)
		if err != nil {
			return fmt.Errorf("delete stale markers: %w", err)
		}
		removed, err = collectEvents(rows)
		return err
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to rebuild calendar markers: %w", err)
	}
	return upserted, removed, nil
}

func (r *postgresRepository) ListUnsynced(ctx context.Context, limit int) ([]*model.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE synced_at IS NULL
		ORDER BY date
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced events: %w", err)
	}
	return collectEvents(rows)
}

func (r *postgresRepository) MarkSynced(ctx context.Context, id uuid.UUID, externalID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE calendar_events SET external_id = $2, synced_at = $3 WHERE id = $1`,
		id, externalID, at,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event synced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEventNotFound
	}
	return nil
}
