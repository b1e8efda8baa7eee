package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agency-erp/internal/domains/document/model"
	infradb "agency-erp/internal/infrastructure/database"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectDocument = `
	SELECT d.id, d.doc_number, d.type, d.title, d.amount, d.status, d.issue_date, d.due_date,
		d.client_id, d.project_id, d.file_key, d.file_name, d.memo, d.created_at, d.updated_at,
		c.name, p.name
	FROM documents d
	LEFT JOIN clients c ON c.id = d.client_id
	LEFT JOIN projects p ON p.id = d.project_id`

func scanDocument(row pgx.Row) (*model.Document, error) {
	d := &model.Document{}
	err := row.Scan(
		&d.ID, &d.DocNumber, &d.Type, &d.Title, &d.Amount, &d.Status, &d.IssueDate, &d.DueDate,
		&d.ClientID, &d.ProjectID, &d.FileKey, &d.FileName, &d.Memo, &d.CreatedAt, &d.UpdatedAt,
		&d.ClientName, &d.ProjectName,
	)
	return d, err
}

// nextSequence tăng last_seq của (prefix, period); row khoá tới khi tx commit
// nên hai request đồng thời không nhận cùng số
func nextSequence(ctx context.Context, q database.Querier, prefix, period string) (int, error) {
	var seq int
	err := q.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, period, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, period)
		DO UPDATE SET last_seq = document_sequences.last_seq + 1
		RETURNING last_seq`,
		prefix, period,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocate document sequence: %w", err)
	}
	return seq, nil
}

func (r *postgresRepository) Create(ctx context.Context, d *model.Document, prefix string) error {
	period := model.Period(d.IssueDate)

	// số chứng từ chỉ gán vào d khi insert commit thành công
	docNumber, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (string, error) {
		seq, err := nextSequence(ctx, tx, prefix, period)
		if err != nil {
			return "", err
		}
		number := model.FormatDocNumber(prefix, period, seq)

		_, err = tx.Exec(ctx, `
			INSERT INTO documents (
				id, doc_number, type, title, amount, status, issue_date, due_date,
				client_id, project_id, memo, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			d.ID, number, d.Type, d.Title, d.Amount, d.Status, d.IssueDate, d.DueDate,
			d.ClientID, d.ProjectID, d.Memo, d.CreatedAt, d.UpdatedAt,
		)
		return number, err
	})
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrInvalidReference
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	d.DocNumber = docNumber
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	d, err := scanDocument(r.pool.QueryRow(ctx, selectDocument+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) Update(ctx context.Context, d *model.Document) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents SET
			title = $2, amount = $3, status = $4, due_date = $5,
			client_id = $6, project_id = $7, memo = $8, updated_at = $9
		WHERE id = $1`,
		d.ID, d.Title, d.Amount, d.Status, d.DueDate,
		d.ClientID, d.ProjectID, d.Memo, d.UpdatedAt,
	)
	if err != nil {
		if infradb.IsPgError(err, infradb.PgForeignKeyViolation) {
			return model.ErrInvalidReference
		}
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDocumentNotFound
	}
	return nil
}

// Delete: số đã cấp không được tái sử dụng
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDocumentNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]*model.Document, error) {
	wb := utils.NewWhereBuilder()
	if f.Type != nil {
		wb.Add("d.type = ?", *f.Type)
	}
	if f.Status != nil {
		wb.Add("d.status = ?", *f.Status)
	}
	if f.ClientID != nil {
		wb.Add("d.client_id = ?", *f.ClientID)
	}
	if f.ProjectID != nil {
		wb.Add("d.project_id = ?", *f.ProjectID)
	}
	if f.Search != "" {
		wb.Add("(d.title ILIKE ? OR d.doc_number ILIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
	}

	rows, err := r.pool.Query(ctx, selectDocument+wb.SQL()+` ORDER BY d.issue_date DESC, d.doc_number DESC`, wb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *postgresRepository) SetAttachment(ctx context.Context, id uuid.UUID, fileKey, fileName *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET file_key = $2, file_name = $3, updated_at = NOW() WHERE id = $1`,
		id, fileKey, fileName,
	)
	if err != nil {
		return fmt.Errorf("failed to set attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDocumentNotFound
	}
	return nil
}
