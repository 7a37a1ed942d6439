package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

var documentColumns = []string{
	"id", "project_id", "name", "description", "file_name", "file_path",
	"file_mime_type", "file_size", "status", "created_at", "updated_at",
}

type documentRepository struct{ s *Store }

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Description, &d.FileName, &d.FilePath,
		&d.FileMimeType, &d.FileSize, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query, args, err := r.s.sb.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.ProjectID, doc.Name, doc.Description, doc.FileName, doc.FilePath,
			doc.FileMimeType, doc.FileSize, doc.Status, doc.CreatedAt, doc.UpdatedAt).
		ToSql()
	if err != nil {
		return buildError(err, "create document")
	}

	if _, err := r.s.db.Exec(ctx, query, args...); err != nil {
		return writeError(err, "create document")
	}
	return nil
}

func (r *documentRepository) getOne(ctx context.Context, where squirrel.Sqlizer, op string) (*models.Document, error) {
	query, args, err := r.s.sb.Select(documentColumns...).From("documents").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	doc, err := scanDocument(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, readError(err, apperrors.ErrDocumentNotFound, op)
	}
	return doc, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "get document by id")
}

func (r *documentRepository) GetByFileName(ctx context.Context, fileName string) (*models.Document, error) {
	return r.getOne(ctx, squirrel.Eq{"file_name": fileName}, "get document by file name")
}

func (r *documentRepository) list(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*models.Document, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, nil, op)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, readError(err, nil, op)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, nil, op)
	}
	return docs, nil
}

func (r *documentRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Document, error) {
	q := r.s.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at ASC", "id ASC")
	return r.list(ctx, q, "list documents by project")
}

func (r *documentRepository) ListPendingByProjects(ctx context.Context, projectIDs []string) ([]*models.Document, error) {
	if len(projectIDs) == 0 {
		return []*models.Document{}, nil
	}
	q := r.s.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"project_id": projectIDs, "status": models.DocumentStatusPending}).
		OrderBy("created_at ASC", "id ASC")
	return r.list(ctx, q, "list pending documents")
}

func (r *documentRepository) ListDecidedByProjects(ctx context.Context, projectIDs []string, limit int) ([]*models.Document, error) {
	if len(projectIDs) == 0 {
		return []*models.Document{}, nil
	}
	q := r.s.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"project_id": projectIDs}).
		Where(squirrel.NotEq{"status": models.DocumentStatusPending}).
		OrderBy("updated_at DESC", "id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.list(ctx, q, "list decided documents")
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, from, to models.DocumentStatus) (*models.Document, error) {
	query, args, err := r.s.sb.Update("documents").
		Set("status", to).
		Set("updated_at", models.Now()).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + joinColumns(documentColumns)).
		ToSql()
	if err != nil {
		return nil, buildError(err, "update document status")
	}

	doc, err := scanDocument(r.s.db.QueryRow(ctx, query, args...))
	if err == nil {
		return doc, nil
	}
	if err := readError(err, nil, "update document status"); err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, repositories.DocumentTransitionError(current.Status)
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.s.sb.Delete("documents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return buildError(err, "delete document")
	}

	tag, err := r.s.db.Exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "delete document")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}
