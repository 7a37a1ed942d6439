package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/helpers"
)

var notificationColumns = []string{
	"id", "recipient_id", "sender_id", "type", "project_id", "document_id",
	"message", "is_read", "created_at", "updated_at",
}

type notificationRepository struct{ s *Store }

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var (
		n                               models.Notification
		senderID, projectID, documentID sql.NullString
	)
	err := row.Scan(&n.ID, &n.RecipientID, &senderID, &n.Type, &projectID, &documentID,
		&n.Message, &n.IsRead, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.SenderID = senderID.String
	n.ProjectID = projectID.String
	n.DocumentID = documentID.String
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query, args, err := r.s.sb.Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.RecipientID, helpers.GetContentNullString(n.SenderID), n.Type,
			helpers.GetContentNullString(n.ProjectID), helpers.GetContentNullString(n.DocumentID),
			n.Message, n.IsRead, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return buildError(err, "create notification")
	}

	if _, err := r.s.db.Exec(ctx, query, args...); err != nil {
		return writeError(err, "create notification")
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	query, args, err := r.s.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, buildError(err, "get notification")
	}

	n, err := scanNotification(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, readError(err, apperrors.ErrNotificationNotFound, "get notification")
	}
	return n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	const op = "list notifications"
	query, args, err := r.s.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, nil, op)
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, readError(err, nil, op)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, nil, op)
	}
	return out, nil
}

// MarkRead is idempotent; updated_at only moves on the first read
func (r *notificationRepository) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	query, args, err := r.s.sb.Update("notifications").
		Set("is_read", true).
		Set("updated_at", squirrel.Expr("CASE WHEN is_read THEN updated_at ELSE ? END", models.Now())).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(notificationColumns)).
		ToSql()
	if err != nil {
		return nil, buildError(err, "mark notification read")
	}

	n, err := scanNotification(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, readError(err, apperrors.ErrNotificationNotFound, "mark notification read")
	}
	return n, nil
}
