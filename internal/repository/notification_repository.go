package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-service/internal/domain"
)

// NotificationRepository is the durable per-user notification list.
type NotificationRepository interface {
	Create(ctx context.Context, note *domain.UserNotification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserNotification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.UserNotification) error {
	const query = `
        INSERT INTO user_notifications (id, user_id, type, title, message, date, read)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Type,
		note.Title,
		note.Message,
		note.Date,
		note.Read,
	)
	return err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserNotification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, user_id, type, title, message, date, read
        FROM user_notifications WHERE user_id=$1
        ORDER BY date DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserNotification
	for rows.Next() {
		var note domain.UserNotification
		if err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Type,
			&note.Title,
			&note.Message,
			&note.Date,
			&note.Read,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	const query = `UPDATE user_notifications SET read=TRUE WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
