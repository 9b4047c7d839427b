package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
// Every read and write is scoped to the target user.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, type, message, activity_id, subtask_id, target_user_id, created_by_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		string(n.Type),
		n.Message,
		nullableString(n.ActivityID),
		nullableString(n.SubTaskID),
		n.TargetUserID,
		nullableString(n.CreatedByID),
		boolToInt(n.Read),
		formatTimestamp(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// ListForUser returns the user's notifications newest first. A limit of zero
// or less means no limit.
func (r *SQLiteNotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT id, type, message, activity_id, subtask_id, target_user_id, created_by_id, is_read, created_at
		FROM notifications WHERE target_user_id = ?`
	args := []any{userID}
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ, createdAt string
		var activityID, subTaskID, createdBy sql.NullString
		var read int
		if err := rows.Scan(&n.ID, &typ, &n.Message, &activityID, &subTaskID,
			&n.TargetUserID, &createdBy, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Type = domain.NotificationType(typ)
		n.ActivityID = stringPtr(activityID)
		n.SubTaskID = stringPtr(subTaskID)
		n.CreatedByID = stringPtr(createdBy)
		n.Read = intToBool(read)
		if n.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

func (r *SQLiteNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE target_user_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND target_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return requireAffected(res, "notification", id)
}

// MarkAllRead marks every unread notification of the user and returns how
// many changed.
func (r *SQLiteNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE target_user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteNotificationRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND target_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	return requireAffected(res, "notification", id)
}
