package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// SQLiteSubTaskRepo implements SubTaskRepo using a SQLite database.
type SQLiteSubTaskRepo struct {
	db db.DBTX
}

// NewSQLiteSubTaskRepo creates a new SQLiteSubTaskRepo.
func NewSQLiteSubTaskRepo(conn db.DBTX) *SQLiteSubTaskRepo {
	return &SQLiteSubTaskRepo{db: conn}
}

const subTaskColumns = `s.id, s.topic_id, s.title, s.description, s.start_date, s.end_date,
	s.status, s.assignee_id, s.progress_percent, s.created_at, s.updated_at`

func (r *SQLiteSubTaskRepo) Create(ctx context.Context, s *domain.SubTask) error {
	query := `INSERT INTO subtasks (id, topic_id, title, description, start_date, end_date,
			status, assignee_id, progress_percent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TopicID,
		s.Title,
		nullableString(s.Description),
		formatDate(s.Interval.Start),
		formatDate(s.Interval.End),
		string(s.Status),
		nullableString(s.AssigneeID),
		s.Progress,
		formatTimestamp(s.CreatedAt),
		formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sub-task: %w", err)
	}
	return nil
}

func (r *SQLiteSubTaskRepo) GetByID(ctx context.Context, id string) (*domain.SubTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subTaskColumns+` FROM subtasks s WHERE s.id = ?`, id)
	s, err := scanSubTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sub-task %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSubTaskRepo) ListByTopic(ctx context.Context, topicID string) ([]*domain.SubTask, error) {
	return r.list(ctx, `SELECT `+subTaskColumns+` FROM subtasks s
		WHERE s.topic_id = ?
		ORDER BY s.start_date, s.title, s.created_at`, topicID)
}

func (r *SQLiteSubTaskRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.SubTask, error) {
	return r.list(ctx, `SELECT `+subTaskColumns+` FROM subtasks s
		JOIN topics t ON t.id = s.topic_id
		WHERE t.activity_id = ?
		ORDER BY s.start_date, s.title, s.created_at`, activityID)
}

func (r *SQLiteSubTaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.SubTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sub-tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.SubTask
	for rows.Next() {
		s, err := scanSubTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-tasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubTaskRepo) Update(ctx context.Context, s *domain.SubTask) error {
	query := `UPDATE subtasks SET title = ?, description = ?, start_date = ?, end_date = ?,
			status = ?, assignee_id = ?, progress_percent = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title,
		nullableString(s.Description),
		formatDate(s.Interval.Start),
		formatDate(s.Interval.End),
		string(s.Status),
		nullableString(s.AssigneeID),
		s.Progress,
		formatTimestamp(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sub-task: %w", err)
	}
	return requireAffected(res, "sub-task", s.ID)
}

func (r *SQLiteSubTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sub-task: %w", err)
	}
	return requireAffected(res, "sub-task", id)
}

func scanSubTask(row db.RowScanner) (*domain.SubTask, error) {
	var s domain.SubTask
	var desc, assignee sql.NullString
	var start, end, status, createdAt, updatedAt string
	err := row.Scan(
		&s.ID, &s.TopicID, &s.Title, &desc,
		&start, &end,
		&status, &assignee, &s.Progress,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sub-task: %w", err)
	}
	s.Description = stringPtr(desc)
	s.AssigneeID = stringPtr(assignee)
	s.Status = domain.SubTaskStatus(status)

	if s.Interval, err = parseInterval(start, end); err != nil {
		return nil, err
	}
	if s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
