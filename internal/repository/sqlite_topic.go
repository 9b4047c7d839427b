package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// SQLiteTopicRepo implements TopicRepo using a SQLite database.
type SQLiteTopicRepo struct {
	db db.DBTX
}

// NewSQLiteTopicRepo creates a new SQLiteTopicRepo.
func NewSQLiteTopicRepo(conn db.DBTX) *SQLiteTopicRepo {
	return &SQLiteTopicRepo{db: conn}
}

const topicColumns = `id, activity_id, title, description, created_at, updated_at`

// Create inserts the topic after the activity's current last topic.
func (r *SQLiteTopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	query := `INSERT INTO topics (id, activity_id, title, description, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM topics WHERE activity_id = ?), ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ActivityID,
		t.Title,
		nullableString(t.Description),
		t.ActivityID,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting topic: %w", err)
	}
	return nil
}

func (r *SQLiteTopicRepo) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ?`, id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %s: %w", id, domain.ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTopicRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE activity_id = ? ORDER BY seq, created_at`, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []*domain.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}
	return topics, nil
}

func (r *SQLiteTopicRepo) Update(ctx context.Context, t *domain.Topic) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE topics SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		t.Title, nullableString(t.Description), formatTimestamp(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating topic: %w", err)
	}
	return requireAffected(res, "topic", t.ID)
}

// Delete removes the topic and, via ON DELETE CASCADE, its sub-tasks.
func (r *SQLiteTopicRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting topic: %w", err)
	}
	return requireAffected(res, "topic", id)
}

func scanTopic(row db.RowScanner) (*domain.Topic, error) {
	var t domain.Topic
	var desc sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.ActivityID, &t.Title, &desc, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}
	t.Description = stringPtr(desc)

	var err error
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
