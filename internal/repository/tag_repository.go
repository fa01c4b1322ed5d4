package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

// ErrDuplicateTag is returned when a tag name already exists for the user.
var ErrDuplicateTag = errors.New("tag already exists")

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(userID string, data models.TagCreate) (*models.Tag, error) {
	color := data.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	if existing, err := r.getByName(userID, data.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateTag
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(
		`INSERT INTO tags (user_id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		userID, data.Name, color, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("tag id: %w", err)
	}
	return r.GetByID(userID, id)
}

func (r *TagRepository) GetByID(userID string, tagID int64) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(
		`SELECT id, user_id, name, color, created_at FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

func (r *TagRepository) getByName(userID, name string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(
		`SELECT id, user_id, name, color, created_at FROM tags WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return &t, nil
}

// GetOrCreate returns the user's tag with that name, creating it when absent.
func (r *TagRepository) GetOrCreate(userID, name string) (*models.Tag, error) {
	tag, err := r.getByName(userID, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}
	return r.Create(userID, models.TagCreate{Name: name})
}

func (r *TagRepository) List(userID string) ([]models.Tag, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, name, color, created_at FROM tags WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Update(userID string, tagID int64, data models.TagUpdate) (*models.Tag, error) {
	tag, err := r.GetByID(userID, tagID)
	if err != nil {
		return nil, err
	}

	name := tag.Name
	if data.Name != nil {
		name = *data.Name
	}
	color := tag.Color
	if data.Color != nil {
		color = *data.Color
	}

	if name != tag.Name {
		if existing, err := r.getByName(userID, name); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, ErrDuplicateTag
		}
	}

	if _, err := r.db.Exec(
		`UPDATE tags SET name = ?, color = ? WHERE id = ? AND user_id = ?`,
		name, color, tagID, userID,
	); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return r.GetByID(userID, tagID)
}

func (r *TagRepository) Delete(userID string, tagID int64) error {
	if _, err := r.db.Exec(
		`DELETE FROM task_tags WHERE tag_id IN (SELECT id FROM tags WHERE id = ? AND user_id = ?)`,
		tagID, userID,
	); err != nil {
		return fmt.Errorf("delete tag associations: %w", err)
	}

	result, err := r.db.Exec(`DELETE FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Attach links tags to a task; already-linked pairs are skipped.
func (r *TagRepository) Attach(taskID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := r.db.Exec(
			`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`,
			taskID, tagID,
		); err != nil {
			return fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}
	return nil
}

// Detach removes one tag from a task; the tag itself survives.
func (r *TagRepository) Detach(taskID, tagID int64) error {
	result, err := r.db.Exec(
		`DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`,
		taskID, tagID,
	)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TagRepository) ListForTask(taskID int64) ([]models.Tag, error) {
	rows, err := r.db.Query(
		`SELECT tags.id, tags.user_id, tags.name, tags.color, tags.created_at
		 FROM tags JOIN task_tags ON tags.id = task_tags.tag_id
		 WHERE task_tags.task_id = ? ORDER BY tags.name`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list task tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
