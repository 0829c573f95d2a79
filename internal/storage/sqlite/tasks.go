package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamboard/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

const taskColumns = `id, title, description, status, priority, assignee_id, due_date,
    comments_count, attachments_count, created_by, created_at, updated_at`

// ListTasks returns every task ordered by creation date, newest first, with
// labels attached.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		labels, err := s.taskLabels(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Labels = labels
	}
	return tasks, nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	labels, err := s.taskLabels(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t.Labels = labels
	return t, nil
}

// CreateTask inserts a new task together with its label set.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(title, description, status, priority, assignee_id, due_date, created_by)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(t.Title), t.Description, string(t.Status), string(t.Priority), t.AssigneeID, t.DueDate, t.CreatedBy)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}

	if err := s.replaceLabels(ctx, id, models.NormalizeLabels(t.Labels)); err != nil {
		return models.Task{}, err
	}

	created, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	s.notifyChange("tasks")
	return created, nil
}

// UpdateTask applies a partial update. Recognized keys: title, description,
// status, priority, assignee_id (*int64), due_date (*time.Time), labels
// ([]string, replaces the whole set).
func (s *Store) UpdateTask(ctx context.Context, id int64, changes map[string]any) (models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	title := current.Title
	description := current.Description
	status := current.Status
	priority := current.Priority
	assignee := current.AssigneeID
	dueDate := current.DueDate

	if v, ok := changes["title"].(string); ok && strings.TrimSpace(v) != "" {
		title = strings.TrimSpace(v)
	}
	if v, ok := changes["description"].(string); ok {
		description = v
	}
	if v, ok := changes["status"].(string); ok {
		if parsed, err := models.ParseTaskStatus(v); err == nil {
			status = parsed
		}
	}
	if v, ok := changes["priority"].(string); ok {
		if parsed, err := models.ParseTaskPriority(v); err == nil {
			priority = parsed
		}
	}
	if v, ok := changes["assignee_id"].(*int64); ok {
		assignee = v
	}
	if v, ok := changes["due_date"].(*time.Time); ok {
		dueDate = v
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
        assignee_id = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, description, string(status), string(priority), assignee, dueDate, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	if v, ok := changes["labels"].([]string); ok {
		if err := s.replaceLabels(ctx, id, models.NormalizeLabels(v)); err != nil {
			return models.Task{}, err
		}
	}

	updated, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	s.notifyChange("tasks")
	return updated, nil
}

// DeleteTask removes a task; labels and comments cascade.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	s.notifyChange("tasks")
	return nil
}

// AddComment inserts a comment and bumps the task's comment counter.
func (s *Store) AddComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO comments(task_id, author_id, body) VALUES(?, ?, ?)`,
		c.TaskID, c.AuthorID, c.Body)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, fmt.Errorf("comment id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET comments_count = comments_count + 1 WHERE id = ?`, c.TaskID); err != nil {
		return models.Comment{}, fmt.Errorf("bump comment count: %w", err)
	}

	var created models.Comment
	err = s.db.QueryRowContext(ctx, `SELECT id, task_id, author_id, body, created_at FROM comments WHERE id = ?`, id).
		Scan(&created.ID, &created.TaskID, &created.AuthorID, &created.Body, &created.CreatedAt)
	if err != nil {
		return models.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	s.notifyChange("tasks")
	return created, nil
}

// ListComments returns a task's comments oldest first.
func (s *Store) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, author_id, body, created_at
        FROM comments WHERE task_id = ? ORDER BY created_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) taskLabels(ctx context.Context, taskID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label FROM task_labels WHERE task_id = ? ORDER BY label`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (s *Store) replaceLabels(ctx context.Context, taskID int64, labels []string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	for _, label := range labels {
		// INSERT OR IGNORE keeps set semantics even if callers pass duplicates.
		if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO task_labels(task_id, label) VALUES(?, ?)`, taskID, label); err != nil {
			return fmt.Errorf("insert label: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &t.AssigneeID, &t.DueDate,
		&t.CommentsCount, &t.AttachmentsCount, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.Status = models.TaskStatus(status)
	t.Priority = models.TaskPriority(priority)
	return t, nil
}
