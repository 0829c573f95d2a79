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

const projectColumns = `id, name, description, status, priority, owner_id, due_date, created_at, updated_at`

// ListProjects retrieves all projects with their team member lists.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		members, err := s.projectMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].TeamMembers = members
	}
	return projects, nil
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	members, err := s.projectMembers(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	p.TeamMembers = members
	return p, nil
}

// CreateProject persists a new project and its team member rows.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO projects(name, description, status, priority, owner_id, due_date)
        VALUES(?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(p.Name), p.Description, string(p.Status), string(p.Priority), p.OwnerID, p.DueDate)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Project{}, fmt.Errorf("project id: %w", err)
	}

	if err := s.replaceMembers(ctx, id, p.TeamMembers); err != nil {
		return models.Project{}, err
	}

	created, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	s.notifyChange("projects")
	return created, nil
}

// UpdateProject applies a partial update. Recognized keys: name, description,
// status, priority, due_date (*time.Time), team_members ([]int64).
func (s *Store) UpdateProject(ctx context.Context, id int64, changes map[string]any) (models.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	name := current.Name
	description := current.Description
	status := current.Status
	priority := current.Priority
	dueDate := current.DueDate

	if v, ok := changes["name"].(string); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}
	if v, ok := changes["description"].(string); ok {
		description = v
	}
	if v, ok := changes["status"].(string); ok {
		if parsed, err := models.ParseProjectStatus(v); err == nil {
			status = parsed
		}
	}
	if v, ok := changes["priority"].(string); ok {
		if parsed, err := models.ParseProjectPriority(v); err == nil {
			priority = parsed
		}
	}
	if v, ok := changes["due_date"].(*time.Time); ok {
		dueDate = v
	}

	_, err = s.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, status = ?, priority = ?,
        due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, string(status), string(priority), dueDate, id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}

	if v, ok := changes["team_members"].([]int64); ok {
		if err := s.replaceMembers(ctx, id, v); err != nil {
			return models.Project{}, err
		}
	}

	updated, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	s.notifyChange("projects")
	return updated, nil
}

// DeleteProject removes a project; member rows cascade.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	s.notifyChange("projects")
	return nil
}

func (s *Store) projectMembers(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM project_members WHERE project_id = ? ORDER BY user_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func (s *Store) replaceMembers(ctx context.Context, projectID int64, members []int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clear members: %w", err)
	}
	for _, userID := range members {
		if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO project_members(project_id, user_id) VALUES(?, ?)`, projectID, userID); err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
	}
	return nil
}

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	var status, priority string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &priority, &p.OwnerID, &p.DueDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	p.Status = models.ProjectStatus(status)
	p.Priority = models.ProjectPriority(priority)
	return p, nil
}
