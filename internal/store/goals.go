package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateGoal(name, description, goalType string, targetValue float64, dueDate *time.Time) (*Goal, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var due any
	if dueDate != nil {
		due = dueDate.UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(
		`INSERT INTO goals (name, description, type, target_value, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, description, goalType, targetValue, due, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetGoal(id)
}

func (s *Store) GetGoal(id int64) (*Goal, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, type, target_value, due_date, completed, completed_at, created_at FROM goals WHERE id = ?`, id,
	)
	g, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, nil
}

// ListGoals returns goals newest first. With activeOnly, completed goals are
// hidden.
func (s *Store) ListGoals(activeOnly bool) ([]Goal, error) {
	query := `SELECT id, name, description, type, target_value, due_date, completed, completed_at, created_at FROM goals`
	if activeOnly {
		query += ` WHERE completed = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) CompleteGoal(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE goals SET completed = 1, completed_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func (s *Store) DeleteGoal(id int64) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	return err
}

func scanGoal(row rowScanner) (*Goal, error) {
	g := &Goal{}
	var createdAt string
	var dueDate, completedAt sql.NullString
	var completed int
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Type, &g.TargetValue, &dueDate, &completed, &completedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	g.Completed = completed == 1
	if dueDate.Valid {
		t, _ := time.Parse(time.RFC3339, dueDate.String)
		g.DueDate = &t
	}
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		g.CompletedAt = &t
	}
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return g, nil
}
