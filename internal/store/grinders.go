package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateGrinder(name, defaultSetting, notes string) (*Grinder, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO grinders (name, default_setting, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, defaultSetting, notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grinder: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetGrinder(id)
}

func (s *Store) GetGrinder(id int64) (*Grinder, error) {
	row := s.db.QueryRow(
		`SELECT id, name, default_setting, notes, active, created_at, updated_at FROM grinders WHERE id = ?`, id,
	)
	g, err := scanGrinder(row)
	if err != nil {
		return nil, fmt.Errorf("get grinder %d: %w", id, err)
	}
	return g, nil
}

func (s *Store) ListGrinders(activeOnly bool) ([]Grinder, error) {
	query := `SELECT id, name, default_setting, notes, active, created_at, updated_at FROM grinders`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list grinders: %w", err)
	}
	defer rows.Close()

	var grinders []Grinder
	for rows.Next() {
		g, err := scanGrinder(rows)
		if err != nil {
			return nil, err
		}
		grinders = append(grinders, *g)
	}
	return grinders, rows.Err()
}

func (s *Store) SearchGrinders(query string) ([]Grinder, error) {
	rows, err := s.db.Query(
		`SELECT id, name, default_setting, notes, active, created_at, updated_at FROM grinders WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search grinders: %w", err)
	}
	defer rows.Close()

	var grinders []Grinder
	for rows.Next() {
		g, err := scanGrinder(rows)
		if err != nil {
			return nil, err
		}
		grinders = append(grinders, *g)
	}
	return grinders, rows.Err()
}

func (s *Store) UpdateGrinder(id int64, name, defaultSetting, notes string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE grinders SET name = ?, default_setting = ?, notes = ?, updated_at = ? WHERE id = ?`,
		name, defaultSetting, notes, now, id,
	)
	return err
}

func (s *Store) DeactivateGrinder(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE grinders SET active = 0, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func scanGrinder(row rowScanner) (*Grinder, error) {
	g := &Grinder{}
	var createdAt, updatedAt string
	var active int
	err := row.Scan(&g.ID, &g.Name, &g.DefaultSetting, &g.Notes, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	g.Active = active == 1
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return g, nil
}
