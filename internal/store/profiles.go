package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateProfile(name, description, parameters string) (*Profile, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO profiles (name, description, parameters, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, description, parameters, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProfile(id)
}

func (s *Store) GetProfile(id int64) (*Profile, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, parameters, active, created_at, updated_at FROM profiles WHERE id = ?`, id,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProfiles(activeOnly bool) ([]Profile, error) {
	query := `SELECT id, name, description, parameters, active, created_at, updated_at FROM profiles`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *Store) SearchProfiles(query string) ([]Profile, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, parameters, active, created_at, updated_at FROM profiles WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *Store) UpdateProfile(id int64, name, description, parameters string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE profiles SET name = ?, description = ?, parameters = ?, updated_at = ? WHERE id = ?`,
		name, description, parameters, now, id,
	)
	return err
}

func (s *Store) DeactivateProfile(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE profiles SET active = 0, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func scanProfile(row rowScanner) (*Profile, error) {
	p := &Profile{}
	var createdAt, updatedAt string
	var active int
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Parameters, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Active = active == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}
