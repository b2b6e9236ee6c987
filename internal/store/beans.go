package store

import (
	"database/sql"
	"fmt"
	"time"
)

const beanCols = `id, roaster, name, roast_date, buy_date, country, process, varietal, altitude_m, notes, active, created_at, updated_at`

func (s *Store) CreateBean(b Bean) (*Bean, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO beans (roaster, name, roast_date, buy_date, country, process, varietal, altitude_m, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Roaster, b.Name, b.RoastDate.UTC().Format(time.RFC3339), b.BuyDate.UTC().Format(time.RFC3339),
		b.Country, b.Process, b.Varietal, b.AltitudeM, b.Notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bean: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetBean(id)
}

func (s *Store) GetBean(id int64) (*Bean, error) {
	row := s.db.QueryRow(`SELECT `+beanCols+` FROM beans WHERE id = ?`, id)
	b, err := scanBean(row)
	if err != nil {
		return nil, fmt.Errorf("get bean %d: %w", id, err)
	}
	return b, nil
}

// ListBeans returns beans newest roast first. With activeOnly, deactivated
// beans are hidden; they stay resolvable through GetBean for old shots.
func (s *Store) ListBeans(activeOnly bool) ([]Bean, error) {
	query := `SELECT ` + beanCols + ` FROM beans`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY roast_date DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list beans: %w", err)
	}
	defer rows.Close()

	var beans []Bean
	for rows.Next() {
		b, err := scanBean(rows)
		if err != nil {
			return nil, err
		}
		beans = append(beans, *b)
	}
	return beans, rows.Err()
}

// SearchBeans matches the query as a substring of roaster or coffee name.
func (s *Store) SearchBeans(query string) ([]Bean, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT `+beanCols+` FROM beans WHERE roaster LIKE ? OR name LIKE ? ORDER BY roast_date DESC`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search beans: %w", err)
	}
	defer rows.Close()

	var beans []Bean
	for rows.Next() {
		b, err := scanBean(rows)
		if err != nil {
			return nil, err
		}
		beans = append(beans, *b)
	}
	return beans, rows.Err()
}

func (s *Store) UpdateBean(b Bean) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE beans SET roaster = ?, name = ?, roast_date = ?, buy_date = ?, country = ?, process = ?, varietal = ?, altitude_m = ?, notes = ?, updated_at = ? WHERE id = ?`,
		b.Roaster, b.Name, b.RoastDate.UTC().Format(time.RFC3339), b.BuyDate.UTC().Format(time.RFC3339),
		b.Country, b.Process, b.Varietal, b.AltitudeM, b.Notes, now, b.ID,
	)
	return err
}

func (s *Store) DeactivateBean(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE beans SET active = 0, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBean(row rowScanner) (*Bean, error) {
	b := &Bean{}
	var roastDate, buyDate, createdAt, updatedAt string
	var altitude sql.NullInt64
	var active int
	err := row.Scan(&b.ID, &b.Roaster, &b.Name, &roastDate, &buyDate, &b.Country, &b.Process,
		&b.Varietal, &altitude, &b.Notes, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if altitude.Valid {
		m := int(altitude.Int64)
		b.AltitudeM = &m
	}
	b.Active = active == 1
	b.RoastDate, _ = time.Parse(time.RFC3339, roastDate)
	b.BuyDate, _ = time.Parse(time.RFC3339, buyDate)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return b, nil
}
