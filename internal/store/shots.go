package store

import (
	"database/sql"
	"fmt"
	"time"
)

const shotCols = `s.id, s.date, s.bean_id, s.grinder_id, s.profile_id, s.dose_g, s.yield_g, s.ratio,
	s.time_seconds, s.temp_c, s.grind_setting, s.preinfusion_sec, s.preinfusion_bar,
	s.aroma, s.flavor, s.body, s.acidity, s.finish, s.notes, s.next_shot, s.rating,
	s.created_at, s.updated_at`

// CreateShot inserts a shot. The stored ratio is always recomputed from dose
// and yield here; a ratio carried on the input is ignored.
func (s *Store) CreateShot(shot Shot) (*Shot, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO shots (date, bean_id, grinder_id, profile_id, dose_g, yield_g, ratio,
			time_seconds, temp_c, grind_setting, preinfusion_sec, preinfusion_bar,
			aroma, flavor, body, acidity, finish, notes, next_shot, rating, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shot.Date.UTC().Format(time.RFC3339), shot.BeanID, shot.GrinderID, shot.ProfileID,
		shot.DoseG, shot.YieldG, brewRatio(shot.DoseG, shot.YieldG),
		shot.TimeSeconds, shot.TempC, shot.GrindSetting, shot.PreinfusionSec, shot.PreinfusionBar,
		shot.Aroma, shot.Flavor, shot.Body, shot.Acidity, shot.Finish,
		shot.Notes, shot.NextShot, shot.Rating, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shot: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetShot(id)
}

func (s *Store) GetShot(id int64) (*Shot, error) {
	row := s.db.QueryRow(`SELECT `+shotCols+` FROM shots s WHERE s.id = ?`, id)
	shot, err := scanShot(row)
	if err != nil {
		return nil, fmt.Errorf("get shot %d: %w", id, err)
	}
	return shot, nil
}

func (s *Store) UpdateShot(shot Shot) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE shots SET date = ?, bean_id = ?, grinder_id = ?, profile_id = ?, dose_g = ?, yield_g = ?, ratio = ?,
			time_seconds = ?, temp_c = ?, grind_setting = ?, preinfusion_sec = ?, preinfusion_bar = ?,
			aroma = ?, flavor = ?, body = ?, acidity = ?, finish = ?, notes = ?, next_shot = ?, rating = ?, updated_at = ?
		 WHERE id = ?`,
		shot.Date.UTC().Format(time.RFC3339), shot.BeanID, shot.GrinderID, shot.ProfileID,
		shot.DoseG, shot.YieldG, brewRatio(shot.DoseG, shot.YieldG),
		shot.TimeSeconds, shot.TempC, shot.GrindSetting, shot.PreinfusionSec, shot.PreinfusionBar,
		shot.Aroma, shot.Flavor, shot.Body, shot.Acidity, shot.Finish,
		shot.Notes, shot.NextShot, shot.Rating, now, shot.ID,
	)
	return err
}

// DeleteShot removes a shot permanently. Unlike beans, grinders and profiles,
// shots are hard-deleted.
func (s *Store) DeleteShot(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shots WHERE id = ?`, id)
	return err
}

// ListShots returns the shot history with denormalized bean, grinder and
// profile names, newest first. Filters are AND-combined; the rating range is
// applied only when both bounds are set.
func (s *Store) ListShots(f ShotFilter) ([]ShotDetails, error) {
	query := `SELECT ` + shotCols + `,
		b.roaster || ' - ' || b.name AS bean_label,
		COALESCE(g.name, '') AS grinder_name,
		COALESCE(p.name, '') AS profile_name
	FROM shots s
	JOIN beans b ON b.id = s.bean_id
	LEFT JOIN grinders g ON g.id = s.grinder_id
	LEFT JOIN profiles p ON p.id = s.profile_id
	WHERE 1=1`
	var args []any

	if f.MinRating != nil && f.MaxRating != nil {
		query += ` AND s.rating IS NOT NULL AND s.rating >= ? AND s.rating <= ?`
		args = append(args, *f.MinRating, *f.MaxRating)
	}
	if f.BeanID != nil {
		query += ` AND s.bean_id = ?`
		args = append(args, *f.BeanID)
	}
	if f.GrinderID != nil {
		query += ` AND s.grinder_id = ?`
		args = append(args, *f.GrinderID)
	}
	if f.From != nil {
		query += ` AND s.date >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND s.date < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY s.date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	defer rows.Close()

	var details []ShotDetails
	for rows.Next() {
		d, err := scanShotDetails(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

func brewRatio(dose, yield float64) float64 {
	if dose <= 0 {
		return 0
	}
	return yield / dose
}

type shotScanTarget struct {
	shot       *Shot
	date       string
	createdAt  string
	updatedAt  string
	grinderID  sql.NullInt64
	profileID  sql.NullInt64
	timeSec    sql.NullInt64
	tempC      sql.NullFloat64
	preinfSec  sql.NullInt64
	preinfBar  sql.NullFloat64
	rating     sql.NullInt64
}

func (t *shotScanTarget) fields() []any {
	s := t.shot
	return []any{
		&s.ID, &t.date, &s.BeanID, &t.grinderID, &t.profileID, &s.DoseG, &s.YieldG, &s.Ratio,
		&t.timeSec, &t.tempC, &s.GrindSetting, &t.preinfSec, &t.preinfBar,
		&s.Aroma, &s.Flavor, &s.Body, &s.Acidity, &s.Finish, &s.Notes, &s.NextShot, &t.rating,
		&t.createdAt, &t.updatedAt,
	}
}

func (t *shotScanTarget) finish() {
	s := t.shot
	if t.grinderID.Valid {
		s.GrinderID = &t.grinderID.Int64
	}
	if t.profileID.Valid {
		s.ProfileID = &t.profileID.Int64
	}
	if t.timeSec.Valid {
		v := int(t.timeSec.Int64)
		s.TimeSeconds = &v
	}
	if t.tempC.Valid {
		v := t.tempC.Float64
		s.TempC = &v
	}
	if t.preinfSec.Valid {
		v := int(t.preinfSec.Int64)
		s.PreinfusionSec = &v
	}
	if t.preinfBar.Valid {
		v := t.preinfBar.Float64
		s.PreinfusionBar = &v
	}
	if t.rating.Valid {
		v := int(t.rating.Int64)
		s.Rating = &v
	}
	s.Date, _ = time.Parse(time.RFC3339, t.date)
	s.CreatedAt, _ = time.Parse(time.RFC3339, t.createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, t.updatedAt)
}

func scanShot(row rowScanner) (*Shot, error) {
	shot := &Shot{}
	t := shotScanTarget{shot: shot}
	if err := row.Scan(t.fields()...); err != nil {
		return nil, err
	}
	t.finish()
	return shot, nil
}

func scanShotDetails(row rowScanner) (*ShotDetails, error) {
	d := &ShotDetails{}
	t := shotScanTarget{shot: &d.Shot}
	dest := append(t.fields(), &d.BeanLabel, &d.GrinderName, &d.ProfileName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.finish()
	return d, nil
}
