package store

import (
	"fmt"
	"strconv"
)

// Setting keys seeded by the initial migration.
const (
	SettingDefaultDose      = "default_dose"
	SettingDefaultRatio     = "default_ratio"
	SettingDefaultYield     = "default_yield"
	SettingDefaultGrinderID = "default_grinder_id"
	SettingDefaultProfileID = "default_profile_id"
	SettingAutofillLast     = "autofill_last"
	SettingTrendWindowDays  = "trend_window_days"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Typed accessors over the seeded keys. A missing or malformed value falls
// back to the migration default rather than erroring: brewing defaults are
// hints, not invariants.

func (s *Store) DefaultDose() float64 {
	return s.settingFloat(SettingDefaultDose, 18.0)
}

func (s *Store) DefaultRatio() float64 {
	return s.settingFloat(SettingDefaultRatio, 2.0)
}

func (s *Store) DefaultYield() float64 {
	return s.settingFloat(SettingDefaultYield, 36.0)
}

// DefaultGrinderID returns 0 when no default grinder is configured.
func (s *Store) DefaultGrinderID() int64 {
	return s.settingID(SettingDefaultGrinderID)
}

// DefaultProfileID returns 0 when no default profile is configured.
func (s *Store) DefaultProfileID() int64 {
	return s.settingID(SettingDefaultProfileID)
}

func (s *Store) AutofillLast() bool {
	v, err := s.GetSetting(SettingAutofillLast)
	if err != nil {
		return true
	}
	return v == "true"
}

func (s *Store) TrendWindowDays() int {
	v, err := s.GetSetting(SettingTrendWindowDays)
	if err != nil {
		return 7
	}
	days, err := strconv.Atoi(v)
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

func (s *Store) settingFloat(key string, fallback float64) float64 {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (s *Store) settingID(key string) int64 {
	v, err := s.GetSetting(key)
	if err != nil || v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
