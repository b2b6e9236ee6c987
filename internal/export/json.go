package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/crema/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Shots      []jsonShot `json:"shots"`
}

type jsonShot struct {
	ID           int64    `json:"id"`
	Date         string   `json:"date"`
	Bean         string   `json:"bean"`
	BeanID       int64    `json:"bean_id"`
	Grinder      string   `json:"grinder,omitempty"`
	Profile      string   `json:"profile,omitempty"`
	DoseG        float64  `json:"dose_g"`
	YieldG       float64  `json:"yield_g"`
	Ratio        float64  `json:"ratio"`
	TimeSeconds  *int     `json:"time_seconds,omitempty"`
	TempC        *float64 `json:"temp_c,omitempty"`
	GrindSetting string   `json:"grind_setting,omitempty"`
	Rating       *int     `json:"rating,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	NextShot     string   `json:"next_shot,omitempty"`
}

func ToJSON(shots []store.ShotDetails, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(shots),
	}

	for _, s := range shots {
		export.Shots = append(export.Shots, jsonShot{
			ID:           s.ID,
			Date:         s.Date.Local().Format(time.RFC3339),
			Bean:         s.BeanLabel,
			BeanID:       s.BeanID,
			Grinder:      s.GrinderName,
			Profile:      s.ProfileName,
			DoseG:        s.DoseG,
			YieldG:       s.YieldG,
			Ratio:        s.Ratio,
			TimeSeconds:  s.TimeSeconds,
			TempC:        s.TempC,
			GrindSetting: s.GrindSetting,
			Rating:       s.Rating,
			Notes:        s.Notes,
			NextShot:     s.NextShot,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
