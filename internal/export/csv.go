package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/crema/internal/store"
)

func ToCSV(shots []store.ShotDetails, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{
		"ID", "Date", "Bean", "Grinder", "Profile",
		"Dose (g)", "Yield (g)", "Ratio", "Time (s)", "Temp (C)",
		"Grind Setting", "Rating", "Notes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range shots {
		row := []string{
			fmt.Sprintf("%d", s.ID),
			s.Date.Local().Format(time.RFC3339),
			s.BeanLabel,
			s.GrinderName,
			s.ProfileName,
			fmt.Sprintf("%.1f", s.DoseG),
			fmt.Sprintf("%.1f", s.YieldG),
			fmt.Sprintf("%.2f", s.Ratio),
			intField(s.TimeSeconds),
			floatField(s.TempC),
			s.GrindSetting,
			intField(s.Rating),
			s.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}
