package stats

import "fmt"

// WarningCategory identifies the kind of quality concern a warning raises.
// At most one warning per category survives a single analysis.
type WarningCategory string

const (
	RatioLow           WarningCategory = "RATIO_LOW"
	RatioHigh          WarningCategory = "RATIO_HIGH"
	TimeVeryShort      WarningCategory = "TIME_VERY_SHORT"
	TimeVeryLong       WarningCategory = "TIME_VERY_LONG"
	RatingInconsistent WarningCategory = "RATING_INCONSISTENT"
	DoseUnusual        WarningCategory = "DOSE_UNUSUAL"
	YieldLow           WarningCategory = "YIELD_LOW"
)

// Severity ranks warnings: info < warning < error.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Warning is one flagged quality concern about a shot.
type Warning struct {
	Category WarningCategory
	Message  string
	Severity Severity
}

// ShotInput is the subset of shot parameters the analyzer looks at.
type ShotInput struct {
	TimeSeconds *int
	DoseG       float64
	YieldG      float64
	Rating      *int
}

// HistoryPoint is a prior shot's (time, dose) pair, used for rolling
// averages.
type HistoryPoint struct {
	TimeSeconds *int
	DoseG       float64
}

// AnalyzeShot checks one shot's parameters against fixed bounds and the
// user's historical averages. Warnings come back unique by category, in the
// order first produced; within a category a later rule overwrites the
// earlier message. With no history the current shot's own values stand in
// for the averages, so the relative rules cannot fire. Absent optional
// inputs skip their rules.
func AnalyzeShot(in ShotInput, history []HistoryPoint) []Warning {
	ratio := 0.0
	if in.DoseG > 0 {
		ratio = in.YieldG / in.DoseG
	}

	avgDose := in.DoseG
	if len(history) > 0 {
		sum := 0.0
		for _, h := range history {
			sum += h.DoseG
		}
		avgDose = sum / float64(len(history))
	}

	avgTime := 30.0
	haveAvgTime := true
	if len(history) > 0 {
		sum, n := 0.0, 0
		for _, h := range history {
			if h.TimeSeconds != nil {
				sum += float64(*h.TimeSeconds)
				n++
			}
		}
		if n > 0 {
			avgTime = sum / float64(n)
		} else {
			haveAvgTime = false
		}
	} else if in.TimeSeconds != nil {
		avgTime = float64(*in.TimeSeconds)
	}

	var out []Warning
	index := make(map[WarningCategory]int)
	add := func(cat WarningCategory, sev Severity, msg string) {
		if i, ok := index[cat]; ok {
			out[i] = Warning{Category: cat, Message: msg, Severity: sev}
			return
		}
		index[cat] = len(out)
		out = append(out, Warning{Category: cat, Message: msg, Severity: sev})
	}

	// Ratio bounds.
	switch {
	case ratio < 1.5:
		add(RatioLow, SeverityWarning,
			fmt.Sprintf("Ratio very low (%.2f:1) - likely under-extraction", ratio))
	case ratio > 3.5:
		add(RatioHigh, SeverityWarning,
			fmt.Sprintf("Ratio very high (%.2f:1) - may be over-extracted", ratio))
	}

	// Time bounds, absolute first, then relative to the user's average.
	if in.TimeSeconds != nil {
		t := *in.TimeSeconds
		switch {
		case t < 20:
			add(TimeVeryShort, SeverityError,
				fmt.Sprintf("Very fast extraction (%ds) - typically under-extracted", t))
		case t > 70:
			add(TimeVeryLong, SeverityWarning,
				fmt.Sprintf("Very long extraction (%ds) - over-extraction risk", t))
		case haveAvgTime && float64(t) < avgTime*0.7:
			add(TimeVeryShort, SeverityInfo,
				fmt.Sprintf("Much faster than your average (%ds vs %.0fs)", t, avgTime))
		}
	}

	// Dose far below the user's average.
	if in.DoseG < avgDose*0.6 {
		add(DoseUnusual, SeverityInfo,
			fmt.Sprintf("Unusually low dose (%.1fg vs %.1fg average)", in.DoseG, avgDose))
	}

	// High rating with a tight ratio is unusual.
	if in.Rating != nil && *in.Rating >= 8 && ratio < 1.8 {
		add(RatingInconsistent, SeverityInfo,
			"High rating with a low ratio - unusual compared to your history")
	}

	// Yield too low for the dose.
	if in.YieldG < in.DoseG*1.2 {
		add(YieldLow, SeverityWarning,
			"Yield very low for the dose - possible lost coffee")
	}

	return out
}
