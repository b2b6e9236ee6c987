package stats

import (
	"math"

	"github.com/sadopc/crema/internal/store"
)

// Goal types, matching the values stored in the goals table.
const (
	GoalRatingAverage   = "rating_average"
	GoalBeanExploration = "bean_exploration"
	GoalConsistency     = "consistency"
	GoalShotsCount      = "shots_count"
	GoalGrinderTest     = "grinder_test"
	GoalRatioMastery    = "ratio_mastery"
)

// consistency counts shots rated at least this high; ratio_mastery counts
// shots within this distance of a 2.0 brew ratio.
const (
	consistencyMinRating = 8
	masteryTargetRatio   = 2.0
	masteryTolerance     = 0.2
)

// GoalProgress is the current standing of one goal against the shot history.
type GoalProgress struct {
	Current  float64
	Percent  float64
	Achieved bool
}

// ProgressFor computes a goal's progress from the shot snapshot. Unknown goal
// types report zero progress.
func ProgressFor(goal store.Goal, shots []store.ShotDetails) GoalProgress {
	var current float64

	switch goal.Type {
	case GoalRatingAverage:
		var sum float64
		var rated int
		for i := range shots {
			if shots[i].Rating != nil {
				sum += float64(*shots[i].Rating)
				rated++
			}
		}
		if rated > 0 {
			current = sum / float64(rated)
		}
	case GoalShotsCount:
		current = float64(len(shots))
	case GoalBeanExploration:
		seen := make(map[string]bool)
		for i := range shots {
			seen[shots[i].BeanLabel] = true
		}
		current = float64(len(seen))
	case GoalGrinderTest:
		seen := make(map[string]bool)
		for i := range shots {
			if shots[i].GrinderName != "" {
				seen[shots[i].GrinderName] = true
			}
		}
		current = float64(len(seen))
	case GoalConsistency:
		for i := range shots {
			if shots[i].Rating != nil && *shots[i].Rating >= consistencyMinRating {
				current++
			}
		}
	case GoalRatioMastery:
		for i := range shots {
			if math.Abs(shots[i].Ratio-masteryTargetRatio) <= masteryTolerance {
				current++
			}
		}
	}

	p := GoalProgress{Current: current}
	if goal.TargetValue > 0 {
		p.Percent = math.Min(current/goal.TargetValue*100, 100)
		p.Achieved = current >= goal.TargetValue
	}
	return p
}
