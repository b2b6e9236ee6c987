package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/sadopc/crema/internal/store"
)

// GenerateInsights evaluates a fixed set of rules over the shot history and
// returns short observations in rule order. Rules are independent; each
// contributes at most one line. When nothing fires a single fallback line is
// returned.
func GenerateInsights(shots []store.ShotDetails) []string {
	var insights []string
	if len(shots) == 0 {
		return []string{"Keep logging shots to get personalized insights"}
	}

	var ratingSum float64
	var rated int
	for i := range shots {
		if shots[i].Rating != nil {
			ratingSum += float64(*shots[i].Rating)
			rated++
		}
	}
	avgRating := 0.0
	if rated > 0 {
		avgRating = ratingSum / float64(rated)
	}

	// Overall quality.
	switch {
	case rated > 0 && avgRating >= 8.0:
		insights = append(insights, fmt.Sprintf("Excellent consistency: your average rating is %.1f", avgRating))
	case rated > 0 && avgRating < 6.0 && len(shots) > 5:
		insights = append(insights, fmt.Sprintf("Average rating %.1f - there is room for improvement", avgRating))
	}

	// Ratio consistency: mean absolute deviation from the overall average.
	avgRatio := 0.0
	for i := range shots {
		avgRatio += shots[i].Ratio
	}
	avgRatio /= float64(len(shots))
	mad := 0.0
	for i := range shots {
		mad += math.Abs(shots[i].Ratio - avgRatio)
	}
	mad /= float64(len(shots))
	if mad < 0.3 {
		insights = append(insights, fmt.Sprintf("Your brew ratio is consistent around %.2f", avgRatio))
	}

	// Recent trajectory: last 7 shots against the overall average.
	if len(shots) >= 7 {
		recent := make([]store.ShotDetails, len(shots))
		copy(recent, shots)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].Date.After(recent[j].Date)
		})
		recent = recent[:7]

		var recentSum float64
		var recentRated int
		for i := range recent {
			if recent[i].Rating != nil {
				recentSum += float64(*recent[i].Rating)
				recentRated++
			}
		}
		if recentRated > 0 {
			recentAvg := recentSum / float64(recentRated)
			switch {
			case recentAvg > avgRating+0.5:
				insights = append(insights, "Your recent shots are improving - keep it up")
			case recentAvg < avgRating-0.5:
				insights = append(insights, "Recent shots rate below your average - review technique")
			}
		}
	}

	// Favorite bean: one bean over 30% of all shots.
	beanCounts := make(map[string]int)
	var beanOrder []string
	for i := range shots {
		l := shots[i].BeanLabel
		if _, seen := beanCounts[l]; !seen {
			beanOrder = append(beanOrder, l)
		}
		beanCounts[l]++
	}
	favorite := ""
	for _, l := range beanOrder {
		if favorite == "" || beanCounts[l] > beanCounts[favorite] {
			favorite = l
		}
	}
	if favorite != "" && float64(beanCounts[favorite]) > float64(len(shots))*0.3 {
		insights = append(insights, fmt.Sprintf("Your favorite bean is %s", favorite))
	}

	// Sweet-spot ratio: where the highly rated shots sit.
	if len(shots) >= 10 {
		var highSum float64
		var highN int
		for i := range shots {
			if shots[i].Rating != nil && *shots[i].Rating >= 8 {
				highSum += shots[i].Ratio
				highN++
			}
		}
		if highN > 0 {
			insights = append(insights, fmt.Sprintf("Your best shots cluster around a %.2f ratio", highSum/float64(highN)))
		}
	}

	if len(insights) == 0 {
		insights = append(insights, "Keep logging shots to get personalized insights")
	}
	return insights
}
