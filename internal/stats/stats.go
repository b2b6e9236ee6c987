// Package stats turns a snapshot of the shot history into display-ready
// aggregates. Every function here is pure: callers pass the current list of
// shots (and an explicit now for time-windowed views) and get a freshly
// built result; nothing is cached or mutated.
package stats

import (
	"sort"
	"time"

	"github.com/sadopc/crema/internal/store"
)

const (
	// TrendWindowDays is the default trailing window for trend series.
	TrendWindowDays = 7
	topBeansLimit   = 8
)

// Distribution is the rating histogram over shots that carry a rating.
type Distribution struct {
	Counts     map[int]int
	TotalRated int
}

// Percent returns the share of rated shots in the given bucket, 0 when
// nothing is rated.
func (d Distribution) Percent(rating int) float64 {
	if d.TotalRated == 0 {
		return 0
	}
	return float64(d.Counts[rating]) / float64(d.TotalRated) * 100
}

// Averages holds the headline numbers for a shot list. The optional-field
// averages (time, temp, rating) only cover shots where the field is present;
// when no shot has the field the average is 0 by policy, not NaN.
type Averages struct {
	Count      int
	AvgRatio   float64
	AvgTimeSec float64
	AvgTempC   float64
	AvgRating  float64
	// Best is the highest-rated shot, first occurrence winning ties.
	// Nil when no shot is rated.
	Best *store.ShotDetails
}

// Ranking is one row of a per-bean or per-grinder rating table.
type Ranking struct {
	Label     string
	AvgRating float64
	ShotCount int
}

// Combination is the best-performing (bean, grinder) pair.
type Combination struct {
	BeanLabel   string
	GrinderName string
	Rating      float64
	Ratio       float64
}

// BeanCount is one bar of the shots-per-bean chart.
type BeanCount struct {
	Label string
	Count int
}

// Trend carries parallel series for charting, one point per shot inside the
// window, chronologically ascending.
type Trend struct {
	Dates   []string
	Ratings []float64
	Ratios  []float64
}

// Snapshot bundles every aggregate view over one shot list.
type Snapshot struct {
	Distribution    Distribution
	Averages        Averages
	BeanRankings    []Ranking
	GrinderRankings []Ranking
	BestCombination *Combination
	ShotsPerBean    []BeanCount
	Trend           Trend
	Insights        []string
}

// Compute builds the full snapshot. now anchors the trend window and the
// recency comparisons; pass a fixed time in tests for reproducible output.
func Compute(shots []store.ShotDetails, now time.Time) Snapshot {
	return Snapshot{
		Distribution:    RatingDistribution(shots),
		Averages:        AverageMetrics(shots),
		BeanRankings:    BeanRankings(shots),
		GrinderRankings: GrinderRankings(shots),
		BestCombination: BestCombination(shots),
		ShotsPerBean:    ShotsPerBean(shots),
		Trend:           TrendSeries(shots, now, TrendWindowDays),
		Insights:        GenerateInsights(shots),
	}
}

// RatingDistribution counts shots per rating bucket 1..10. Unrated shots are
// not counted.
func RatingDistribution(shots []store.ShotDetails) Distribution {
	d := Distribution{Counts: make(map[int]int)}
	for _, s := range shots {
		if s.Rating != nil && *s.Rating > 0 {
			d.Counts[*s.Rating]++
			d.TotalRated++
		}
	}
	return d
}

// AverageMetrics computes the headline averages for a shot list.
func AverageMetrics(shots []store.ShotDetails) Averages {
	a := Averages{Count: len(shots)}
	if len(shots) == 0 {
		return a
	}

	var ratioSum float64
	var timeSum, tempSum, ratingSum float64
	var timeN, tempN, ratingN int

	for i := range shots {
		s := &shots[i]
		ratioSum += s.Ratio
		if s.TimeSeconds != nil {
			timeSum += float64(*s.TimeSeconds)
			timeN++
		}
		if s.TempC != nil {
			tempSum += *s.TempC
			tempN++
		}
		if s.Rating != nil {
			ratingSum += float64(*s.Rating)
			ratingN++
			if a.Best == nil || *s.Rating > *a.Best.Rating {
				// Copy so the result never aliases the caller's slice.
				best := shots[i]
				a.Best = &best
			}
		}
	}

	a.AvgRatio = ratioSum / float64(len(shots))
	if timeN > 0 {
		a.AvgTimeSec = timeSum / float64(timeN)
	}
	if tempN > 0 {
		a.AvgTempC = tempSum / float64(tempN)
	}
	if ratingN > 0 {
		a.AvgRating = ratingSum / float64(ratingN)
	}
	return a
}

// BeanRankings groups shots by bean label and ranks by average rating
// descending, then shot count descending, then label ascending.
func BeanRankings(shots []store.ShotDetails) []Ranking {
	return rankBy(shots, func(s *store.ShotDetails) string { return s.BeanLabel })
}

// GrinderRankings is BeanRankings over the grinder name. Shots without a
// grinder are left out.
func GrinderRankings(shots []store.ShotDetails) []Ranking {
	return rankBy(shots, func(s *store.ShotDetails) string { return s.GrinderName })
}

func rankBy(shots []store.ShotDetails, label func(*store.ShotDetails) string) []Ranking {
	type acc struct {
		ratingSum float64
		rated     int
		count     int
	}
	groups := make(map[string]*acc)
	for i := range shots {
		l := label(&shots[i])
		if l == "" {
			continue
		}
		g := groups[l]
		if g == nil {
			g = &acc{}
			groups[l] = g
		}
		g.count++
		if shots[i].Rating != nil {
			g.ratingSum += float64(*shots[i].Rating)
			g.rated++
		}
	}

	rankings := make([]Ranking, 0, len(groups))
	for l, g := range groups {
		r := Ranking{Label: l, ShotCount: g.count}
		if g.rated > 0 {
			r.AvgRating = g.ratingSum / float64(g.rated)
		}
		rankings = append(rankings, r)
	}

	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		if a.ShotCount != b.ShotCount {
			return a.ShotCount > b.ShotCount
		}
		return a.Label < b.Label
	})
	return rankings
}

// BestCombination finds the (bean, grinder) pair with the highest average
// rating. Returns nil when no shot has a grinder.
func BestCombination(shots []store.ShotDetails) *Combination {
	type acc struct {
		bean, grinder string
		ratingSum     float64
		rated         int
		ratioSum      float64
		count         int
	}
	type pairKey struct{ bean, grinder string }

	groups := make(map[pairKey]*acc)
	var order []pairKey
	for i := range shots {
		s := &shots[i]
		if s.GrinderName == "" {
			continue
		}
		k := pairKey{s.BeanLabel, s.GrinderName}
		g := groups[k]
		if g == nil {
			g = &acc{bean: s.BeanLabel, grinder: s.GrinderName}
			groups[k] = g
			order = append(order, k)
		}
		g.count++
		g.ratioSum += s.Ratio
		if s.Rating != nil {
			g.ratingSum += float64(*s.Rating)
			g.rated++
		}
	}
	if len(groups) == 0 {
		return nil
	}

	var best *acc
	var bestAvg float64
	for _, k := range order {
		g := groups[k]
		avg := 0.0
		if g.rated > 0 {
			avg = g.ratingSum / float64(g.rated)
		}
		if best == nil || avg > bestAvg {
			best = g
			bestAvg = avg
		}
	}

	return &Combination{
		BeanLabel:   best.bean,
		GrinderName: best.grinder,
		Rating:      bestAvg,
		Ratio:       best.ratioSum / float64(best.count),
	}
}

// ShotsPerBean returns the most-used beans, at most 8, ordered by shot count
// descending. Ties keep first-encountered order.
func ShotsPerBean(shots []store.ShotDetails) []BeanCount {
	counts := make(map[string]int)
	var order []string
	for i := range shots {
		l := shots[i].BeanLabel
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}

	result := make([]BeanCount, 0, len(order))
	for _, l := range order {
		result = append(result, BeanCount{Label: l, Count: counts[l]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > topBeansLimit {
		result = result[:topBeansLimit]
	}
	return result
}

// TrendSeries selects shots whose date falls within the trailing windowDays
// from now (inclusive) and emits one point per shot, oldest first. Unrated
// shots contribute a 0 rating point so the series stay parallel.
func TrendSeries(shots []store.ShotDetails, now time.Time, windowDays int) Trend {
	cutoff := now.AddDate(0, 0, -windowDays)

	var window []store.ShotDetails
	for i := range shots {
		d := shots[i].Date
		if !d.Before(cutoff) && !d.After(now) {
			window = append(window, shots[i])
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Date.Before(window[j].Date)
	})

	t := Trend{}
	for i := range window {
		s := &window[i]
		t.Dates = append(t.Dates, s.Date.Format("2006-01-02"))
		rating := 0.0
		if s.Rating != nil {
			rating = float64(*s.Rating)
		}
		t.Ratings = append(t.Ratings, rating)
		t.Ratios = append(t.Ratios, s.Ratio)
	}
	return t
}
