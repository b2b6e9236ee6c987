package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/crema/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewShots
	viewLibrary
	viewStats
	viewSettings
)

var viewNames = []string{"Dashboard", "Shots", "Library", "Stats", "Settings"}

// --- Messages ---

type shotLoggedMsg struct {
	shot     *store.Shot
	warnings []string
}

type shotDeletedMsg struct{}

type goalSavedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatClock renders an extraction duration as MM:SS.
func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// formatRatio renders a brew ratio as "1:2.0".
func formatRatio(r float64) string {
	return fmt.Sprintf("1:%.1f", r)
}

// optInt renders an optional int, "-" when absent.
func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// optFloat renders an optional float with one decimal, "-" when absent.
func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// ratingStars renders a 1-10 rating as a compact "8/10"; "-" when unrated.
func ratingStars(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d/10", *v)
}

// parseFloatField parses a form input, returning fallback when empty or
// malformed.
func parseFloatField(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseOptInt parses a form input into an optional int; empty or malformed
// input means absent.
func parseOptInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// parseOptDate parses a YYYY-MM-DD form input into an optional time.
func parseOptDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseOptFloat parses a form input into an optional float.
func parseOptFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
