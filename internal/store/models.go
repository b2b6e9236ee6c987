package store

import "time"

type Bean struct {
	ID        int64
	Roaster   string
	Name      string
	RoastDate time.Time
	BuyDate   time.Time
	Country   string
	Process   string
	Varietal  string
	AltitudeM *int
	Notes     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label is the display name used for a bean everywhere outside pickers.
func (b Bean) Label() string {
	return b.Roaster + " - " + b.Name
}

type Grinder struct {
	ID             int64
	Name           string
	DefaultSetting string
	Notes          string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Profile struct {
	ID          int64
	Name        string
	Description string
	Parameters  string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Shot struct {
	ID        int64
	Date      time.Time
	BeanID    int64
	GrinderID *int64
	ProfileID *int64
	DoseG     float64
	YieldG    float64
	// Ratio is yield/dose, computed at write time. 0 when dose <= 0.
	Ratio          float64
	TimeSeconds    *int
	TempC          *float64
	GrindSetting   string
	PreinfusionSec *int
	PreinfusionBar *float64
	Aroma          string
	Flavor         string
	Body           string
	Acidity        string
	Finish         string
	Notes          string
	NextShot       string
	Rating         *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShotDetails is the read model for display and statistics: a shot plus the
// denormalized names of the entities it references. Built by the store join,
// never recomputed downstream.
type ShotDetails struct {
	Shot
	BeanLabel   string
	GrinderName string
	ProfileName string
}

type Goal struct {
	ID          int64
	Name        string
	Description string
	Type        string // rating_average, bean_exploration, consistency, shots_count, grinder_test, ratio_mastery
	TargetValue float64
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type Setting struct {
	Key   string
	Value string
}

// ShotFilter is used to filter shots in queries. Nil bounds are
// unconstrained; the rating range applies only when both ends are set.
type ShotFilter struct {
	MinRating *int
	MaxRating *int
	BeanID    *int64
	GrinderID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
}
