package normalize

type Driver struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Number  int    `json:"number"`
	Team    string `json:"team"`
	Country string `json:"country"`
	Photo   string `json:"photo,omitempty"`
	Colour  string `json:"colour,omitempty"`
}

type DriverStanding struct {
	Position int     `json:"position"`
	DriverID string  `json:"driver_id,omitempty"`
	Code     string  `json:"code,omitempty"`
	Name     string  `json:"name"`
	Number   int     `json:"number,omitempty"`
	Team     string  `json:"team"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
}

type ConstructorStanding struct {
	Position      int     `json:"position"`
	ConstructorID string  `json:"constructor_id,omitempty"`
	Name          string  `json:"name"`
	Nationality   string  `json:"nationality,omitempty"`
	Points        float64 `json:"points"`
	Wins          int     `json:"wins"`
}

type Team struct {
	ID          string       `json:"constructor_id"`
	Name        string       `json:"team_name"`
	Nationality string       `json:"nationality,omitempty"`
	Position    int          `json:"position,omitempty"`
	Points      float64      `json:"points"`
	Wins        int          `json:"wins"`
	DriverCount int          `json:"driver_count"`
	Drivers     []TeamDriver `json:"drivers,omitempty"`
	Principal   string       `json:"team_principal,omitempty"`
	Engine      string       `json:"engine,omitempty"`
	Car         string       `json:"car,omitempty"`
}

type TeamDriver struct {
	Name   string `json:"name"`
	Number int    `json:"driver_number,omitempty"`
	Photo  string `json:"headshot_url,omitempty"`
}

type Session struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Start      string `json:"time,omitempty"`
	MeetingKey string `json:"meeting_key,omitempty"`
	Circuit    string `json:"circuit,omitempty"`
}

type Circuit struct {
	Name     string  `json:"name"`
	Location string  `json:"location,omitempty"`
	Country  string  `json:"country,omitempty"`
	Laps     int     `json:"laps,omitempty"`
	LengthKm float64 `json:"length_km,omitempty"`
}

// SessionsOverview is the /sessions payload: the session list plus the
// circuit and standings some backends embed next to it.
type SessionsOverview struct {
	Sessions  []Session        `json:"sessions"`
	Circuit   *Circuit         `json:"current_circuit,omitempty"`
	Standings []DriverStanding `json:"standings,omitempty"`
}

type LeaderboardEntry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
	Number   int    `json:"number,omitempty"`
	Time     string `json:"time,omitempty"`
	Gap      string `json:"gap,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type Meeting struct {
	Key      string `json:"meeting_key"`
	Name     string `json:"name"`
	Official string `json:"official_name,omitempty"`
	Country  string `json:"country,omitempty"`
	Location string `json:"location,omitempty"`
	Circuit  string `json:"circuit,omitempty"`
	Year     int    `json:"year,omitempty"`
	Start    string `json:"date_start,omitempty"`
}

type Lap struct {
	DriverNumber int     `json:"driver_number"`
	Number       int     `json:"lap_number"`
	Duration     float64 `json:"lap_duration"`
	Sector1      float64 `json:"sector_1,omitempty"`
	Sector2      float64 `json:"sector_2,omitempty"`
	Sector3      float64 `json:"sector_3,omitempty"`
	PitOut       bool    `json:"is_pit_out_lap,omitempty"`
}

type Position struct {
	DriverNumber int    `json:"driver_number"`
	Position     int    `json:"position"`
	Date         string `json:"date,omitempty"`
}

type DriverIdentity struct {
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
	Team  string `json:"team,omitempty"`
	Image string `json:"image,omitempty"`
}

type RacePoints struct {
	Round  int     `json:"round"`
	Race   string  `json:"race"`
	Points float64 `json:"points"`
}

type SeasonMetrics struct {
	TotalPoints   float64      `json:"total_points"`
	PointsPerRace float64      `json:"points_per_race"`
	PointsByRace  []RacePoints `json:"points_by_race"`
	Wins          int          `json:"wins"`
	Podiums       int          `json:"podiums"`
	DNFs          int          `json:"dnf_count"`
	DNFRaces      []string     `json:"dnf_races,omitempty"`
	AvgFinish     float64      `json:"avg_finish"`
	QualiDelta    float64      `json:"q_vs_race_delta"`
}

// RadarAxis is one 0-100 score of a season radar.
type RadarAxis struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type SeasonOverlay struct {
	Driver  DriverIdentity `json:"driver"`
	Metrics SeasonMetrics  `json:"metrics"`
	Radar   []RadarAxis    `json:"radar"`
}

// Season is the L1 season analytics payload for one driver.
type Season struct {
	Driver   DriverIdentity `json:"driver"`
	Season   int            `json:"season"`
	Metrics  SeasonMetrics  `json:"metrics"`
	Radar    []RadarAxis    `json:"radar"`
	Teammate *SeasonOverlay `json:"teammate,omitempty"`
}

type LapStats struct {
	Code        string  `json:"code"`
	AvgLapTime  float64 `json:"avg_lap_time"`
	BestLapTime float64 `json:"best_lap_time"`
	Laps        int     `json:"laps"`
}

// Comparison is a two-driver comparison for one event.
type Comparison struct {
	Season  int      `json:"season"`
	Event   string   `json:"event,omitempty"`
	Source  string   `json:"source,omitempty"`
	DriverA LapStats `json:"driver_a"`
	DriverB LapStats `json:"driver_b"`
}

type TimelineRound struct {
	Round       int     `json:"round"`
	Race        string  `json:"race"`
	PointsA     float64 `json:"points_a"`
	PointsB     float64 `json:"points_b"`
	CumulativeA float64 `json:"cumulative_a"`
	CumulativeB float64 `json:"cumulative_b"`
	Winner      string  `json:"winner,omitempty"`
}

// Timeline is the round-by-round head-to-head of two drivers.
type Timeline struct {
	Season     string          `json:"season"`
	DriverA    string          `json:"driver_a"`
	DriverB    string          `json:"driver_b"`
	Rounds     []TimelineRound `json:"rounds"`
	HeadToHead map[string]int  `json:"head_to_head"`
}
