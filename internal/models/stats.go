package models

type StatsSummary struct {
	Students          int             `json:"students"`
	Courses           int             `json:"courses"`
	Registrations     int             `json:"registrations"`
	Results           int             `json:"results"`
	GradeAverage      float64         `json:"gradeAverage"`
	GradeDistribution map[string]int  `json:"gradeDistribution"`
	RecentActivity    []ActivityEntry `json:"recentActivity"`
}

type ActivityEntry struct {
	Entity    string `db:"entity" json:"entity"`
	Action    string `db:"action" json:"action"`
	Label     string `db:"label" json:"label"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
}
