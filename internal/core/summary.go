package core

// TypeTotal represents an amount aggregated by expense type.
type TypeTotal struct {
	Type  string
	Total Money
}

// MonthlySummary groups one user's expenses for a specific year+month,
// one row per expense type.
type MonthlySummary struct {
	Year   int
	Month  int // 1-12
	ByType []TypeTotal
}
