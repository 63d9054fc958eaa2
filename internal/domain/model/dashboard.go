package model

// DashboardStats are the headline counters.
type DashboardStats struct {
	TotalPlayers int     `json:"total_players"`
	TotalChange  *Number `json:"total_change,omitempty"`
	NewThisMonth int     `json:"new_this_month"`
	NewChange    *Number `json:"new_change,omitempty"`
	Admitted     int     `json:"admitted"`
	Pending      int     `json:"pending"`
}

// PositionCount is one bucket of the position breakdown.
type PositionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
