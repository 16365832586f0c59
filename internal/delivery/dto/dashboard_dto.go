package dto

// DashboardResponse carries the counters shown on a role's landing page
type DashboardResponse struct {
	Role     string           `json:"role"`
	Date     string           `json:"date"`
	Counters map[string]int64 `json:"counters"`
}
