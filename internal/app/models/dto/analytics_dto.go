package dto

// StatusCounts breaks request totals down by lifecycle status.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Processing int64 `json:"processing"`
	Ready      int64 `json:"ready"`
	Completed  int64 `json:"completed"`
	Rejected   int64 `json:"rejected"`
}

// StaffWorkload is the number of open (non-terminal) requests assigned to
// one staff member.
type StaffWorkload struct {
	StaffID   int64  `json:"staff_id"`
	StaffName string `json:"staff_name"`
	OpenCount int64  `json:"open_count"`
}

// MonthlyCount is the number of requests created in one calendar month.
type MonthlyCount struct {
	Month string `json:"month" example:"2026-08"`
	Count int64  `json:"count"`
}

// AnalyticsResponse is the full aggregate snapshot recomputed on demand.
type AnalyticsResponse struct {
	Transcripts        StatusCounts     `json:"transcripts"`
	Recommendations    StatusCounts     `json:"recommendations"`
	OverdueCount       int64            `json:"overdue_count"`
	ByEnrollmentStatus map[string]int64 `json:"by_enrollment_status,omitempty"`
	ByCollectionMethod map[string]int64 `json:"by_collection_method,omitempty"`
	ByInstitutionType  map[string]int64 `json:"by_institution_type,omitempty"`
	StaffWorkloads     []StaffWorkload  `json:"staff_workloads,omitempty"`
	MonthlyVolume      []MonthlyCount   `json:"monthly_volume,omitempty"`
}
