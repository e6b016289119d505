package models

// Stats is the per-user aggregate shown on the dashboard. Read-only and
// fully server-computed.
type Stats struct {
	Total      int `json:"total"`
	Milestones int `json:"milestones"`
	Albums     int `json:"albums"`
}

// AdminStats is the system-wide aggregate for the admin console.
type AdminStats struct {
	TotalUsers      int    `json:"totalUsers"`
	TotalMemories   int    `json:"totalMemories"`
	TotalMilestones int    `json:"totalMilestones"`
	StorageUsed     string `json:"storageUsed"`
}

// Pagination mirrors the backend's optional pagination envelope.
type Pagination struct {
	TotalPages int `json:"totalPages"`
}
