package models

const (
	ProjectPlanning   = "Planning"
	ProjectActive     = "Active"
	ProjectInProgress = "In Progress"
	ProjectCompleted  = "Completed"
	ProjectOnHold     = "On Hold"
)

type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ManagerID   string `json:"managerId"`
	// First element of the backend's assignedDevelopers list; the full list
	// is kept in AssignedDeveloperIDs but joins only use this one.
	AssignedDeveloperID  string   `json:"assignedDeveloperId"`
	AssignedDeveloperIDs []string `json:"assignedDevelopers"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	CreatedAt            string   `json:"createdAt,omitempty"`
	UpdatedAt            string   `json:"updatedAt,omitempty"`
}
