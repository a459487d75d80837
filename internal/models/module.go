package models

const (
	ModulePlanning   = "Planning"
	ModuleActive     = "Active"
	ModuleInProgress = "In Progress"
	ModuleCompleted  = "Completed"
)

type Module struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
