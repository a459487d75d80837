package models

const (
	BugOpen       = "Open"
	BugInProgress = "In Progress"
	BugResolved   = "Resolved"
)

const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

type Attachment struct {
	Name string `json:"name"`
	// Remote URL or embedded base64 data URI; carried opaque either way.
	URL string `json:"url"`
}

// Bug has no direct project or module reference. Membership is derived by
// following TaskID through the task's ProjectID/ModuleID.
type Bug struct {
	ID          string       `json:"id"`
	TaskID      string       `json:"taskId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Severity    string       `json:"severity"`
	Status      string       `json:"status"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	ReportedBy  string       `json:"reportedBy,omitempty"`
	Attachments []Attachment `json:"attachments"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}
