package models

// UserStatistics is the fixed display shape the aggregated counts from
// GET /api/users/:id/statistics are remapped to.
type UserStatistics struct {
	TasksAssigned  int `json:"tasksAssigned"`
	TasksCompleted int `json:"tasksCompleted"`
	BugsAssigned   int `json:"bugsAssigned"`
	BugsResolved   int `json:"bugsResolved"`
	BugsReported   int `json:"bugsReported"`
}

type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
}

type BugStats struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	InProgress int `json:"inProgress"`
	Open       int `json:"open"`
}

type ProjectStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// WorkloadEntry is one team member's open-item load from
// GET /api/dashboard/workload.
type WorkloadEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	TaskCount int    `json:"taskCount"`
	BugCount  int    `json:"bugCount"`
	TotalWork int    `json:"totalWork"`
}

// DashboardStats is recomputed client-side over the role-filtered
// collections for every role except Admin.
type DashboardStats struct {
	TotalWork            int          `json:"totalWork"`
	CompletedWork        int          `json:"completedWork"`
	InProgressWork       int          `json:"inProgressWork"`
	PendingWork          int          `json:"pendingWork"`
	CompletionPercentage int          `json:"completionPercentage"`
	Tasks                TaskStats    `json:"taskStats"`
	Bugs                 BugStats     `json:"bugStats"`
	Projects             ProjectStats `json:"projectStats"`
}
