package client

import (
	"context"

	"github.com/TWRT/tracker-client/internal/models"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
}

type ProjectAPI interface {
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	CreateProject(ctx context.Context, draft models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id string, patch map[string]any) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type TaskAPI interface {
	GetTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch map[string]any) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type ModuleAPI interface {
	GetModules(ctx context.Context, projectID string) ([]models.Module, error)
	CreateModule(ctx context.Context, projectID string, draft models.Module) (models.Module, error)
	UpdateModule(ctx context.Context, projectID, moduleID string, patch map[string]any) (models.Module, error)
	DeleteModule(ctx context.Context, projectID, moduleID string) error
}

type BugAPI interface {
	GetBugs(ctx context.Context) ([]models.Bug, error)
	CreateBug(ctx context.Context, draft models.Bug) (models.Bug, error)
	UpdateBug(ctx context.Context, id string, patch map[string]any) (models.Bug, error)
	DeleteBug(ctx context.Context, id string) error
}

type UserAPI interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, draft map[string]any) (models.User, error)
	UpdateUser(ctx context.Context, id string, patch map[string]any) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserStatistics(ctx context.Context, id string) (models.UserStatistics, error)
}

type DashboardAPI interface {
	GetDashboardStats(ctx context.Context) (models.DashboardStats, error)
	GetTeamWorkload(ctx context.Context) ([]models.WorkloadEntry, error)
}

// TrackerAPI is the full backend surface the service layer dispatches against.
type TrackerAPI interface {
	AuthAPI
	ProjectAPI
	TaskAPI
	ModuleAPI
	BugAPI
	UserAPI
	DashboardAPI
}
