// Package resolve performs the read-time joins between entities. Nothing
// here mutates or caches: every function is a linear scan over a snapshot of
// the store, and every lookup is total: a dangling reference resolves to a
// named sentinel instead of a zero value the caller has to second-guess.
package resolve

import (
	"math"

	"github.com/TWRT/tracker-client/internal/models"
)

var (
	UnknownProject = models.Project{Title: "Unknown"}
	UnknownModule  = models.Module{Name: "Unknown"}
	UnknownTask    = models.Task{Title: "Unknown"}
	UnassignedUser = models.User{Name: "Unassigned"}
)

// ProjectOf resolves a task's project, or UnknownProject when the task's
// projectId matches no loaded project.
func ProjectOf(task models.Task, projects []models.Project) models.Project {
	for _, p := range projects {
		if p.ID == task.ProjectID {
			return p
		}
	}
	return UnknownProject
}

func ModuleOf(task models.Task, modules []models.Module) models.Module {
	for _, m := range modules {
		if m.ID == task.ModuleID {
			return m
		}
	}
	return UnknownModule
}

func TaskOf(bug models.Bug, tasks []models.Task) models.Task {
	for _, t := range tasks {
		if t.ID == bug.TaskID {
			return t
		}
	}
	return UnknownTask
}

// ProjectOfBug resolves a bug's project through its task; bugs carry no
// project reference of their own. A dangling taskId yields UnknownProject.
func ProjectOfBug(bug models.Bug, tasks []models.Task, projects []models.Project) models.Project {
	task := TaskOf(bug, tasks)
	if task.ID == "" {
		return UnknownProject
	}
	return ProjectOf(task, projects)
}

func UserByID(id string, users []models.User) models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return UnassignedUser
}

func assignedToProject(p models.Project, userID string) bool {
	if p.AssignedDeveloperID == userID {
		return true
	}
	for _, id := range p.AssignedDeveloperIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FilterProjects scopes the project collection to what the user's role may
// see. Roles outside the known set fall through to the unrestricted view,
// matching the reference behavior.
func FilterProjects(projects []models.Project, user models.User) []models.Project {
	switch user.Role {
	case models.RoleManager:
		out := []models.Project{}
		for _, p := range projects {
			if p.ManagerID == user.ID {
				out = append(out, p)
			}
		}
		return out
	case models.RoleDeveloper:
		out := []models.Project{}
		for _, p := range projects {
			if assignedToProject(p, user.ID) {
				out = append(out, p)
			}
		}
		return out
	default:
		return projects
	}
}

// FilterTasks scopes tasks by role. Managers see tasks in projects they
// manage; developers and testers only see tasks assigned to them directly.
func FilterTasks(tasks []models.Task, projects []models.Project, user models.User) []models.Task {
	switch user.Role {
	case models.RoleManager:
		managed := managedProjectSet(projects, user.ID)
		out := []models.Task{}
		for _, t := range tasks {
			if managed[t.ProjectID] {
				out = append(out, t)
			}
		}
		return out
	case models.RoleDeveloper, models.RoleTester:
		out := []models.Task{}
		for _, t := range tasks {
			if t.AssignedTo == user.ID {
				out = append(out, t)
			}
		}
		return out
	default:
		return tasks
	}
}

// FilterBugs scopes bugs by role. A manager's bug set is derived two hops
// out: bug → task → project, against the projects they manage.
func FilterBugs(bugs []models.Bug, tasks []models.Task, projects []models.Project, user models.User) []models.Bug {
	switch user.Role {
	case models.RoleManager:
		managed := managedProjectSet(projects, user.ID)
		out := []models.Bug{}
		for _, b := range bugs {
			task := TaskOf(b, tasks)
			if task.ID != "" && managed[task.ProjectID] {
				out = append(out, b)
			}
		}
		return out
	case models.RoleDeveloper:
		out := []models.Bug{}
		for _, b := range bugs {
			if b.AssignedTo == user.ID {
				out = append(out, b)
			}
		}
		return out
	case models.RoleTester:
		out := []models.Bug{}
		for _, b := range bugs {
			if b.ReportedBy == user.ID || b.AssignedTo == user.ID {
				out = append(out, b)
			}
		}
		return out
	default:
		return bugs
	}
}

func managedProjectSet(projects []models.Project, managerID string) map[string]bool {
	set := make(map[string]bool)
	for _, p := range projects {
		if p.ManagerID == managerID {
			set[p.ID] = true
		}
	}
	return set
}

// ComputeDashboardStats recalculates the dashboard breakdown over already
// role-filtered collections.
func ComputeDashboardStats(projects []models.Project, tasks []models.Task, bugs []models.Bug) models.DashboardStats {
	stats := models.DashboardStats{
		Tasks:    models.TaskStats{Total: len(tasks)},
		Bugs:     models.BugStats{Total: len(bugs)},
		Projects: models.ProjectStats{Total: len(projects)},
	}

	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			stats.Tasks.Completed++
		case models.TaskInProgress:
			stats.Tasks.InProgress++
		case models.TaskPending:
			stats.Tasks.Pending++
		}
	}
	for _, b := range bugs {
		switch b.Status {
		case models.BugResolved:
			stats.Bugs.Resolved++
		case models.BugInProgress:
			stats.Bugs.InProgress++
		case models.BugOpen:
			stats.Bugs.Open++
		}
	}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectActive:
			stats.Projects.Active++
		case models.ProjectInProgress:
			stats.Projects.InProgress++
		case models.ProjectCompleted:
			stats.Projects.Completed++
		}
	}

	stats.TotalWork = stats.Tasks.Total + stats.Bugs.Total
	stats.CompletedWork = stats.Tasks.Completed + stats.Bugs.Resolved
	stats.InProgressWork = stats.Tasks.InProgress + stats.Bugs.InProgress
	stats.PendingWork = stats.Tasks.Pending + stats.Bugs.Open
	if stats.TotalWork > 0 {
		stats.CompletionPercentage = int(math.Round(float64(stats.CompletedWork) / float64(stats.TotalWork) * 100))
	}
	return stats
}
