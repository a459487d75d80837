package resolve

import (
	"reflect"
	"testing"

	"github.com/TWRT/tracker-client/internal/models"
)

var (
	manager = models.User{ID: "m1", Name: "Mara", Role: models.RoleManager}
	dev     = models.User{ID: "d1", Name: "Dev", Role: models.RoleDeveloper}
	tester  = models.User{ID: "q1", Name: "Quinn", Role: models.RoleTester}
	admin   = models.User{ID: "a1", Name: "Root", Role: models.RoleAdmin}

	projects = []models.Project{
		{ID: "p1", Title: "Site", ManagerID: "m1", AssignedDeveloperID: "d1", AssignedDeveloperIDs: []string{"d1"}},
		{ID: "p2", Title: "App", ManagerID: "m2", AssignedDeveloperID: "d2", AssignedDeveloperIDs: []string{"d2", "d3"}},
	}
	tasks = []models.Task{
		{ID: "t1", ProjectID: "p1", ModuleID: "mod1", Title: "Fix header", AssignedTo: "d1"},
		{ID: "t2", ProjectID: "p2", Title: "Ship it", AssignedTo: "d2"},
	}
	modules = []models.Module{
		{ID: "mod1", ProjectID: "p1", Name: "Auth"},
	}
	bugs = []models.Bug{
		{ID: "b1", TaskID: "t1", Title: "Crash", AssignedTo: "d1", ReportedBy: "q1"},
		{ID: "b2", TaskID: "t2", Title: "Typo", AssignedTo: "d2", ReportedBy: "q2"},
		{ID: "b3", TaskID: "gone", Title: "Orphan", AssignedTo: "d1", ReportedBy: "q1"},
	}
)

func TestProjectOf(t *testing.T) {
	if got := ProjectOf(tasks[0], projects); got.ID != "p1" {
		t.Fatalf("ProjectOf = %+v", got)
	}
	orphan := models.Task{ID: "tx", ProjectID: "nope"}
	if got := ProjectOf(orphan, projects); !reflect.DeepEqual(got, UnknownProject) {
		t.Fatalf("dangling projectId should resolve to UnknownProject, got %+v", got)
	}
}

func TestModuleOf(t *testing.T) {
	if got := ModuleOf(tasks[0], modules); got.ID != "mod1" {
		t.Fatalf("ModuleOf = %+v", got)
	}
	if got := ModuleOf(tasks[1], modules); got != UnknownModule {
		t.Fatalf("task without module should resolve to UnknownModule, got %+v", got)
	}
}

func TestProjectOfBugTwoHop(t *testing.T) {
	if got := ProjectOfBug(bugs[0], tasks, projects); got.ID != "p1" {
		t.Fatalf("ProjectOfBug = %+v", got)
	}
	// Bug whose task was deleted: membership resolves to the sentinel, not
	// to a failure.
	if got := ProjectOfBug(bugs[2], tasks, projects); !reflect.DeepEqual(got, UnknownProject) {
		t.Fatalf("dangling taskId should resolve to UnknownProject, got %+v", got)
	}
}

func TestUserByID(t *testing.T) {
	users := []models.User{dev, tester}
	if got := UserByID("d1", users); got.Name != "Dev" {
		t.Fatalf("UserByID = %+v", got)
	}
	if got := UserByID("ghost", users); got != UnassignedUser {
		t.Fatalf("missing user should resolve to UnassignedUser, got %+v", got)
	}
}

func TestFilterProjects(t *testing.T) {
	cases := []struct {
		name string
		user models.User
		want []string
	}{
		{name: "admin sees all", user: admin, want: []string{"p1", "p2"}},
		{name: "manager sees managed", user: manager, want: []string{"p1"}},
		{name: "developer sees assigned", user: dev, want: []string{"p1"}},
		{name: "unknown role unrestricted", user: models.User{ID: "x", Role: "Intern"}, want: []string{"p1", "p2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterProjects(projects, tc.user)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d projects, want %d", len(got), len(tc.want))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("project %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterTasksDeveloper(t *testing.T) {
	got := FilterTasks(tasks, projects, dev)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("developer task filter = %+v", got)
	}
	// Containment iff assignedTo matches the user id.
	for _, task := range tasks {
		contained := false
		for _, g := range got {
			if g.ID == task.ID {
				contained = true
			}
		}
		if contained != (task.AssignedTo == dev.ID) {
			t.Fatalf("task %s containment = %v, assignedTo = %s", task.ID, contained, task.AssignedTo)
		}
	}
}

func TestFilterTasksManagerByProject(t *testing.T) {
	got := FilterTasks(tasks, projects, manager)
	if len(got) != 1 || got[0].ProjectID != "p1" {
		t.Fatalf("manager task filter = %+v", got)
	}
}

func TestFilterBugs(t *testing.T) {
	t.Run("manager via task project", func(t *testing.T) {
		got := FilterBugs(bugs, tasks, projects, manager)
		if len(got) != 1 || got[0].ID != "b1" {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("tester by reporter or assignee", func(t *testing.T) {
		got := FilterBugs(bugs, tasks, projects, tester)
		if len(got) != 2 || got[0].ID != "b1" || got[1].ID != "b3" {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("admin equals input", func(t *testing.T) {
		got := FilterBugs(bugs, tasks, projects, admin)
		if len(got) != len(bugs) {
			t.Fatalf("got %d bugs, want %d", len(got), len(bugs))
		}
	})
}

func TestComputeDashboardStats(t *testing.T) {
	statTasks := []models.Task{
		{ID: "1", Status: models.TaskCompleted},
		{ID: "2", Status: models.TaskInProgress},
		{ID: "3", Status: models.TaskPending},
	}
	statBugs := []models.Bug{
		{ID: "1", Status: models.BugResolved},
		{ID: "2", Status: models.BugOpen},
	}
	statProjects := []models.Project{
		{ID: "1", Status: models.ProjectActive},
		{ID: "2", Status: models.ProjectCompleted},
	}

	got := ComputeDashboardStats(statProjects, statTasks, statBugs)
	if got.TotalWork != 5 || got.CompletedWork != 2 {
		t.Fatalf("work totals: %+v", got)
	}
	if got.CompletionPercentage != 40 {
		t.Fatalf("CompletionPercentage = %d, want 40", got.CompletionPercentage)
	}
	if got.Tasks.Pending != 1 || got.Bugs.Open != 1 || got.Projects.Active != 1 {
		t.Fatalf("breakdowns: %+v", got)
	}
}
