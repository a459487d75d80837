package store

import (
	"testing"

	"github.com/TWRT/tracker-client/internal/models"
)

func TestStateLifecycle(t *testing.T) {
	s := New()
	if got := s.StateOf(KindTask); got != StateEmpty {
		t.Fatalf("initial state = %s, want empty", got)
	}
	s.SetLoading(KindTask)
	if got := s.StateOf(KindTask); got != StateLoading {
		t.Fatalf("state = %s, want loading", got)
	}
	s.ReplaceTasks([]models.Task{{ID: "t1"}})
	if got := s.StateOf(KindTask); got != StateLoaded {
		t.Fatalf("state = %s, want loaded", got)
	}
}

func TestFailEmptiesCollection(t *testing.T) {
	s := New()
	s.ReplaceTasks([]models.Task{{ID: "t1"}, {ID: "t2"}})
	s.Fail(KindTask)
	if got := len(s.Tasks()); got != 0 {
		t.Errorf("tasks = %d, want 0", got)
	}
	if got := s.StateOf(KindTask); got != StateError {
		t.Errorf("state = %s, want error", got)
	}
}

func TestClearResetsEverything(t *testing.T) {
	s := New()
	s.ReplaceProjects([]models.Project{{ID: "p1"}})
	s.ReplaceUsers([]models.User{{ID: "u1"}})
	s.Clear()
	if len(s.Projects()) != 0 || len(s.Users()) != 0 {
		t.Error("collections not cleared")
	}
	for _, kind := range []Kind{KindProject, KindModule, KindTask, KindBug, KindUser} {
		if got := s.StateOf(kind); got != StateEmpty {
			t.Errorf("state of %s = %s, want empty", kind, got)
		}
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := New()
	s.ReplaceTasks([]models.Task{{ID: "t1", Title: "original"}})
	snap := s.Tasks()
	snap[0].Title = "mutated"
	if got, _ := s.TaskByID("t1"); got.Title != "original" {
		t.Errorf("store title = %q, snapshot mutation leaked in", got.Title)
	}
}

func TestReplaceTaskReturnsOldTitle(t *testing.T) {
	s := New()
	s.ReplaceTasks([]models.Task{{ID: "t1", Title: "Old", Status: models.TaskPending}})

	title, ok := s.ReplaceTask("t1", models.Task{ID: "t1", Title: "New", Status: models.TaskInProgress})
	if !ok || title != "Old" {
		t.Fatalf("ReplaceTask = (%q, %v), want the pre-swap title", title, ok)
	}
	task, _ := s.TaskByID("t1")
	if task.Status != models.TaskInProgress || task.Title != "New" {
		t.Errorf("task = %+v", task)
	}

	if _, ok := s.ReplaceTask("missing", models.Task{ID: "missing"}); ok {
		t.Error("expected ok=false for unknown id")
	}
}

func TestReplaceProject(t *testing.T) {
	s := New()
	s.ReplaceProjects([]models.Project{{ID: "p1", Title: "Old"}})
	title, ok := s.ReplaceProject("p1", models.Project{ID: "p1", Title: "Renamed"})
	if !ok || title != "Renamed" {
		t.Fatalf("ReplaceProject = (%q, %v), want the new title back", title, ok)
	}
}

func TestReplaceModuleScopedByProject(t *testing.T) {
	s := New()
	s.ReplaceModules([]models.Module{
		{ID: "m1", ProjectID: "p1", Name: "Core"},
		{ID: "m1", ProjectID: "p2", Name: "Other"},
	})
	if _, ok := s.ReplaceModule("p2", "m1", models.Module{ID: "m1", ProjectID: "p2", Name: "Swapped"}); !ok {
		t.Fatal("expected match")
	}
	modules := s.Modules()
	if modules[0].Name != "Core" || modules[1].Name != "Swapped" {
		t.Errorf("modules = %v, replacement hit wrong project scope", modules)
	}
}

func TestRemoveModule(t *testing.T) {
	s := New()
	s.ReplaceModules([]models.Module{
		{ID: "m1", ProjectID: "p1"},
		{ID: "m2", ProjectID: "p1"},
	})
	s.RemoveModule("p1", "m1")
	modules := s.Modules()
	if len(modules) != 1 || modules[0].ID != "m2" {
		t.Errorf("modules = %v, want only m2", modules)
	}
}

func TestReplaceBugReturnsOldTitle(t *testing.T) {
	s := New()
	s.ReplaceBugs([]models.Bug{{ID: "b1", Title: "Before"}})
	title, ok := s.ReplaceBug("b1", models.Bug{ID: "b1", Title: "After"})
	if !ok || title != "Before" {
		t.Fatalf("ReplaceBug = (%q, %v)", title, ok)
	}
	bug, _ := s.BugByID("b1")
	if bug.Title != "After" {
		t.Errorf("bug title = %q", bug.Title)
	}
}

func TestReplaceUser(t *testing.T) {
	s := New()
	s.ReplaceUsers([]models.User{{ID: "u1", Name: "Old"}})
	if !s.ReplaceUser("u1", models.User{ID: "u1", Name: "New"}) {
		t.Fatal("expected replacement")
	}
	if s.ReplaceUser("missing", models.User{ID: "missing"}) {
		t.Error("expected false for unknown id")
	}
}
