// Package store holds the in-memory entity collections for the lifetime of
// an authenticated session. Collections preserve insertion order and are
// mutated only by the service layer; all cross-entity relationships stay
// weak (id-valued) and are resolved at read time by the resolve package.
package store

import (
	"sync"

	"github.com/TWRT/tracker-client/internal/models"
)

type Kind string

const (
	KindProject Kind = "Project"
	KindModule  Kind = "Module"
	KindTask    Kind = "Task"
	KindBug     Kind = "Bug"
	KindUser    Kind = "User"
)

// State tracks the lifecycle of one collection. A failed bulk load forces
// the collection empty and parks it in StateError without surfacing a
// notification, so dashboards show zeros instead of an error banner.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

type Store struct {
	mu       sync.Mutex
	projects []models.Project
	modules  []models.Module
	tasks    []models.Task
	bugs     []models.Bug
	users    []models.User
	states   map[Kind]State
}

func New() *Store {
	return &Store{states: map[Kind]State{
		KindProject: StateEmpty,
		KindModule:  StateEmpty,
		KindTask:    StateEmpty,
		KindBug:     StateEmpty,
		KindUser:    StateEmpty,
	}}
}

func (s *Store) StateOf(kind Kind) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[kind]
}

func (s *Store) SetLoading(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[kind] = StateLoading
}

// Fail empties a collection after a failed bulk load.
func (s *Store) Fail(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[kind] = StateError
	switch kind {
	case KindProject:
		s.projects = nil
	case KindModule:
		s.modules = nil
	case KindTask:
		s.tasks = nil
	case KindBug:
		s.bugs = nil
	case KindUser:
		s.users = nil
	}
}

// Clear drops every collection. Wired to the session gate so that logging
// out cannot leak one account's data into the next login in the same run.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = nil
	s.modules = nil
	s.tasks = nil
	s.bugs = nil
	s.users = nil
	for kind := range s.states {
		s.states[kind] = StateEmpty
	}
}

func (s *Store) ReplaceProjects(projects []models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]models.Project(nil), projects...)
	s.states[KindProject] = StateLoaded
}

func (s *Store) ReplaceModules(modules []models.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = append([]models.Module(nil), modules...)
	s.states[KindModule] = StateLoaded
}

func (s *Store) ReplaceTasks(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]models.Task(nil), tasks...)
	s.states[KindTask] = StateLoaded
}

func (s *Store) ReplaceBugs(bugs []models.Bug) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bugs = append([]models.Bug(nil), bugs...)
	s.states[KindBug] = StateLoaded
}

func (s *Store) ReplaceUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]models.User(nil), users...)
	s.states[KindUser] = StateLoaded
}

func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Project(nil), s.projects...)
}

func (s *Store) Modules() []models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Module(nil), s.modules...)
}

func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task(nil), s.tasks...)
}

func (s *Store) Bugs() []models.Bug {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Bug(nil), s.bugs...)
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *Store) AppendProject(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
}

func (s *Store) AppendModule(m models.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = append(s.modules, m)
}

func (s *Store) AppendTask(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

func (s *Store) AppendBug(b models.Bug) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bugs = append(s.bugs, b)
}

func (s *Store) AppendUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// ReplaceProject swaps the stored record for the server's normalized
// response after an update. Returns the new title for notification messages.
func (s *Store) ReplaceProject(id string, project models.Project) (title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i] = project
			return project.Title, true
		}
	}
	return "", false
}

// ReplaceTask returns the title the record had before the swap, which is
// what the notification feed names.
func (s *Store) ReplaceTask(id string, task models.Task) (title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			title = s.tasks[i].Title
			s.tasks[i] = task
			return title, true
		}
	}
	return "", false
}

func (s *Store) ReplaceModule(projectID, moduleID string, module models.Module) (name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.modules {
		if s.modules[i].ProjectID == projectID && s.modules[i].ID == moduleID {
			s.modules[i] = module
			return module.Name, true
		}
	}
	return "", false
}

// RemoveModule drops a module locally. Module deletion is the one delete
// path that does not re-fetch its collection, since modules are loaded per
// project and a full reload would fan out across every project.
func (s *Store) RemoveModule(projectID, moduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.modules[:0]
	for _, m := range s.modules {
		if m.ProjectID == projectID && m.ID == moduleID {
			continue
		}
		kept = append(kept, m)
	}
	s.modules = kept
}

// ReplaceBug swaps the stored record for the server's normalized response.
// Unlike the other kinds it returns the title the record had before the
// swap, which is what the notification feed names.
func (s *Store) ReplaceBug(id string, bug models.Bug) (title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bugs {
		if s.bugs[i].ID == id {
			title = s.bugs[i].Title
			s.bugs[i] = bug
			return title, true
		}
	}
	return "", false
}

func (s *Store) ReplaceUser(id string, user models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = user
			return true
		}
	}
	return false
}

func (s *Store) TaskByID(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s *Store) BugByID(id string) (models.Bug, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bugs {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bug{}, false
}
