// Package service is the command layer. Every mutating operation validates
// minimally, calls the backend, normalizes, mutates the store, appends a
// notification, and propagates the failure to the caller.
// The backend call always precedes the store mutation, so the local state
// never shows anything the backend has not confirmed.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/TWRT/tracker-client/internal/client"
	"github.com/TWRT/tracker-client/internal/models"
	"github.com/TWRT/tracker-client/internal/repository"
	"github.com/TWRT/tracker-client/internal/resolve"
	"github.com/TWRT/tracker-client/internal/session"
	"github.com/TWRT/tracker-client/internal/store"
)

type TrackerService struct {
	api           client.TrackerAPI
	store         *store.Store
	notifications *repository.NotificationRepository
	gate          *session.Gate
}

func NewTrackerService(
	api client.TrackerAPI,
	entityStore *store.Store,
	notifications *repository.NotificationRepository,
	gate *session.Gate,
) *TrackerService {
	s := &TrackerService{
		api:           api,
		store:         entityStore,
		notifications: notifications,
		gate:          gate,
	}
	// The store reacts to the session emptying instead of being cleared by
	// the gate directly, so an account switch in one run cannot leak the
	// previous user's data.
	gate.OnChange(func(user *models.User) {
		if user == nil {
			entityStore.Clear()
		}
	})
	return s
}

func (s *TrackerService) Store() *store.Store { return s.store }

func (s *TrackerService) notify(message, kind string) {
	if _, err := s.notifications.Append(message, kind); err != nil {
		log.Printf("Failed to append notification: %v", err)
	}
}

// Bootstrap replaces every collection with fresh backend state. Projects,
// tasks, bugs and users load concurrently; modules then load sequentially
// per project so the backend is not hit with a per-project burst. Any
// failure of the three core fetches degrades those collections to empty with
// no notification; dashboards show zeros rather than an error banner. The
// user list stands on its own and keeps whatever its fetch produced.
func (s *TrackerService) Bootstrap(ctx context.Context) error {
	if _, ok := s.gate.Current(); !ok {
		s.store.Clear()
		return nil
	}

	for _, kind := range []store.Kind{store.KindProject, store.KindModule, store.KindTask, store.KindBug, store.KindUser} {
		s.store.SetLoading(kind)
	}

	var (
		wg       sync.WaitGroup
		projects []models.Project
		tasks    []models.Task
		bugs     []models.Bug
		users    []models.User
		projErr  error
		taskErr  error
		bugErr   error
		userErr  error
	)
	wg.Add(4)
	go func() { defer wg.Done(); projects, projErr = s.api.GetProjects(ctx) }()
	go func() { defer wg.Done(); tasks, taskErr = s.api.GetTasks(ctx) }()
	go func() { defer wg.Done(); bugs, bugErr = s.api.GetBugs(ctx) }()
	go func() { defer wg.Done(); users, userErr = s.api.GetUsers(ctx) }()
	wg.Wait()

	// The user list loads and fails independently of the core collections,
	// so a core failure never discards a user list that did arrive.
	if userErr != nil {
		log.Printf("Failed to fetch users: %v", userErr)
		s.store.Fail(store.KindUser)
	} else {
		s.store.ReplaceUsers(users)
	}

	if projErr != nil || taskErr != nil || bugErr != nil {
		err := projErr
		if err == nil {
			err = taskErr
		}
		if err == nil {
			err = bugErr
		}
		log.Printf("Failed to load data from API: %v", err)
		for _, kind := range []store.Kind{store.KindProject, store.KindModule, store.KindTask, store.KindBug} {
			s.store.Fail(kind)
		}
		return err
	}

	s.store.ReplaceProjects(projects)
	s.store.ReplaceTasks(tasks)
	s.store.ReplaceBugs(bugs)

	var allModules []models.Module
	for _, p := range projects {
		modules, err := s.api.GetModules(ctx, p.ID)
		if err != nil {
			log.Printf("Failed to load modules for project %s: %v", p.ID, err)
			continue
		}
		allModules = append(allModules, modules...)
	}
	s.store.ReplaceModules(allModules)

	return nil
}

func (s *TrackerService) AddTask(ctx context.Context, draft models.Task) (models.Task, error) {
	if draft.Title == "" || draft.ProjectID == "" {
		return models.Task{}, fmt.Errorf("task title and projectId are required")
	}
	draft.Status = models.TaskPending
	created, err := s.api.CreateTask(ctx, draft)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		s.notify("Failed to create task", models.NotifyError)
		return models.Task{}, err
	}
	s.store.AppendTask(created)
	s.notify("New task assigned: "+created.Title, models.NotifySuccess)
	return created, nil
}

// UpdateTask replaces the stored record with the server's normalized
// response, so server-side derivation cannot desync the local copy. A
// notification is appended only when the patch touches status.
func (s *TrackerService) UpdateTask(ctx context.Context, id string, patch map[string]any) error {
	updated, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		log.Printf("Error updating task: %v", err)
		return err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	title, ok := s.store.ReplaceTask(id, updated)
	if status, touched := patch["status"]; touched && ok {
		s.notify(fmt.Sprintf("Task %q status updated to %v", title, status), models.NotifyInfo)
	}
	return nil
}

// DeleteTask re-fetches the whole collection after a successful delete
// instead of removing locally: the backend may cascade (deleting a project's
// tasks) and a reload cannot disagree with it.
func (s *TrackerService) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		log.Printf("Error deleting task: %v", err)
		s.notify("Failed to delete task", models.NotifyError)
		return err
	}
	tasks, err := s.api.GetTasks(ctx)
	if err != nil {
		log.Printf("Error deleting task: %v", err)
		s.notify("Failed to delete task", models.NotifyError)
		return err
	}
	s.store.ReplaceTasks(tasks)
	s.notify("Task deleted successfully", models.NotifyInfo)
	return nil
}

func (s *TrackerService) AddProject(ctx context.Context, draft models.Project) (models.Project, error) {
	if draft.Title == "" {
		return models.Project{}, fmt.Errorf("project title is required")
	}
	if draft.Status == "" {
		draft.Status = models.ProjectPlanning
	}
	created, err := s.api.CreateProject(ctx, draft)
	if err != nil {
		log.Printf("Error creating project: %v", err)
		s.notify("Failed to create project", models.NotifyError)
		return models.Project{}, err
	}
	s.store.AppendProject(created)
	s.notify("New project created: "+created.Title, models.NotifySuccess)
	return created, nil
}

func (s *TrackerService) UpdateProject(ctx context.Context, id string, patch map[string]any) error {
	updated, err := s.api.UpdateProject(ctx, id, patch)
	if err != nil {
		log.Printf("Error updating project: %v", err)
		return err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	if title, ok := s.store.ReplaceProject(id, updated); ok {
		s.notify(fmt.Sprintf("Project %q updated successfully", title), models.NotifyInfo)
	}
	return nil
}

func (s *TrackerService) DeleteProject(ctx context.Context, id string) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		log.Printf("Error deleting project: %v", err)
		s.notify("Failed to delete project", models.NotifyError)
		return err
	}
	projects, err := s.api.GetProjects(ctx)
	if err != nil {
		log.Printf("Error deleting project: %v", err)
		s.notify("Failed to delete project", models.NotifyError)
		return err
	}
	s.store.ReplaceProjects(projects)
	s.notify("Project deleted successfully", models.NotifyInfo)
	return nil
}

func (s *TrackerService) AddModule(ctx context.Context, projectID string, draft models.Module) (models.Module, error) {
	if draft.Name == "" {
		return models.Module{}, fmt.Errorf("module name is required")
	}
	created, err := s.api.CreateModule(ctx, projectID, draft)
	if err != nil {
		log.Printf("Error creating module: %v", err)
		s.notify("Failed to create module", models.NotifyError)
		return models.Module{}, err
	}
	s.store.AppendModule(created)
	s.notify("New module created: "+created.Name, models.NotifySuccess)
	return created, nil
}

func (s *TrackerService) UpdateModule(ctx context.Context, projectID, moduleID string, patch map[string]any) error {
	updated, err := s.api.UpdateModule(ctx, projectID, moduleID, patch)
	if err != nil {
		log.Printf("Error updating module: %v", err)
		s.notify("Failed to update module", models.NotifyError)
		return err
	}
	if updated.ID == "" {
		updated.ID = moduleID
	}
	if name, ok := s.store.ReplaceModule(projectID, moduleID, updated); ok {
		s.notify(fmt.Sprintf("Module %q updated successfully", name), models.NotifyInfo)
	}
	return nil
}

func (s *TrackerService) DeleteModule(ctx context.Context, projectID, moduleID string) error {
	if err := s.api.DeleteModule(ctx, projectID, moduleID); err != nil {
		log.Printf("Error deleting module: %v", err)
		s.notify("Failed to delete module", models.NotifyError)
		return err
	}
	s.store.RemoveModule(projectID, moduleID)
	s.notify("Module deleted successfully", models.NotifyInfo)
	return nil
}

func (s *TrackerService) AddBug(ctx context.Context, draft models.Bug) (models.Bug, error) {
	if draft.Title == "" || draft.TaskID == "" {
		return models.Bug{}, fmt.Errorf("bug title and taskId are required")
	}
	created, err := s.api.CreateBug(ctx, draft)
	if err != nil {
		log.Printf("Error reporting bug: %v", err)
		s.notify("Failed to report bug", models.NotifyError)
		return models.Bug{}, err
	}
	s.store.AppendBug(created)
	s.notify("New bug reported: "+created.Title, models.NotifyError)
	return created, nil
}

// UpdateBug replaces the stored record with the server's normalized
// response. The notification names the bug as it was known before the swap.
func (s *TrackerService) UpdateBug(ctx context.Context, id string, patch map[string]any) error {
	updated, err := s.api.UpdateBug(ctx, id, patch)
	if err != nil {
		log.Printf("Error updating bug: %v", err)
		return err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	title, ok := s.store.ReplaceBug(id, updated)
	if status, touched := patch["status"]; touched && ok {
		s.notify(fmt.Sprintf("Bug %q status updated to %v", title, status), models.NotifyInfo)
	}
	return nil
}

func (s *TrackerService) DeleteBug(ctx context.Context, id string) error {
	if err := s.api.DeleteBug(ctx, id); err != nil {
		log.Printf("Error deleting bug: %v", err)
		s.notify("Failed to delete bug", models.NotifyError)
		return err
	}
	bugs, err := s.api.GetBugs(ctx)
	if err != nil {
		log.Printf("Error deleting bug: %v", err)
		s.notify("Failed to delete bug", models.NotifyError)
		return err
	}
	s.store.ReplaceBugs(bugs)
	s.notify("Bug report deleted successfully", models.NotifyInfo)
	return nil
}

func (s *TrackerService) AddUser(ctx context.Context, draft map[string]any) (models.User, error) {
	created, err := s.api.CreateUser(ctx, draft)
	if err != nil {
		log.Printf("Failed to add user: %v", err)
		return models.User{}, err
	}
	s.store.AppendUser(created)
	return created, nil
}

func (s *TrackerService) UpdateUser(ctx context.Context, id string, patch map[string]any) error {
	updated, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		log.Printf("Failed to update user: %v", err)
		return err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	s.store.ReplaceUser(id, updated)
	return nil
}

func (s *TrackerService) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		log.Printf("Failed to delete user: %v", err)
		return err
	}
	users, err := s.api.GetUsers(ctx)
	if err != nil {
		log.Printf("Failed to refresh users: %v", err)
		return err
	}
	s.store.ReplaceUsers(users)
	return nil
}

func (s *TrackerService) UserStatistics(ctx context.Context, id string) (models.UserStatistics, error) {
	return s.api.GetUserStatistics(ctx, id)
}

// DashboardSummary returns the stats breakdown for the current role. Admins
// see the backend's own aggregation; every other role gets a recomputation
// over the collections as that role sees them. A failed backend fetch for an
// admin falls back to the local recomputation.
func (s *TrackerService) DashboardSummary(ctx context.Context) models.DashboardStats {
	sess, ok := s.gate.Current()
	if !ok {
		return models.DashboardStats{}
	}
	if sess.User.Role == models.RoleAdmin {
		stats, err := s.api.GetDashboardStats(ctx)
		if err == nil {
			return stats
		}
		log.Printf("Failed to load dashboard stats: %v", err)
	}
	projects := resolve.FilterProjects(s.store.Projects(), sess.User)
	allProjects := s.store.Projects()
	allTasks := s.store.Tasks()
	tasks := resolve.FilterTasks(allTasks, allProjects, sess.User)
	bugs := resolve.FilterBugs(s.store.Bugs(), allTasks, allProjects, sess.User)
	return resolve.ComputeDashboardStats(projects, tasks, bugs)
}

// TeamWorkload returns the per-member open-item load. Developers and testers
// never see the team view; failures degrade to an empty list.
func (s *TrackerService) TeamWorkload(ctx context.Context) []models.WorkloadEntry {
	sess, ok := s.gate.Current()
	if !ok {
		return nil
	}
	switch sess.User.Role {
	case models.RoleDeveloper, models.RoleTester:
		return nil
	}
	workload, err := s.api.GetTeamWorkload(ctx)
	if err != nil {
		log.Printf("Failed to load team workload: %v", err)
		return nil
	}
	return workload
}

func (s *TrackerService) Notifications() ([]models.Notification, error) {
	return s.notifications.List()
}

func (s *TrackerService) MarkNotificationRead(id int64) error {
	return s.notifications.MarkRead(id)
}

func (s *TrackerService) MarkAllNotificationsRead() error {
	return s.notifications.MarkAllRead()
}
