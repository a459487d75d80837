package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TWRT/tracker-client/internal/models"
	"github.com/TWRT/tracker-client/internal/normalize"
)

// TrackerClient talks to the tracker REST backend. Responses are decoded
// leniently and pushed through the normalize package, because the backend
// mixes id/_id fields, nests user objects where ids are expected and emits
// SCREAMING_SNAKE status tokens.
type TrackerClient struct {
	baseUrl    string
	token      func() string
	httpClient *http.Client
}

// NewTrackerClient builds a client. token is read per request so the client
// picks up the session credential as soon as login stores it.
func NewTrackerClient(baseUrl string, token func() string) *TrackerClient {
	if token == nil {
		token = func() string { return "" }
	}
	return &TrackerClient{
		baseUrl:    baseUrl,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *TrackerClient) do(ctx context.Context, method, path string, payload any) (any, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request (tracker): %w", err)
		}
		reqBody = bytes.NewBuffer(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request (tracker): %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (tracker): %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorBody
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, &APIError{Status: resp.StatusCode}
		}
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if len(body) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parse response (tracker): %w", err)
	}
	return decoded, nil
}

func (c *TrackerClient) Login(ctx context.Context, email, password string) (models.Session, error) {
	resp, err := c.do(ctx, "POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("login (tracker): %w", err)
	}
	session, err := normalize.Session(resp)
	if err != nil {
		return models.Session{}, fmt.Errorf("login (tracker): %w", err)
	}
	return session, nil
}

func (c *TrackerClient) GetProjects(ctx context.Context) ([]models.Project, error) {
	resp, err := c.do(ctx, "GET", "/api/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("get projects (tracker): %w", err)
	}
	list, err := normalize.Collection(resp, "projects")
	if err != nil {
		return nil, fmt.Errorf("get projects (tracker): %w", err)
	}
	projects := make([]models.Project, 0, len(list))
	for _, raw := range list {
		p, err := normalize.Project(raw)
		if err != nil {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (c *TrackerClient) GetProject(ctx context.Context, id string) (models.Project, error) {
	resp, err := c.do(ctx, "GET", "/api/projects/"+id, nil)
	if err != nil {
		return models.Project{}, fmt.Errorf("get project (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "project")
	if err != nil {
		return models.Project{}, fmt.Errorf("get project (tracker): %w", err)
	}
	return normalize.Project(record)
}

// projectPayload denormalizes a canonical project into the backend shape:
// title becomes name, the status label becomes its token and the single
// assigned developer goes back to a list.
func projectPayload(draft models.Project) map[string]any {
	payload := map[string]any{
		"name":        draft.Title,
		"description": draft.Description,
		"status":      normalize.ProjectStatusToken(draft.Status),
	}
	if normalize.IsObjectID(draft.AssignedDeveloperID) {
		payload["assignedDevelopers"] = []string{draft.AssignedDeveloperID}
	}
	if draft.StartDate != "" {
		payload["startDate"] = draft.StartDate
	}
	if draft.EndDate != "" {
		payload["endDate"] = draft.EndDate
	}
	return payload
}

func (c *TrackerClient) CreateProject(ctx context.Context, draft models.Project) (models.Project, error) {
	resp, err := c.do(ctx, "POST", "/api/projects", projectPayload(draft))
	if err != nil {
		return models.Project{}, fmt.Errorf("create project (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "project")
	if err != nil {
		return models.Project{}, fmt.Errorf("create project (tracker): %w", err)
	}
	return normalize.Project(record)
}

func (c *TrackerClient) UpdateProject(ctx context.Context, id string, patch map[string]any) (models.Project, error) {
	apiPatch := make(map[string]any, len(patch))
	for k, v := range patch {
		switch k {
		case "title":
			apiPatch["name"] = v
		case "status":
			apiPatch["status"] = normalize.ProjectStatusToken(normalize.Str(v))
		case "assignedDeveloperId":
			if dev := normalize.RefID(v); normalize.IsObjectID(dev) {
				apiPatch["assignedDevelopers"] = []string{dev}
			}
		default:
			apiPatch[k] = v
		}
	}
	resp, err := c.do(ctx, "PUT", "/api/projects/"+id, apiPatch)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "project")
	if err != nil {
		return models.Project{}, fmt.Errorf("update project (tracker): %w", err)
	}
	return normalize.Project(record)
}

func (c *TrackerClient) DeleteProject(ctx context.Context, id string) error {
	if _, err := c.do(ctx, "DELETE", "/api/projects/"+id, nil); err != nil {
		return fmt.Errorf("delete project (tracker): %w", err)
	}
	return nil
}

func (c *TrackerClient) GetTasks(ctx context.Context) ([]models.Task, error) {
	resp, err := c.do(ctx, "GET", "/api/tasks", nil)
	if err != nil {
		return nil, fmt.Errorf("get tasks (tracker): %w", err)
	}
	list, err := normalize.Collection(resp, "tasks")
	if err != nil {
		return nil, fmt.Errorf("get tasks (tracker): %w", err)
	}
	tasks := make([]models.Task, 0, len(list))
	for _, raw := range list {
		t, err := normalize.Task(raw)
		if err != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func taskPayload(draft models.Task) map[string]any {
	payload := map[string]any{
		"projectId":   draft.ProjectID,
		"title":       draft.Title,
		"description": draft.Description,
		"status":      draft.Status,
		"priority":    draft.Priority,
	}
	if draft.Status == "" {
		payload["status"] = models.TaskPending
	}
	if draft.Priority == "" {
		payload["priority"] = models.PriorityMedium
	}
	if normalize.IsObjectID(draft.ModuleID) {
		payload["moduleId"] = draft.ModuleID
	}
	if normalize.IsObjectID(draft.AssignedTo) {
		payload["assignedTo"] = draft.AssignedTo
	}
	if draft.StartDate != "" {
		payload["startDate"] = draft.StartDate
	}
	if draft.EndDate != "" {
		payload["endDate"] = draft.EndDate
	}
	return payload
}

func (c *TrackerClient) CreateTask(ctx context.Context, draft models.Task) (models.Task, error) {
	resp, err := c.do(ctx, "POST", "/api/tasks", taskPayload(draft))
	if err != nil {
		return models.Task{}, fmt.Errorf("create task (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "task")
	if err != nil {
		return models.Task{}, fmt.Errorf("create task (tracker): %w", err)
	}
	return normalize.Task(record)
}

// refPatch drops reference values that do not look like object ids, so a
// form that kept a placeholder never sends it to the backend.
func refPatch(patch map[string]any, refKeys ...string) map[string]any {
	isRef := make(map[string]bool, len(refKeys))
	for _, k := range refKeys {
		isRef[k] = true
	}
	apiPatch := make(map[string]any, len(patch))
	for k, v := range patch {
		if isRef[k] {
			if id := normalize.RefID(v); normalize.IsObjectID(id) {
				apiPatch[k] = id
			}
			continue
		}
		apiPatch[k] = v
	}
	return apiPatch
}

func (c *TrackerClient) UpdateTask(ctx context.Context, id string, patch map[string]any) (models.Task, error) {
	resp, err := c.do(ctx, "PUT", "/api/tasks/"+id, refPatch(patch, "moduleId", "assignedTo"))
	if err != nil {
		return models.Task{}, fmt.Errorf("update task (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "task")
	if err != nil {
		return models.Task{}, fmt.Errorf("update task (tracker): %w", err)
	}
	return normalize.Task(record)
}

func (c *TrackerClient) DeleteTask(ctx context.Context, id string) error {
	if _, err := c.do(ctx, "DELETE", "/api/tasks/"+id, nil); err != nil {
		return fmt.Errorf("delete task (tracker): %w", err)
	}
	return nil
}

func (c *TrackerClient) GetModules(ctx context.Context, projectID string) ([]models.Module, error) {
	resp, err := c.do(ctx, "GET", "/api/projects/"+projectID+"/modules", nil)
	if err != nil {
		return nil, fmt.Errorf("get modules (tracker): %w", err)
	}
	list, err := normalize.Collection(resp, "modules")
	if err != nil {
		return nil, fmt.Errorf("get modules (tracker): %w", err)
	}
	modules := make([]models.Module, 0, len(list))
	for _, raw := range list {
		m, err := normalize.Module(raw, projectID)
		if err != nil {
			continue
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func (c *TrackerClient) CreateModule(ctx context.Context, projectID string, draft models.Module) (models.Module, error) {
	status := draft.Status
	if status == "" {
		status = models.ModulePlanning
	}
	resp, err := c.do(ctx, "POST", "/api/projects/"+projectID+"/modules", map[string]any{
		"name":        draft.Name,
		"description": draft.Description,
		"status":      status,
	})
	if err != nil {
		return models.Module{}, fmt.Errorf("create module (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "module")
	if err != nil {
		return models.Module{}, fmt.Errorf("create module (tracker): %w", err)
	}
	return normalize.Module(record, projectID)
}

func (c *TrackerClient) UpdateModule(ctx context.Context, projectID, moduleID string, patch map[string]any) (models.Module, error) {
	resp, err := c.do(ctx, "PUT", "/api/projects/"+projectID+"/modules/"+moduleID, patch)
	if err != nil {
		return models.Module{}, fmt.Errorf("update module (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "module")
	if err != nil {
		return models.Module{}, fmt.Errorf("update module (tracker): %w", err)
	}
	return normalize.Module(record, projectID)
}

func (c *TrackerClient) DeleteModule(ctx context.Context, projectID, moduleID string) error {
	if _, err := c.do(ctx, "DELETE", "/api/projects/"+projectID+"/modules/"+moduleID, nil); err != nil {
		return fmt.Errorf("delete module (tracker): %w", err)
	}
	return nil
}

func (c *TrackerClient) GetBugs(ctx context.Context) ([]models.Bug, error) {
	resp, err := c.do(ctx, "GET", "/api/bugs", nil)
	if err != nil {
		return nil, fmt.Errorf("get bugs (tracker): %w", err)
	}
	list, err := normalize.Collection(resp, "bugs")
	if err != nil {
		return nil, fmt.Errorf("get bugs (tracker): %w", err)
	}
	bugs := make([]models.Bug, 0, len(list))
	for _, raw := range list {
		b, err := normalize.Bug(raw)
		if err != nil {
			continue
		}
		bugs = append(bugs, b)
	}
	return bugs, nil
}

func bugPayload(draft models.Bug) map[string]any {
	status := draft.Status
	if status == "" {
		status = models.BugOpen
	}
	severity := draft.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	attachments := draft.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	payload := map[string]any{
		"taskId":      draft.TaskID,
		"title":       draft.Title,
		"description": draft.Description,
		"severity":    severity,
		"status":      status,
		"attachments": attachments,
	}
	if normalize.IsObjectID(draft.AssignedTo) {
		payload["assignedTo"] = draft.AssignedTo
	}
	if normalize.IsObjectID(draft.ReportedBy) {
		payload["reportedBy"] = draft.ReportedBy
	}
	if draft.StartDate != "" {
		payload["startDate"] = draft.StartDate
	}
	if draft.EndDate != "" {
		payload["endDate"] = draft.EndDate
	}
	return payload
}

func (c *TrackerClient) CreateBug(ctx context.Context, draft models.Bug) (models.Bug, error) {
	resp, err := c.do(ctx, "POST", "/api/bugs", bugPayload(draft))
	if err != nil {
		return models.Bug{}, fmt.Errorf("create bug (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "bug")
	if err != nil {
		return models.Bug{}, fmt.Errorf("create bug (tracker): %w", err)
	}
	return normalize.Bug(record)
}

func (c *TrackerClient) UpdateBug(ctx context.Context, id string, patch map[string]any) (models.Bug, error) {
	resp, err := c.do(ctx, "PUT", "/api/bugs/"+id, refPatch(patch, "taskId", "assignedTo", "reportedBy"))
	if err != nil {
		return models.Bug{}, fmt.Errorf("update bug (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "bug")
	if err != nil {
		return models.Bug{}, fmt.Errorf("update bug (tracker): %w", err)
	}
	return normalize.Bug(record)
}

func (c *TrackerClient) DeleteBug(ctx context.Context, id string) error {
	if _, err := c.do(ctx, "DELETE", "/api/bugs/"+id, nil); err != nil {
		return fmt.Errorf("delete bug (tracker): %w", err)
	}
	return nil
}

func (c *TrackerClient) GetUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.do(ctx, "GET", "/api/users", nil)
	if err != nil {
		return nil, fmt.Errorf("get users (tracker): %w", err)
	}
	list, err := normalize.Collection(resp, "users")
	if err != nil {
		return nil, fmt.Errorf("get users (tracker): %w", err)
	}
	users := make([]models.User, 0, len(list))
	for _, raw := range list {
		u, err := normalize.User(raw)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *TrackerClient) CreateUser(ctx context.Context, draft map[string]any) (models.User, error) {
	resp, err := c.do(ctx, "POST", "/api/users", draft)
	if err != nil {
		return models.User{}, fmt.Errorf("create user (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "user")
	if err != nil {
		return models.User{}, fmt.Errorf("create user (tracker): %w", err)
	}
	return normalize.User(record)
}

func (c *TrackerClient) UpdateUser(ctx context.Context, id string, patch map[string]any) (models.User, error) {
	if id == "" {
		return models.User{}, fmt.Errorf("user id is required for update")
	}
	resp, err := c.do(ctx, "PUT", "/api/users/"+id, patch)
	if err != nil {
		return models.User{}, fmt.Errorf("update user (tracker): %w", err)
	}
	record, err := normalize.Record(resp, "user")
	if err != nil {
		return models.User{}, fmt.Errorf("update user (tracker): %w", err)
	}
	return normalize.User(record)
}

func (c *TrackerClient) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("user id is required for delete")
	}
	if _, err := c.do(ctx, "DELETE", "/api/users/"+id, nil); err != nil {
		return fmt.Errorf("delete user (tracker): %w", err)
	}
	return nil
}

func (c *TrackerClient) GetUserStatistics(ctx context.Context, id string) (models.UserStatistics, error) {
	resp, err := c.do(ctx, "GET", "/api/users/"+id+"/statistics", nil)
	if err != nil {
		return models.UserStatistics{}, fmt.Errorf("get user statistics (tracker): %w", err)
	}
	return normalize.UserStatistics(resp)
}

func (c *TrackerClient) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	resp, err := c.do(ctx, "GET", "/api/dashboard/stats", nil)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("get dashboard stats (tracker): %w", err)
	}
	return normalize.DashboardStats(resp)
}

func (c *TrackerClient) GetTeamWorkload(ctx context.Context) ([]models.WorkloadEntry, error) {
	resp, err := c.do(ctx, "GET", "/api/dashboard/workload", nil)
	if err != nil {
		return nil, fmt.Errorf("get team workload (tracker): %w", err)
	}
	return normalize.Workload(resp)
}
