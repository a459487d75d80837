// Package normalize converts the tracker backend's inconsistent JSON shapes
// (mixed id/_id fields, nested objects standing in for foreign keys, enum
// casing differences, ISO timestamps) into the canonical models. Every
// function is lenient: missing or malformed optional fields never fail, and
// unrecognized status tokens or unparsable dates pass through unchanged. The
// single hard failure is a payload that is not a JSON object at all.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/TWRT/tracker-client/internal/models"
)

// ErrNotObject reports a payload that cannot represent an entity record.
var ErrNotObject = errors.New("payload is not a JSON object")

var projectStatusFromAPI = map[string]string{
	"IN_PROGRESS": models.ProjectInProgress,
	"PLANNING":    models.ProjectPlanning,
	"ACTIVE":      models.ProjectActive,
	"COMPLETED":   models.ProjectCompleted,
	"ON_HOLD":     models.ProjectOnHold,
}

var projectStatusToAPI = map[string]string{
	models.ProjectInProgress: "IN_PROGRESS",
	models.ProjectPlanning:   "PLANNING",
	models.ProjectActive:     "ACTIVE",
	models.ProjectCompleted:  "COMPLETED",
	models.ProjectOnHold:     "ON_HOLD",
}

// ProjectStatusLabel maps a backend status token to its frontend label.
// Unknown tokens pass through unchanged so new backend statuses degrade
// gracefully; an empty value falls back to Planning.
func ProjectStatusLabel(raw string) string {
	if raw == "" {
		return models.ProjectPlanning
	}
	if label, ok := projectStatusFromAPI[raw]; ok {
		return label
	}
	return raw
}

// ProjectStatusToken maps a frontend label back to the backend token for
// outbound payloads. Unknown labels pass through; empty defaults to PLANNING.
func ProjectStatusToken(label string) string {
	if label == "" {
		return "PLANNING"
	}
	if token, ok := projectStatusToAPI[label]; ok {
		return token
	}
	return label
}

// IsObjectID reports whether s looks like a 24-hex-char object id. Reference
// fields are only sent to the backend when they pass this check.
func IsObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// Str coerces a JSON scalar to a string. Numbers render in plain decimal
// notation because ids sometimes arrive as numbers.
func Str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// RefID extracts a weak reference from a field that may be a nested object
// (denormalized by the backend), a bare id, or absent. The empty string means
// unassigned; callers never see an object or a null.
func RefID(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case map[string]any:
		if id, ok := r["_id"]; ok {
			return Str(id)
		}
		return Str(r["id"])
	default:
		return Str(v)
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders any date/time value as a YYYY-MM-DD calendar string.
// Unparsable input passes through unchanged rather than being dropped.
func Date(v any) string {
	s := Str(v)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func asObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return obj, nil
}

func pick(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func strField(obj map[string]any, keys ...string) string {
	return Str(pick(obj, keys...))
}

// recordID prefers id over _id plus any kind-specific alternates.
func recordID(obj map[string]any, alternates ...string) string {
	keys := append([]string{"id", "_id"}, alternates...)
	for _, k := range keys {
		if id := Str(obj[k]); id != "" {
			return id
		}
	}
	return ""
}

func withDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Collection unwraps a bulk response. The backend variously returns a bare
// array, an array under a kind key ({projects: [...]}), or {data: [...]}.
func Collection(v any, keys ...string) ([]any, error) {
	switch body := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return body, nil
	case map[string]any:
		for _, k := range append(keys, "data") {
			if list, ok := body[k].([]any); ok {
				return list, nil
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
}

// Record unwraps a single-entity response that may arrive bare or nested
// under a kind key ({project: {...}}).
func Record(v any, keys ...string) (map[string]any, error) {
	obj, err := asObject(v)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if nested, ok := obj[k].(map[string]any); ok {
			return nested, nil
		}
	}
	return obj, nil
}

// Project normalizes one backend project record. The backend calls the title
// "name", models the manager as a nested createdBy object, and models the
// assigned developer as a list; the first developer is canonical.
func Project(v any) (models.Project, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.Project{}, err
	}

	var devIDs []string
	if list, ok := obj["assignedDevelopers"].([]any); ok {
		for _, d := range list {
			if id := RefID(d); id != "" {
				devIDs = append(devIDs, id)
			}
		}
	}
	assignedDev := strField(obj, "assignedDeveloperId")
	if assignedDev == "" && len(devIDs) > 0 {
		assignedDev = devIDs[0]
	}

	managerID := RefID(obj["createdBy"])
	if managerID == "" {
		managerID = RefID(obj["managerId"])
	}

	startDate := Date(obj["startDate"])
	if startDate == "" {
		startDate = Date(obj["createdAt"])
	}

	return models.Project{
		ID:                   recordID(obj),
		Title:                strField(obj, "name", "title"),
		Description:          strField(obj, "description"),
		Status:               ProjectStatusLabel(strField(obj, "status")),
		ManagerID:            managerID,
		AssignedDeveloperID:  assignedDev,
		AssignedDeveloperIDs: devIDs,
		StartDate:            startDate,
		EndDate:              Date(obj["endDate"]),
		CreatedAt:            strField(obj, "createdAt"),
		UpdatedAt:            strField(obj, "updatedAt"),
	}, nil
}

// Task normalizes one backend task record. assignedTo may arrive as a nested
// user object or a bare id.
func Task(v any) (models.Task, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.Task{}, err
	}
	return models.Task{
		ID:          recordID(obj),
		ProjectID:   RefID(obj["projectId"]),
		ModuleID:    RefID(obj["moduleId"]),
		Title:       strField(obj, "title", "name"),
		Description: strField(obj, "description"),
		AssignedTo:  RefID(obj["assignedTo"]),
		Status:      withDefault(strField(obj, "status"), models.TaskPending),
		Priority:    withDefault(strField(obj, "priority"), models.PriorityMedium),
		StartDate:   Date(obj["startDate"]),
		EndDate:     Date(obj["endDate"]),
		CreatedAt:   strField(obj, "createdAt"),
		UpdatedAt:   strField(obj, "updatedAt"),
	}, nil
}

// Bug normalizes one backend bug record. taskId, assignedTo and reportedBy
// may each arrive as nested objects or bare ids.
func Bug(v any) (models.Bug, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.Bug{}, err
	}

	attachments := []models.Attachment{}
	if list, ok := obj["attachments"].([]any); ok {
		for _, a := range list {
			att, ok := a.(map[string]any)
			if !ok {
				continue
			}
			attachments = append(attachments, models.Attachment{
				Name: strField(att, "name"),
				URL:  strField(att, "url"),
			})
		}
	}

	return models.Bug{
		ID:          recordID(obj),
		TaskID:      RefID(obj["taskId"]),
		Title:       strField(obj, "title"),
		Description: strField(obj, "description"),
		Severity:    withDefault(strField(obj, "severity"), models.SeverityMedium),
		Status:      withDefault(strField(obj, "status"), models.BugOpen),
		AssignedTo:  RefID(obj["assignedTo"]),
		ReportedBy:  RefID(obj["reportedBy"]),
		Attachments: attachments,
		StartDate:   Date(obj["startDate"]),
		EndDate:     Date(obj["endDate"]),
		CreatedAt:   strField(obj, "createdAt"),
		UpdatedAt:   strField(obj, "updatedAt"),
	}, nil
}

// Module normalizes one backend module record. Modules are fetched per
// project, so projectID fills in when the record omits its own reference.
func Module(v any, projectID string) (models.Module, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.Module{}, err
	}
	return models.Module{
		ID:          recordID(obj),
		ProjectID:   withDefault(RefID(obj["projectId"]), projectID),
		Name:        strField(obj, "name"),
		Description: strField(obj, "description"),
		Status:      withDefault(strField(obj, "status"), models.ModulePlanning),
		CreatedAt:   strField(obj, "createdAt"),
		UpdatedAt:   strField(obj, "updatedAt"),
	}, nil
}

// User normalizes one backend user record. The id may arrive as id, _id or
// userId depending on the endpoint.
func User(v any) (models.User, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:     recordID(obj, "userId"),
		Name:   strField(obj, "name"),
		Email:  strField(obj, "email"),
		Role:   models.Role(strField(obj, "role")),
		Avatar: strField(obj, "avatar"),
	}, nil
}

// Session normalizes a login response or a persisted session. Three shapes
// are tolerated: {user, token}, {data: {user, token}}, and the already-flat
// persisted form where the user fields sit beside the token.
func Session(v any) (models.Session, error) {
	obj, err := asObject(v)
	if err != nil {
		return models.Session{}, err
	}

	if data, ok := obj["data"].(map[string]any); ok {
		if _, hasUser := data["user"]; hasUser {
			obj = data
		}
	}

	var userPart any = obj
	if nested, ok := obj["user"].(map[string]any); ok {
		userPart = nested
	}

	user, err := User(userPart)
	if err != nil {
		return models.Session{}, err
	}

	return models.Session{
		User:  user,
		Token: strField(obj, "token"),
	}, nil
}

func numField(obj map[string]any, keys ...string) int {
	if f, ok := pick(obj, keys...).(float64); ok {
		return int(f)
	}
	return 0
}

// UserStatistics remaps the aggregated counts from the statistics endpoint
// to the fixed display shape. Counts are consumed as-is.
func UserStatistics(v any) (models.UserStatistics, error) {
	obj, err := Record(v, "statistics", "stats")
	if err != nil {
		return models.UserStatistics{}, err
	}
	num := func(keys ...string) int { return numField(obj, keys...) }
	return models.UserStatistics{
		TasksAssigned:  num("tasksAssigned", "assignedTasks"),
		TasksCompleted: num("tasksCompleted", "completedTasks"),
		BugsAssigned:   num("bugsAssigned", "assignedBugs"),
		BugsResolved:   num("bugsResolved", "resolvedBugs"),
		BugsReported:   num("bugsReported", "reportedBugs"),
	}, nil
}

// DashboardStats normalizes the aggregated breakdown from the dashboard
// stats endpoint. Missing sections come back as zeroes.
func DashboardStats(v any) (models.DashboardStats, error) {
	obj, err := Record(v, "stats")
	if err != nil {
		return models.DashboardStats{}, err
	}
	section := func(key string) map[string]any {
		if nested, ok := obj[key].(map[string]any); ok {
			return nested
		}
		return map[string]any{}
	}
	tasks := section("taskStats")
	bugs := section("bugStats")
	projects := section("projectStats")
	return models.DashboardStats{
		TotalWork:            numField(obj, "totalWork"),
		CompletedWork:        numField(obj, "completedWork"),
		InProgressWork:       numField(obj, "inProgressWork"),
		PendingWork:          numField(obj, "pendingWork"),
		CompletionPercentage: numField(obj, "completionPercentage"),
		Tasks: models.TaskStats{
			Total:      numField(tasks, "total"),
			Completed:  numField(tasks, "completed"),
			InProgress: numField(tasks, "inProgress"),
			Pending:    numField(tasks, "pending"),
		},
		Bugs: models.BugStats{
			Total:      numField(bugs, "total"),
			Resolved:   numField(bugs, "resolved"),
			InProgress: numField(bugs, "inProgress"),
			Open:       numField(bugs, "open"),
		},
		Projects: models.ProjectStats{
			Total:      numField(projects, "total"),
			Active:     numField(projects, "active"),
			InProgress: numField(projects, "inProgress"),
			Completed:  numField(projects, "completed"),
		},
	}, nil
}

// Workload normalizes the team workload list. Entries that are not objects
// are skipped.
func Workload(v any) ([]models.WorkloadEntry, error) {
	list, err := Collection(v, "workload")
	if err != nil {
		return nil, err
	}
	entries := make([]models.WorkloadEntry, 0, len(list))
	for _, raw := range list {
		obj, err := asObject(raw)
		if err != nil {
			continue
		}
		entries = append(entries, models.WorkloadEntry{
			ID:        recordID(obj, "userId"),
			Name:      strField(obj, "name"),
			Avatar:    strField(obj, "avatar"),
			TaskCount: numField(obj, "taskCount"),
			BugCount:  numField(obj, "bugCount"),
			TotalWork: numField(obj, "totalWork"),
		})
	}
	return entries, nil
}
