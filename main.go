package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/TWRT/tracker-client/internal/client/tracker"
	"github.com/TWRT/tracker-client/internal/repository"
	"github.com/TWRT/tracker-client/internal/service"
	"github.com/TWRT/tracker-client/internal/session"
	"github.com/TWRT/tracker-client/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	baseURL := os.Getenv("TRACKER_API_URL")
	email := os.Getenv("TRACKER_EMAIL")
	password := os.Getenv("TRACKER_PASSWORD")
	if baseURL == "" || email == "" || password == "" {
		log.Fatal("TRACKER_API_URL, TRACKER_EMAIL and TRACKER_PASSWORD must be set")
	}

	dbPath := os.Getenv("TRACKER_DB")
	if dbPath == "" {
		dbPath = "./tracker.db"
	}
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatal("Error initializing DB: ", err)
	}
	defer db.Close()

	fmt.Println("✅ Local database ready!")

	notificationRepo := repository.NewNotificationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// The client reads the token through the gate per request, and the gate
	// logs in through the client, so the gate variable is bound after the
	// client is constructed.
	var gate *session.Gate
	api := tracker.NewTrackerClient(baseURL, func() string {
		if gate == nil {
			return ""
		}
		return gate.Token()
	})
	gate = session.NewGate(api, sessionRepo)

	svc := service.NewTrackerService(api, store.New(), notificationRepo, gate)

	ctx := context.Background()
	if gate.Restore() {
		fmt.Println("🔑 Session restored")
	} else if gate.Login(ctx, email, password) {
		fmt.Println("🔑 Logged in")
	} else {
		log.Fatal("Login failed")
	}

	if err := svc.Bootstrap(ctx); err != nil {
		log.Println("Running with degraded data: ", err)
	}

	sess, _ := gate.Current()
	fmt.Printf("👤 %s (%s)\n", sess.User.Name, sess.User.Role)

	stats := svc.DashboardSummary(ctx)
	fmt.Printf("📊 Work items: %d total, %d completed, %d in progress, %d pending (%d%% done)\n",
		stats.TotalWork, stats.CompletedWork, stats.InProgressWork, stats.PendingWork, stats.CompletionPercentage)
	fmt.Printf("   Projects: %d (%d active, %d completed)\n",
		stats.Projects.Total, stats.Projects.Active, stats.Projects.Completed)
	fmt.Printf("   Tasks: %d | Bugs: %d\n", stats.Tasks.Total, stats.Bugs.Total)

	for _, member := range svc.TeamWorkload(ctx) {
		fmt.Printf("   %s: %d items (%d tasks, %d bugs)\n",
			member.Name, member.TotalWork, member.TaskCount, member.BugCount)
	}

	unread, err := notificationRepo.UnreadCount()
	if err != nil {
		log.Println("Failed to count notifications: ", err)
	} else {
		fmt.Printf("🔔 %d unread notifications\n", unread)
	}
}
