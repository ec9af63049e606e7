package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"primetrade/internal/auth"
	"primetrade/internal/config"
	"primetrade/internal/db"
	"primetrade/internal/model"
	"primetrade/internal/repository"
	"primetrade/internal/service"
)

const (
	demoName  = "Demo User"
	demoEmail = "demo@primetrade.local"
)

// SeedTaskData is the structure of entries in the optional SEED_FILE.
type SeedTaskData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

var defaultTasks = []SeedTaskData{
	{Title: "Buy milk", Description: "2 liters, whole"},
	{Title: "Write weekly report", Description: "due Friday"},
	{Title: "Book dentist appointment", IsCompleted: true},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	tasks := defaultTasks
	if path := os.Getenv("SEED_FILE"); path != "" {
		tasks, err = loadTasksFromFile(path)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		log.Printf("Loaded %d tasks from %s", len(tasks), path)
	}

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret))

	ctx := context.Background()

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "demo-password"
	}

	user, _, err := authService.Register(ctx, demoName, demoEmail, password)
	switch {
	case err == nil:
		log.Printf("Created demo user %s", demoEmail)
	case errors.Is(err, service.ErrDuplicateEmail):
		user, err = userRepo.FindByEmail(ctx, demoEmail)
		if err != nil {
			log.Fatalf("Failed to load existing demo user: %v", err)
		}
		log.Printf("Demo user %s already present", demoEmail)
	default:
		log.Fatalf("Failed to create demo user: %v", err)
	}

	seeded, skipped, err := seedTasks(ctx, taskRepo, user, tasks)
	if err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New tasks created: %d", seeded)
	log.Printf("  - Already present:   %d", skipped)
}

// loadTasksFromFile reads seed tasks from a JSON file.
func loadTasksFromFile(path string) ([]SeedTaskData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var tasks []SeedTaskData
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return tasks, nil
}

// seedTasks creates the given tasks for the user, skipping titles the user
// already has so the script stays idempotent.
func seedTasks(ctx context.Context, repo repository.TaskRepository, user *model.User, tasks []SeedTaskData) (seeded int, skipped int, err error) {
	existing, err := repo.FindByOwner(ctx, user.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list existing tasks: %w", err)
	}

	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Title] = true
	}

	for _, item := range tasks {
		if item.Title == "" {
			log.Println("Skipping task with empty title")
			skipped++
			continue
		}
		if have[item.Title] {
			skipped++
			continue
		}

		task := &model.Task{
			OwnerID:     user.ID,
			Title:       item.Title,
			Description: item.Description,
			IsCompleted: item.IsCompleted,
		}
		if err := repo.Create(ctx, task); err != nil {
			return seeded, skipped, fmt.Errorf("error creating task %q: %w", item.Title, err)
		}
		seeded++
	}

	return seeded, skipped, nil
}
