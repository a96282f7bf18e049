package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type seedUser struct {
	Username   string
	Email      string
	Password   string
	Role       string
	IsApproved bool
}

var demoUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin, IsApproved: true},
	{Username: "alice", Email: "alice@example.com", Password: "alice123", Role: model.RoleUser, IsApproved: true},
	{Username: "bob", Email: "bob@example.com", Password: "bob123", Role: model.RoleUser, IsApproved: true},
	{Username: "carol", Email: "carol@example.com", Password: "carol123", Role: model.RoleUser, IsApproved: false},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	users := make(map[string]*model.User, len(demoUsers))
	created := 0
	for _, su := range demoUsers {
		existing, err := userRepo.FindByEmail(ctx, su.Email)
		if err == nil {
			users[su.Username] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up %s: %v", su.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), 10)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", su.Email, err)
		}
		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
			IsApproved:   su.IsApproved,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create %s: %v", su.Email, err)
		}
		users[su.Username] = user
		created++
	}
	log.Printf("Seeded %d users (%d already present)", created, len(demoUsers)-created)

	existing, err := taskRepo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list tasks: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Tasks already present (%d), skipping task seed", len(existing))
		return
	}

	nextWeek := model.DateOnly(time.Now().AddDate(0, 0, 7))
	demoTasks := []model.Task{
		{
			Title:        "Prepare quarterly report",
			Description:  "Collect numbers from every team and draft the summary.",
			DueDate:      nextWeek,
			Priority:     model.PriorityHigh,
			Status:       model.StatusPending,
			CreatedByID:  users["admin"].ID,
			AssignedToID: users["alice"].ID,
		},
		{
			Title:        "Review onboarding docs",
			Description:  "Read through the onboarding guide and note gaps.",
			DueDate:      nextWeek,
			Priority:     model.PriorityMedium,
			Status:       model.StatusPending,
			CreatedByID:  users["admin"].ID,
			AssignedToID: users["bob"].ID,
		},
		{
			Title:        "Clean up stale branches",
			Description:  "Delete merged branches older than three months.",
			DueDate:      nextWeek,
			Priority:     model.PriorityLow,
			Status:       model.StatusPending,
			CreatedByID:  users["alice"].ID,
			AssignedToID: users["alice"].ID,
		},
	}

	for i := range demoTasks {
		if err := taskRepo.Create(ctx, &demoTasks[i]); err != nil {
			log.Fatalf("Failed to create task %q: %v", demoTasks[i].Title, err)
		}
	}
	log.Printf("Seeded %d tasks", len(demoTasks))
	log.Println("Seed completed")
}
