// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"capboard/models"
	"capboard/scoring"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Reason{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()
	seedTeams()
	seedReasons()

	log.Println("✅ All migrations completed successfully")
}

func createIndexes() {
	db := GetDB()

	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_score ON teams(score DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reasons_cap_type ON reasons(cap_type)")
}

// seedTeams populates the board on first boot so a fresh install has
// something to show.
func seedTeams() {
	db := GetDB()

	var count int64
	db.Model(&models.Team{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seeding teams...")
	teams := []models.Team{
		{Name: "Neural Nexus", Icon: "fa-brain", Score: 9850, History: scoring.History{
			{Points: 500, Reason: "Launch MVP", Date: "2023-10-01"},
			{Points: 200, Reason: "Weekly Streak", Date: "2023-10-08"},
		}},
		{Name: "Data Dynamos", Icon: "fa-database", Score: 9420},
		{Name: "Cyber Synapse", Icon: "fa-network-wired", Score: 8900},
		{Name: "Algorithm Allies", Icon: "fa-code-branch", Score: 8550},
		{Name: "Silicon Squad", Icon: "fa-microchip", Score: 8100},
		{Name: "Quantum Quest", Icon: "fa-atom", Score: 7800},
		{Name: "Logic Legends", Icon: "fa-puzzle-piece", Score: 7450},
		{Name: "Binary Brigade", Icon: "fa-0", Score: 7100},
		{Name: "Future Forge", Icon: "fa-hammer", Score: 6800},
		{Name: "Techno Titans", Icon: "fa-robot", Score: 6500},
	}

	for i := range teams {
		if teams[i].History == nil {
			teams[i].History = scoring.History{}
		}
	}

	if err := db.Create(&teams).Error; err != nil {
		log.Printf("❌ Failed to seed teams: %v", err)
	}
}

// seedReasons installs a starter catalog on first boot.
func seedReasons() {
	db := GetDB()

	var count int64
	db.Model(&models.Reason{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seeding reason catalog...")
	reasons := []models.Reason{
		{Reason: "Launch MVP", Description: "Ship the first working version of the product", Points: 500, CapType: "Orange"},
		{Reason: "Weekly Streak", Description: "Log activity every day for a week", Points: 200, CapType: "Orange"},
		{Reason: "Customer Demo", Description: "Run a live demo for a customer", Points: 300, CapType: "Orange"},
		{Reason: "Automation Win", Description: "Automate a recurring manual task", Points: 400, CapType: "Green"},
		{Reason: "Knowledge Session", Description: "Host a brown-bag or training session", Points: 350, CapType: "Green"},
		{Reason: "Production Save", Description: "Resolve a production incident end to end", Points: 600, CapType: "Purple"},
		{Reason: "Patent Filing", Description: "File a patent or publish a paper", Points: 1000, CapType: "Black"},
	}

	if err := db.Create(&reasons).Error; err != nil {
		log.Printf("❌ Failed to seed reasons: %v", err)
	}
}
