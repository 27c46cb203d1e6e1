package cmd

import (
	"fmt"
	"log"
	"time"

	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, model := range []interface{}{
				&historyDatamodel.Entry{},
				&shiftDatamodel.Shift{},
				&collaboratorDatamodel.Collaborator{},
				&scheduleDatamodel.Schedule{},
				&userDatamodel.User{},
			} {
				if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					log.Fatalf("failed to clear table: %v", err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		now := time.Now()
		users := []userDatamodel.User{
			{ID: "demo-wang", Email: "wang@mail.com", Name: "小王", PreferredLanguage: "zh-TW", CreatedAt: now, UpdatedAt: now},
			{ID: "demo-chen", Email: "chen@mail.com", Name: "小陳", PreferredLanguage: "zh-TW", CreatedAt: now, UpdatedAt: now},
		}
		for _, u := range users {
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, err)
			}
		}
		fmt.Println("Seeded demo users:", users[0].Email, users[1].Email)

		sched := scheduleDatamodel.Schedule{
			ID:         "1234567890",
			Name:       "Night Ward Roster",
			OwnerID:    "demo-wang",
			CreatedAt:  now,
			ShiftTypes: `["早班","晚班","夜班"]`,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sched).Error; err != nil {
			log.Fatalf("failed to seed schedule: %v", err)
		}

		collab := collaboratorDatamodel.Collaborator{
			ScheduleID: sched.ID,
			UserID:     "demo-chen",
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&collab).Error; err != nil {
			log.Fatalf("failed to seed collaborator: %v", err)
		}

		var shiftCount int64
		if err := db.Model(&shiftDatamodel.Shift{}).Where("schedule_id = ?", sched.ID).Count(&shiftCount).Error; err != nil {
			log.Fatalf("failed to count shifts: %v", err)
		}
		if shiftCount == 0 {
			shifts := []shiftDatamodel.Shift{
				{ScheduleID: sched.ID, UserID: "demo-wang", Date: "2025-02-01", Shift: "早班"},
				{ScheduleID: sched.ID, UserID: "demo-chen", Date: "2025-02-01", Shift: "夜班", Reminder: true},
				{ScheduleID: sched.ID, UserID: "demo-chen", Date: "2025-02-02", Shift: "晚班"},
			}
			for _, sh := range shifts {
				if err := db.Create(&sh).Error; err != nil {
					log.Fatalf("failed to seed shift: %v", err)
				}
			}

			entries := []historyDatamodel.Entry{
				{ScheduleID: sched.ID, UserID: "demo-wang", Action: "created schedule: Night Ward Roster", Timestamp: now},
				{ScheduleID: sched.ID, UserID: "demo-chen", Action: "joined schedule", Timestamp: now},
				{ScheduleID: sched.ID, UserID: "demo-wang", Action: "added shift: 2025-02-01 早班", Timestamp: now},
			}
			for _, e := range entries {
				if err := db.Create(&e).Error; err != nil {
					log.Fatalf("failed to seed history entry: %v", err)
				}
			}
		}

		fmt.Println("Seeded demo schedule:", sched.ID)
	},
}
