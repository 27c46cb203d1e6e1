package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-management/internal/schedule"
)

func TestScheduleRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Repository Suite")
}

var _ = Describe("ScheduleRepository", func() {
	var (
		db   *gorm.DB
		repo schedule.Repository
	)

	newSchedule := func(id string) *schedule.Schedule {
		return &schedule.Schedule{
			ID:         id,
			Name:       "Ward Roster",
			OwnerID:    "user-owner",
			CreatedAt:  time.Now(),
			ShiftTypes: append([]string(nil), schedule.DefaultShiftTypes...),
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&scheduleDatamodel.Schedule{},
			&shiftDatamodel.Shift{},
			&collaboratorDatamodel.Collaborator{},
			&historyDatamodel.Entry{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewScheduleRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("stores the schedule with its creation entry", func() {
			err := repo.Create(newSchedule("1234567890"), "user-owner", "created schedule: Ward Roster")
			Expect(err).NotTo(HaveOccurred())

			loaded, err := repo.GetByID("1234567890")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("Ward Roster"))
			Expect(loaded.ShiftTypes).To(Equal(schedule.DefaultShiftTypes))

			var entries []historyDatamodel.Entry
			Expect(db.Where("schedule_id = ?", "1234567890").Find(&entries).Error).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal("created schedule: Ward Roster"))
		})

		It("reports a taken id through the primary key constraint", func() {
			Expect(repo.Create(newSchedule("1234567890"), "user-owner", "created schedule: Ward Roster")).To(Succeed())

			err := repo.Create(newSchedule("1234567890"), "user-other", "created schedule: Other")
			Expect(err).To(MatchError(schedule.ErrScheduleIDUsed))

			// the losing insert leaves no orphan history entry behind
			var count int64
			Expect(db.Model(&historyDatamodel.Entry{}).Where("schedule_id = ?", "1234567890").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("reports unknown ids", func() {
			_, err := repo.GetByID("9999999999")
			Expect(err).To(MatchError(schedule.ErrScheduleNotFound))
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("1111111111"), "user-owner", "created schedule: Ward Roster")).To(Succeed())
			other := newSchedule("2222222222")
			other.OwnerID = "user-other"
			Expect(repo.Create(other, "user-other", "created schedule: Ward Roster")).To(Succeed())

			Expect(db.Create(&collaboratorDatamodel.Collaborator{
				ScheduleID: "2222222222",
				UserID:     "user-owner",
			}).Error).NotTo(HaveOccurred())
		})

		It("lists owned schedules", func() {
			owned, err := repo.ListOwned("user-owner")
			Expect(err).NotTo(HaveOccurred())
			Expect(owned).To(HaveLen(1))
			Expect(owned[0].ID).To(Equal("1111111111"))
		})

		It("lists collaborated schedules through the join", func() {
			collaborated, err := repo.ListCollaborated("user-owner")
			Expect(err).NotTo(HaveOccurred())
			Expect(collaborated).To(HaveLen(1))
			Expect(collaborated[0].ID).To(Equal("2222222222"))
		})
	})

	Describe("UpdateShiftTypes", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("1111111111"), "user-owner", "created schedule: Ward Roster")).To(Succeed())
		})

		It("replaces the stored vocabulary and records it", func() {
			err := repo.UpdateShiftTypes("1111111111", []string{"日班", "夜班"}, "user-owner", "updated shift types")
			Expect(err).NotTo(HaveOccurred())

			loaded, err := repo.GetByID("1111111111")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ShiftTypes).To(Equal([]string{"日班", "夜班"}))

			var entries []historyDatamodel.Entry
			Expect(db.Where("schedule_id = ? AND action = ?", "1111111111", "updated shift types").Find(&entries).Error).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("reports unknown schedules", func() {
			err := repo.UpdateShiftTypes("9999999999", []string{"日班"}, "user-owner", "updated shift types")
			Expect(err).To(MatchError(schedule.ErrScheduleNotFound))
		})
	})

	Describe("DeleteCascade", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("1111111111"), "user-owner", "created schedule: Ward Roster")).To(Succeed())

			Expect(db.Create(&shiftDatamodel.Shift{
				ScheduleID: "1111111111", UserID: "user-owner", Date: "2025-02-01", Shift: "早班",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&collaboratorDatamodel.Collaborator{
				ScheduleID: "1111111111", UserID: "user-collab",
			}).Error).NotTo(HaveOccurred())
		})

		It("removes the schedule with every dependent row", func() {
			Expect(repo.DeleteCascade("1111111111")).To(Succeed())

			_, err := repo.GetByID("1111111111")
			Expect(err).To(MatchError(schedule.ErrScheduleNotFound))

			for _, model := range []interface{}{
				&shiftDatamodel.Shift{},
				&collaboratorDatamodel.Collaborator{},
				&historyDatamodel.Entry{},
			} {
				var count int64
				Expect(db.Model(model).Where("schedule_id = ?", "1111111111").Count(&count).Error).NotTo(HaveOccurred())
				Expect(count).To(BeZero())
			}
		})
	})
})
