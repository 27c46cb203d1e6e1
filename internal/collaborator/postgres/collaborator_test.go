package postgres

import (
	"fmt"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/shift-management/internal/collaborator"
	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"
)

func TestCollaboratorRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collaborator Repository Suite")
}

var _ = Describe("CollaboratorRepository", func() {
	var (
		db   *gorm.DB
		repo collaborator.Repository
	)

	const scheduleID = "1234567890"

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&collaboratorDatamodel.Collaborator{},
			&historyDatamodel.Entry{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewCollaboratorRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("JoinWithCap", func() {
		It("inserts the membership and the audit entry together", func() {
			joined, err := repo.JoinWithCap(scheduleID, "user-1", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())
			Expect(joined).To(BeTrue())

			var entries []historyDatamodel.Entry
			Expect(db.Where("schedule_id = ?", scheduleID).Find(&entries).Error).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal("joined schedule"))
		})

		It("treats a repeated join as a no-op", func() {
			_, err := repo.JoinWithCap(scheduleID, "user-1", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())

			joined, err := repo.JoinWithCap(scheduleID, "user-1", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())
			Expect(joined).To(BeFalse())

			var count int64
			Expect(db.Model(&collaboratorDatamodel.Collaborator{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			// no second history entry either
			Expect(db.Model(&historyDatamodel.Entry{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("rolls back the join that would exceed the cap", func() {
			for i := 0; i < collaborator.MaxCollaborators; i++ {
				joined, err := repo.JoinWithCap(scheduleID, fmt.Sprintf("user-%d", i), collaborator.MaxCollaborators, "joined schedule")
				Expect(err).NotTo(HaveOccurred())
				Expect(joined).To(BeTrue())
			}

			_, err := repo.JoinWithCap(scheduleID, "user-overflow", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).To(MatchError(collaborator.ErrCollaboratorCap))

			var count int64
			Expect(db.Model(&collaboratorDatamodel.Collaborator{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(collaborator.MaxCollaborators)))

			// the aborted join leaves no membership or history behind
			Expect(db.Model(&collaboratorDatamodel.Collaborator{}).Where("user_id = ?", "user-overflow").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
			Expect(db.Model(&historyDatamodel.Entry{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(collaborator.MaxCollaborators)))
		})

		It("scopes the cap per schedule", func() {
			for i := 0; i < collaborator.MaxCollaborators; i++ {
				_, err := repo.JoinWithCap(scheduleID, fmt.Sprintf("user-%d", i), collaborator.MaxCollaborators, "joined schedule")
				Expect(err).NotTo(HaveOccurred())
			}

			joined, err := repo.JoinWithCap("0000000000", "user-elsewhere", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())
			Expect(joined).To(BeTrue())
		})
	})

	Describe("RemoveWithHistory", func() {
		BeforeEach(func() {
			_, err := repo.JoinWithCap(scheduleID, "user-1", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())
		})

		It("deletes the membership and records the removal", func() {
			removed, err := repo.RemoveWithHistory(scheduleID, "user-1", "user-owner", "removed collaborator: 小陳")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			isMember, err := repo.IsCollaborator(scheduleID, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(isMember).To(BeFalse())

			var entries []historyDatamodel.Entry
			Expect(db.Where("action = ?", "removed collaborator: 小陳").Find(&entries).Error).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].UserID).To(Equal("user-owner"))
		})

		It("records nothing for a missing membership", func() {
			removed, err := repo.RemoveWithHistory(scheduleID, "user-ghost", "user-owner", "removed collaborator: ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())

			var count int64
			Expect(db.Model(&historyDatamodel.Entry{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("lockScheduleRow", func() {
		It("emits a FOR UPDATE select against the schedules table on postgres", func() {
			// dry-run postgres handle: builds SQL without a server
			pgDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{
				DSN: "host=localhost user=shift dbname=shift",
			}), &gorm.Config{DisableAutomaticPing: true})
			Expect(err).NotTo(HaveOccurred())

			stmt := pgDB.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return lockScheduleRow(tx, scheduleID)
			})
			Expect(stmt).To(ContainSubstring(`"schedules"`))
			Expect(stmt).To(HaveSuffix("FOR UPDATE"))
		})
	})

	Describe("ListMembers", func() {
		It("joins memberships with user identity attributes", func() {
			Expect(db.Create(&userDatamodel.User{ID: "user-1", Email: "chen@mail.com", Name: "小陳"}).Error).NotTo(HaveOccurred())
			_, err := repo.JoinWithCap(scheduleID, "user-1", collaborator.MaxCollaborators, "joined schedule")
			Expect(err).NotTo(HaveOccurred())

			members, err := repo.ListMembers(scheduleID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(1))
			Expect(members[0].Name).To(Equal("小陳"))
			Expect(members[0].Email).To(Equal("chen@mail.com"))
		})
	})
})
