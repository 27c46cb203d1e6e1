package schedule_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/collaborator"
	collaboratorPostgres "github.com/frahmantamala/shift-management/internal/collaborator/postgres"
	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-management/internal/core/events"
	"github.com/frahmantamala/shift-management/internal/history"
	historyPostgres "github.com/frahmantamala/shift-management/internal/history/postgres"
	"github.com/frahmantamala/shift-management/internal/schedule"
	schedulePostgres "github.com/frahmantamala/shift-management/internal/schedule/postgres"
	"github.com/frahmantamala/shift-management/internal/shift"
	shiftPostgres "github.com/frahmantamala/shift-management/internal/shift/postgres"
	"github.com/frahmantamala/shift-management/internal/user"
	userPostgres "github.com/frahmantamala/shift-management/internal/user/postgres"
)

var _ = Describe("Schedule Handler Integration", func() {
	var (
		db       *gorm.DB
		handler  *schedule.Handler
		shiftSvc *shift.Service
		collSvc  *collaborator.Service
	)

	const (
		ownerID  = "user-owner"
		collabID = "user-collab"
	)

	withPrincipal := func(req *http.Request, userID string) *http.Request {
		ctx := internal.ContextWithPrincipal(req.Context(), &internal.Principal{ID: userID})
		return req.WithContext(ctx)
	}

	withURLParam := func(req *http.Request, key, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(key, value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&scheduleDatamodel.Schedule{},
			&shiftDatamodel.Shift{},
			&collaboratorDatamodel.Collaborator{},
			&historyDatamodel.Entry{},
		)
		Expect(err).NotTo(HaveOccurred())

		userRepo := userPostgres.NewUserRepository(db)
		scheduleRepo := schedulePostgres.NewScheduleRepository(db)
		shiftRepo := shiftPostgres.NewShiftRepository(db)
		collaboratorRepo := collaboratorPostgres.NewCollaboratorRepository(db)
		historyRepo := historyPostgres.NewHistoryRepository(db)

		access := schedule.NewAccess(collaboratorRepo)
		userService := user.NewService(userRepo, slogger)
		historyService := history.NewService(historyRepo, userService, slogger)
		shiftSvc = shift.NewService(shiftRepo, scheduleRepo, access, events.NewEventBus(slogger), slogger)
		collSvc = collaborator.NewService(collaboratorRepo, scheduleRepo, access, userService, slogger)
		scheduleService := schedule.NewService(scheduleRepo, access, shiftSvc, collSvc, historyService, userService, slogger)

		handler = schedule.NewHandler(scheduleService)

		_, err = userService.EnsureExists(ownerID, "wang@mail.com", "小王")
		Expect(err).NotTo(HaveOccurred())
		_, err = userService.EnsureExists(collabID, "chen@mail.com", "小陳")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	createSchedule := func(name string) *schedule.Schedule {
		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(`{"name":"`+name+`"}`))
		req = withPrincipal(req, ownerID)
		w := httptest.NewRecorder()

		handler.CreateSchedule(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created schedule.Schedule
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		return &created
	}

	Describe("POST /schedules", func() {
		It("creates a schedule with a ten-digit id and the default vocabulary", func() {
			created := createSchedule("Ward Roster")

			Expect(created.ID).To(MatchRegexp(`^[0-9]{10}$`))
			Expect(created.Name).To(Equal("Ward Roster"))
			Expect(created.OwnerID).To(Equal(ownerID))
			Expect(created.ShiftTypes).To(Equal(schedule.DefaultShiftTypes))
		})

		It("rejects an empty name", func() {
			req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(`{"name":"  "}`))
			req = withPrincipal(req, ownerID)
			w := httptest.NewRecorder()

			handler.CreateSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects requests without a principal", func() {
			req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(`{"name":"Ward Roster"}`))
			w := httptest.NewRecorder()

			handler.CreateSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("escapes markup in the schedule name", func() {
			created := createSchedule("<b>Roster</b>")
			Expect(created.Name).NotTo(ContainSubstring("<b>"))
		})
	})

	Describe("GET /schedules/{id}", func() {
		It("returns the assembled view for the owner", func() {
			created := createSchedule("Ward Roster")

			req := httptest.NewRequest(http.MethodGet, "/schedules/"+created.ID, nil)
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.ViewSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var view schedule.ViewDTO
			Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
			Expect(view.Role).To(Equal("owner"))
			Expect(view.Schedule.ID).To(Equal(created.ID))
			Expect(view.History).To(HaveLen(1))
			Expect(view.History[0].Action).To(Equal("created schedule: Ward Roster"))
		})

		It("denies strangers", func() {
			created := createSchedule("Ward Roster")

			req := httptest.NewRequest(http.MethodGet, "/schedules/"+created.ID, nil)
			req = withPrincipal(req, collabID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.ViewSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("reports unknown schedules", func() {
			req := httptest.NewRequest(http.MethodGet, "/schedules/9999999999", nil)
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", "9999999999")
			w := httptest.NewRecorder()

			handler.ViewSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PUT /schedules/{id}/shift-types", func() {
		It("lets the owner replace the vocabulary", func() {
			created := createSchedule("Ward Roster")

			req := httptest.NewRequest(http.MethodPut, "/schedules/"+created.ID+"/shift-types",
				strings.NewReader(`{"shift_types":["日班","夜班"]}`))
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.UpdateShiftTypes(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var updated schedule.Schedule
			Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
			Expect(updated.ShiftTypes).To(Equal([]string{"日班", "夜班"}))
		})

		It("rejects a collaborator", func() {
			created := createSchedule("Ward Roster")
			Expect(db.Create(&collaboratorDatamodel.Collaborator{
				ScheduleID: created.ID,
				UserID:     collabID,
			}).Error).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPut, "/schedules/"+created.ID+"/shift-types",
				strings.NewReader(`{"shift_types":["日班"]}`))
			req = withPrincipal(req, collabID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.UpdateShiftTypes(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("rejects an empty vocabulary", func() {
			created := createSchedule("Ward Roster")

			req := httptest.NewRequest(http.MethodPut, "/schedules/"+created.ID+"/shift-types",
				strings.NewReader(`{"shift_types":[]}`))
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.UpdateShiftTypes(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /schedules/{id}", func() {
		It("lets only the owner delete", func() {
			created := createSchedule("Ward Roster")
			Expect(db.Create(&collaboratorDatamodel.Collaborator{
				ScheduleID: created.ID,
				UserID:     collabID,
			}).Error).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodDelete, "/schedules/"+created.ID, nil)
			req = withPrincipal(req, collabID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.DeleteSchedule(w, req)
			Expect(w.Code).To(Equal(http.StatusForbidden))

			req = httptest.NewRequest(http.MethodDelete, "/schedules/"+created.ID, nil)
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", created.ID)
			w = httptest.NewRecorder()

			handler.DeleteSchedule(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var count int64
			Expect(db.Model(&scheduleDatamodel.Schedule{}).Where("id = ?", created.ID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("collaboration flow", func() {
		It("carries a schedule from creation through a denied cross-delete", func() {
			const scheduleID = "0000000001"

			// owner creates the schedule under a proposed id
			req := httptest.NewRequest(http.MethodPost, "/schedules",
				strings.NewReader(`{"name":"Team A","schedule_id":"`+scheduleID+`"}`))
			req = withPrincipal(req, ownerID)
			w := httptest.NewRecorder()
			handler.CreateSchedule(w, req)
			Expect(w.Code).To(Equal(http.StatusCreated))

			// collaborator joins and adds a vocabulary shift
			status, err := collSvc.Join(collabID, scheduleID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(collaborator.JoinStatusJoined))

			_, err = shiftSvc.Add(context.Background(), collabID, scheduleID, shift.CreateShiftDTO{
				Date:  "2025-06-01",
				Shift: "早班",
			})
			Expect(err).NotTo(HaveOccurred())

			// the trail holds exactly those three actions, oldest first
			req = httptest.NewRequest(http.MethodGet, "/schedules/"+scheduleID, nil)
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", scheduleID)
			w = httptest.NewRecorder()
			handler.ViewSchedule(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var view schedule.ViewDTO
			Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
			Expect(view.History).To(HaveLen(3))

			actions := make([]string, len(view.History))
			for i, entry := range view.History {
				// history lists newest first
				actions[len(actions)-1-i] = entry.Action
			}
			Expect(actions).To(Equal([]string{
				"created schedule: Team A",
				"joined schedule",
				"added shift: 2025-06-01 早班",
			}))

			// the collaborator cannot remove the owner's shift
			ownerShift, err := shiftSvc.Add(context.Background(), ownerID, scheduleID, shift.CreateShiftDTO{
				Date:  "2025-06-02",
				Shift: "晚班",
			})
			Expect(err).NotTo(HaveOccurred())

			err = shiftSvc.Remove(collabID, scheduleID, ownerShift.ID)
			Expect(err).To(MatchError(schedule.ErrNotAuthorized))

			// the denied attempt leaves no trace in the trail
			var count int64
			Expect(db.Model(&historyDatamodel.Entry{}).Where("schedule_id = ?", scheduleID).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(4)))
		})
	})

	Describe("GET /schedules/{id}/export", func() {
		It("returns the owner snapshot", func() {
			created := createSchedule("Ward Roster")

			req := httptest.NewRequest(http.MethodGet, "/schedules/"+created.ID+"/export", nil)
			req = withPrincipal(req, ownerID)
			req = withURLParam(req, "id", created.ID)
			w := httptest.NewRecorder()

			handler.ExportSchedule(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var export schedule.ExportDTO
			Expect(json.NewDecoder(w.Body).Decode(&export)).To(Succeed())
			Expect(export.ScheduleID).To(Equal(created.ID))
			Expect(export.Owner).To(Equal("小王"))
		})
	})
})
