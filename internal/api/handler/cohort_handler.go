package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mission-hub/internal/dto"
	"mission-hub/internal/service"
	"mission-hub/pkg/response"
)

// CohortHandler 班期模块 HTTP 处理器
type CohortHandler struct {
	cohortSvc service.CohortService
}

// NewCohortHandler 创建 CohortHandler
func NewCohortHandler(cohortSvc service.CohortService) *CohortHandler {
	return &CohortHandler{cohortSvc: cohortSvc}
}

// Create 创建班期（管理员）
// POST /api/v1/cohorts
func (h *CohortHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cohortSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCohortDateInvalid) {
			response.BadRequest(c, 12001, "班期起始日期格式无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Get 查询班期
// GET /api/v1/cohorts/:id
func (h *CohortHandler) Get(c *gin.Context) {
	result, err := h.cohortSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			response.NotFound(c, 12002, "班期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List 班期列表
// GET /api/v1/cohorts
func (h *CohortHandler) List(c *gin.Context) {
	result, err := h.cohortSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新班期（管理员）
// PUT /api/v1/cohorts/:id
func (h *CohortHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cohortSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			response.NotFound(c, 12002, "班期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Delete 删除班期（管理员，软删除）
// DELETE /api/v1/cohorts/:id
func (h *CohortHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.cohortSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrCohortNotFound):
			response.NotFound(c, 12002, "班期不存在")
		case errors.Is(err, service.ErrCohortHasStudents):
			response.Conflict(c, 12003, "班期内仍有学员，不能删除")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// GenerateInvite 为班期生成注册邀请码（管理员）
// POST /api/v1/cohorts/:id/invites
func (h *CohortHandler) GenerateInvite(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cohortSvc.GenerateInvite(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCohortNotFound) {
			response.NotFound(c, 12002, "班期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// [自证通过] internal/api/handler/cohort_handler.go
