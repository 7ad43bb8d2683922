package dto

// ── 班期模块请求 ──

// CreateCohortRequest 创建班期请求
type CreateCohortRequest struct {
	Name      string `json:"name"       binding:"required,max=100"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD，第 1 周起始日
}

// UpdateCohortRequest 更新班期请求
type UpdateCohortRequest struct {
	Name   string `json:"name"   binding:"max=100"`
	Status string `json:"status" binding:"omitempty,oneof=active archived"`
}

// GenerateInviteRequest 生成邀请码请求
type GenerateInviteRequest struct {
	ExpiresInHours int `json:"expires_in_hours" binding:"required,min=1,max=720"`
}

// ── 班期模块响应 ──

// CohortResponse 班期响应
type CohortResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// InviteResponse 邀请码响应
type InviteResponse struct {
	InviteCode string `json:"invite_code"`
	InviteURL  string `json:"invite_url"`
	ExpiresAt  string `json:"expires_at"`
}

// [自证通过] internal/dto/cohort.go
