package dto

// ── 追踪统计响应（均为派生数据，不落库） ──

// CohortWeekStat 某班期内单个任务（按周次排列）的完成统计
type CohortWeekStat struct {
	MissionID      string `json:"mission_id"`
	Week           int    `json:"week"`
	Title          string `json:"title"`
	TotalStudents  int    `json:"total_students"`
	SubmittedCount int    `json:"submitted_count"`
	SubmissionRate int    `json:"submission_rate"` // 整数百分比
	Trend          string `json:"trend"`           // up | down | stable
}

// StudentStat 单个学员的完成统计
type StudentStat struct {
	StudentID      string `json:"student_id"`
	DisplayName    string `json:"display_name"`
	SubmittedCount int    `json:"submitted_count"`
	TotalMissions  int    `json:"total_missions"`
	SubmissionRate int    `json:"submission_rate"`
}

// CohortWeeklyStatsResponse 班期周统计响应
type CohortWeeklyStatsResponse struct {
	CohortID    string           `json:"cohort_id"`
	OverallRate int              `json:"overall_rate"` // 各任务完成率的平均值
	Weeks       []CohortWeekStat `json:"weeks"`
}

// StudentBreakdownResponse 班期学员明细响应
type StudentBreakdownResponse struct {
	CohortID string        `json:"cohort_id"`
	Students []StudentStat `json:"students"`
}

// [自证通过] internal/dto/tracking.go
