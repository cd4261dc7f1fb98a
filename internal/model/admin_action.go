package model

import (
	"encoding/json"
	"time"
)

// AdminAction 操作审计表 — 对应 admin_actions
// 只写不改，记录管理员对数据的每次变更（含一次完整的批量导入）
type AdminAction struct {
	ID          string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AdminCode   string          `gorm:"type:text;not null"                             json:"admin_code"`
	TableName_  string          `gorm:"column:table_name;type:text;not null"           json:"table_name"`
	Operation   string          `gorm:"type:text;not null"                             json:"operation"`
	ChangedData json.RawMessage `gorm:"type:jsonb"                                     json:"changed_data,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AdminAction) TableName() string { return "admin_actions" }
