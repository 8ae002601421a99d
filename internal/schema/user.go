package schema

import (
	"time"
)

// User 平台用户账号
// 数据量级：万级
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar,omitempty"`     // 头像相对路径，如 /uploads/user_1_xxx.png
	MajorTypeID  *int      `gorm:"index" json:"major_type_id,omitempty"` // 用户申报的专业类别，未申报为 NULL
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Admin 后台管理员账号
type Admin struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
