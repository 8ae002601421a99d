package schema

import (
	"time"
)

// StudyPlan 学习计划
type StudyPlan struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64      `gorm:"index" json:"user_id"`
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TargetDate  *time.Time `gorm:"type:date" json:"target_date,omitempty"`
	Status      string     `gorm:"size:20;default:pending" json:"status"` // pending / in_progress / completed
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (StudyPlan) TableName() string {
	return "study_plans"
}
