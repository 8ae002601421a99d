package schema

import (
	"time"
)

// WrongQuestion 错题本记录
// 身份键：有 question_id 用 (user_id, question_id)，否则退回
// (user_id, question_text)。每个身份键至多一条，error_count 只增不减。
type WrongQuestion struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"index" json:"user_id"`
	QuestionID    *int64    `gorm:"index" json:"question_id,omitempty"`
	QuestionText  string    `gorm:"type:text" json:"question_text"`
	CourseName    string    `gorm:"size:255" json:"course_name"`
	YourAnswer    string    `gorm:"size:255" json:"your_answer"`
	CorrectAnswer string    `gorm:"size:255" json:"correct_answer"`
	ErrorCount    int       `gorm:"default:1" json:"error_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (WrongQuestion) TableName() string {
	return "wrong_questions"
}
