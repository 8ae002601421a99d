package schema

import (
	"time"
)

// Course 课程目录条目
// 数据量级：千级，后台导入后基本只读
type Course struct {
	CourseIndex int    `gorm:"primaryKey" json:"course_index"` // 与推荐引擎共享的稳定编号
	Name        string `gorm:"size:255;index" json:"name"`
	TypeID      int    `gorm:"index" json:"type_id"`
	URL         string `gorm:"size:512" json:"url"`
}

// TableName 指定表名
func (Course) TableName() string {
	return "courses"
}

// CourseType 课程类别（科目分组）
type CourseType struct {
	TypeID   int    `gorm:"primaryKey" json:"type_id"`
	TypeName string `gorm:"size:64" json:"type_name"`
}

// TableName 指定表名
func (CourseType) TableName() string {
	return "course_types"
}

// Interaction 用户点击课程的行为日志，追加写，热度信号的来源
// 数据量级：十万级
type Interaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StuID       string    `gorm:"size:32;uniqueIndex:uk_stu_course" json:"stu_id"`
	CourseIndex int       `gorm:"uniqueIndex:uk_stu_course" json:"course_index"`
	Time        time.Time `gorm:"index" json:"time"`
}

// TableName 指定表名
func (Interaction) TableName() string {
	return "interactions"
}
