package schema

// CourseQuestion 课程配套的测验题
// options 为 JSON 字符串，由前端解析
type CourseQuestion struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID    int    `gorm:"index" json:"course_id"`
	CourseName  string `gorm:"size:255" json:"course_name"`
	Question    string `gorm:"type:text" json:"question"`
	Options     string `gorm:"type:text" json:"options"`
	Answer      string `gorm:"size:255" json:"answer"`
	Explanation string `gorm:"type:text" json:"explanation"`
}

// TableName 指定表名
func (CourseQuestion) TableName() string {
	return "course_questions"
}
