package schema

// Student 推荐引擎侧的学生号池
// stu_id 是推荐引擎认识的数字字符串标识，与内部用户 ID 解耦。
// 只增不删：分配过的号永远占用，空洞由下次分配的线性扫描回填。
type Student struct {
	StuID string `gorm:"primaryKey;size:32" json:"stu_id"`
}

// TableName 指定表名
func (Student) TableName() string {
	return "students"
}

// UserStudentMap 内部用户 → 学生号的映射
// 每个用户至多一条，user_id 上的唯一约束是并发首次分配的仲裁点。
type UserStudentMap struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"uniqueIndex" json:"user_id"`
	StuID  string `gorm:"size:32;uniqueIndex" json:"stu_id"`
}

// TableName 指定表名
func (UserStudentMap) TableName() string {
	return "user_student_map"
}
