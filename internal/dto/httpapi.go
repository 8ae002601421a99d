package dto

// 注意：本包承载"对外契约"的 DTO，字段名与前端既有调用保持一致（camelCase）。
// 不要在这里放 GORM/持久化细节；内部持久化 schema 见 internal/schema。

// AuthRequest 注册/登录
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserDTO 对外用户资料
type UserDTO struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	MajorTypeID *int   `json:"majorTypeId"`
}

// MajorTypeRequest 设置专业方向
type MajorTypeRequest struct {
	UserID      int64 `json:"userId"`
	MajorTypeID *int  `json:"majorTypeId"`
}

// ProfileUpdateRequest 修改资料
type ProfileUpdateRequest struct {
	Username    string `json:"username"`
	MajorTypeID *int   `json:"majorTypeId"`
}

// PasswordChangeRequest 修改密码
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// InteractionRequest 上报一次课程交互
type InteractionRequest struct {
	UserID      int64 `json:"userId"`
	CourseIndex int   `json:"courseIndex"`
}

// PlanRequest 创建/更新学习计划
type PlanRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	TargetDate string `json:"targetDate"`
	Status     string `json:"status"`
}

// PlanDTO 对外学习计划
type PlanDTO struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	TargetDate string `json:"targetDate,omitempty"`
	Status     string `json:"status"`
}

// WrongQuestionRequest 上报答错
type WrongQuestionRequest struct {
	UserID        int64  `json:"userId"`
	QuestionID    *int64 `json:"questionId"`
	QuestionText  string `json:"questionText"`
	CourseName    string `json:"courseName"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// WrongQuestionDTO 对外错题记录
type WrongQuestionDTO struct {
	ID            int64  `json:"id"`
	QuestionID    *int64 `json:"questionId"`
	QuestionText  string `json:"questionText"`
	CourseName    string `json:"courseName"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	ErrorCount    int    `json:"errorCount"`
	CreatedAt     string `json:"createdAt"`
}

// QuestionDTO 对外题目，选项保持 JSON 字符串原样透传
type QuestionDTO struct {
	ID          int64  `json:"id"`
	CourseID    int    `json:"courseId"`
	CourseName  string `json:"courseName"`
	Question    string `json:"question"`
	Options     string `json:"options"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// QuestionUpsertRequest 后台新增/修改题目
type QuestionUpsertRequest struct {
	CourseID    int    `json:"courseId"`
	CourseName  string `json:"courseName"`
	Question    string `json:"question"`
	Options     string `json:"options"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// CourseURLRequest 后台维护课程链接
type CourseURLRequest struct {
	URL string `json:"url"`
}

// CourseTypeRequest 后台维护课程类别
type CourseTypeRequest struct {
	TypeName string `json:"typeName"`
}

// AdminUserUpdateRequest 后台修改用户
type AdminUserUpdateRequest struct {
	Username    string `json:"username"`
	MajorTypeID *int   `json:"majorTypeId"`
}

// Page 统一分页壳
type Page struct {
	Content    any   `json:"content"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// NewPage 计算总页数
func NewPage(content any, total int64, page, size int) Page {
	totalPages := int64(0)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	return Page{Content: content, Total: total, TotalPages: totalPages, Page: page, Size: size}
}
