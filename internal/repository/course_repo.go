package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseRepository 课程目录与行为日志仓储
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建仓储
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CourseRow 带类别名称的课程行
type CourseRow struct {
	CourseIndex int    `json:"course_index"`
	Name        string `json:"name"`
	TypeID      int    `json:"type_id"`
	TypeName    string `json:"type_name"`
	URL         string `json:"url"`
}

// List 按编号顺序返回前 limit 门课程
func (r *CourseRepository) List(ctx context.Context, limit int) ([]CourseRow, error) {
	var rows []CourseRow
	err := r.db.WithContext(ctx).Model(&schema.Course{}).
		Select("courses.course_index, courses.name, courses.type_id, t.type_name, courses.url").
		Joins("LEFT JOIN course_types t ON courses.type_id = t.type_id").
		Order("courses.course_index").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询课程列表失败: %w", err)
	}
	return rows, nil
}

// ListPaged 分页查询课程，mode 为 type 时按类别名称过滤，否则按课程名称
func (r *CourseRepository) ListPaged(ctx context.Context, keyword, mode string, page, size int) ([]CourseRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.Course{}).
		Joins("LEFT JOIN course_types t ON courses.type_id = t.type_id")
	if keyword != "" {
		if mode == "type" {
			q = q.Where("t.type_name LIKE ?", "%"+keyword+"%")
		} else {
			q = q.Where("courses.name LIKE ?", "%"+keyword+"%")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计课程失败: %w", err)
	}

	var rows []CourseRow
	err := q.Select("courses.course_index, courses.name, courses.type_id, t.type_name, courses.url").
		Order("courses.course_index").
		Limit(size).Offset((page - 1) * size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询课程列表失败: %w", err)
	}
	return rows, total, nil
}

// ListTypes 返回全部课程类别
func (r *CourseRepository) ListTypes(ctx context.Context) ([]schema.CourseType, error) {
	var types []schema.CourseType
	err := r.db.WithContext(ctx).Order("type_id").Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("查询课程类别失败: %w", err)
	}
	return types, nil
}

// TypeIDsByKeyword 返回名称包含关键词的类别 ID
func (r *CourseRepository) TypeIDsByKeyword(ctx context.Context, keyword string) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&schema.CourseType{}).
		Where("type_name LIKE ?", "%"+keyword+"%").
		Pluck("type_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("按关键词查询类别失败: %w", err)
	}
	return ids, nil
}

// TypeNameByID 返回类别名称，不存在返回空串
func (r *CourseRepository) TypeNameByID(ctx context.Context, typeID int) (string, error) {
	var ct schema.CourseType
	err := r.db.WithContext(ctx).Where("type_id = ?", typeID).First(&ct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("查询类别名称失败: %w", err)
	}
	return ct.TypeName, nil
}

// RecentTypeNameByUser 用户最近一次交互课程的类别名称，无交互返回空串
func (r *CourseRepository) RecentTypeNameByUser(ctx context.Context, userID int64) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&schema.Interaction{}).
		Select("t.type_name").
		Joins("JOIN courses c ON interactions.course_index = c.course_index").
		Joins("LEFT JOIN course_types t ON c.type_id = t.type_id").
		Joins("JOIN user_student_map m ON m.stu_id = interactions.stu_id").
		Where("m.user_id = ?", userID).
		Order("interactions.time DESC").
		Limit(1).
		Scan(&names).Error
	if err != nil {
		return "", fmt.Errorf("查询近期学习类别失败: %w", err)
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// PopularCourse 热度统计行
type PopularCourse struct {
	CourseIndex int    `json:"course_index"`
	Name        string `json:"name"`
	TypeID      int    `json:"type_id"`
	TypeName    string `json:"type_name"`
	Popularity  int64  `json:"popularity"`
}

// PopularByTypeIDs 在给定类别内按交互次数降序返回课程
// 零交互的课程排在最后，同热度按课程编号升序。
func (r *CourseRepository) PopularByTypeIDs(ctx context.Context, typeIDs []int, limit int) ([]PopularCourse, error) {
	if len(typeIDs) == 0 {
		return []PopularCourse{}, nil
	}
	var rows []PopularCourse
	err := r.db.WithContext(ctx).Model(&schema.Course{}).
		Select("courses.course_index, courses.name, courses.type_id, t.type_name, COUNT(i.id) AS popularity").
		Joins("JOIN course_types t ON courses.type_id = t.type_id").
		Joins("LEFT JOIN interactions i ON courses.course_index = i.course_index").
		Where("courses.type_id IN ?", typeIDs).
		Group("courses.course_index, courses.name, courses.type_id, t.type_name").
		Order("popularity DESC, courses.course_index ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询热门课程失败: %w", err)
	}
	return rows, nil
}

// RecordInteraction 记录一次课程点击，重复点击静默忽略
func (r *CourseRepository) RecordInteraction(ctx context.Context, stuID string, courseIndex int) error {
	rec := schema.Interaction{StuID: stuID, CourseIndex: courseIndex, Time: time.Now()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("记录课程交互失败: %w", err)
	}
	return nil
}

// UpdateURL 更新课程链接
func (r *CourseRepository) UpdateURL(ctx context.Context, courseIndex int, url string) error {
	err := r.db.WithContext(ctx).Model(&schema.Course{}).
		Where("course_index = ?", courseIndex).
		Update("url", url).Error
	if err != nil {
		return fmt.Errorf("更新课程链接失败: %w", err)
	}
	return nil
}

// CreateType 新建课程类别
func (r *CourseRepository) CreateType(ctx context.Context, ct *schema.CourseType) error {
	if err := r.db.WithContext(ctx).Create(ct).Error; err != nil {
		return fmt.Errorf("创建课程类别失败: %w", err)
	}
	return nil
}

// UpdateType 重命名课程类别
func (r *CourseRepository) UpdateType(ctx context.Context, typeID int, typeName string) error {
	err := r.db.WithContext(ctx).Model(&schema.CourseType{}).
		Where("type_id = ?", typeID).
		Update("type_name", typeName).Error
	if err != nil {
		return fmt.Errorf("更新课程类别失败: %w", err)
	}
	return nil
}

// DeleteType 删除课程类别
func (r *CourseRepository) DeleteType(ctx context.Context, typeID int) error {
	err := r.db.WithContext(ctx).Where("type_id = ?", typeID).Delete(&schema.CourseType{}).Error
	if err != nil {
		return fmt.Errorf("删除课程类别失败: %w", err)
	}
	return nil
}
