package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yuqie6/StudyPath/internal/schema"
)

// 课程体系的永久白名单关键词：考研公共课的科目名
var allowKeywords = []string{"数学", "英语", "外语", "政治", "哲学"}

// CategoryService 语义标签到课程类别的解析
// 类别表几乎不变，全部查询走读穿缓存；后台每次改动类别表都会
// 调用 InvalidateCache，正确性只依赖写时失效，不做过期。
type CategoryService struct {
	types CourseTypeStore
	users UserStore

	mu           sync.RWMutex
	idsByKeyword map[string][]int
	nameByID     map[int]string
	allTypes     []schema.CourseType
	typesLoaded  bool
}

// NewCategoryService 创建服务
func NewCategoryService(types CourseTypeStore, users UserStore) *CategoryService {
	s := &CategoryService{types: types, users: users}
	s.resetCache()
	return s
}

func (s *CategoryService) resetCache() {
	s.idsByKeyword = make(map[string][]int)
	s.nameByID = make(map[int]string)
	s.allTypes = nil
	s.typesLoaded = false
}

// InvalidateCache 类别表被修改后必须调用
func (s *CategoryService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCache()
}

// ResolveTypeIDs 解析语义标签为类别 ID 集合
// major → 用户申报的专业类别；math/english/politics → 关键词展开；
// 其余标签一律解析为空集，不算错误。
func (s *CategoryService) ResolveTypeIDs(ctx context.Context, label string, userID int64) ([]int, error) {
	set := make(map[int]struct{})
	switch strings.ToLower(label) {
	case "major":
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user != nil && user.MajorTypeID != nil {
			set[*user.MajorTypeID] = struct{}{}
		}
	case "math":
		if err := s.addKeywordIDs(ctx, set, "数学"); err != nil {
			return nil, err
		}
	case "english":
		if err := s.addKeywordIDs(ctx, set, "英语", "外语"); err != nil {
			return nil, err
		}
	case "politics":
		if err := s.addKeywordIDs(ctx, set, "政治", "哲学"); err != nil {
			return nil, err
		}
	}
	return sortedIDs(set), nil
}

// AllowedSet 某个用户允许看到的推荐范围
// ID 集合与名称关键词二选一命中即放行；两者都为空时不做过滤。
type AllowedSet struct {
	TypeIDs      map[int]struct{}
	NameKeywords []string
}

// Empty 两个分量都为空
func (a AllowedSet) Empty() bool {
	return len(a.TypeIDs) == 0 && len(a.NameKeywords) == 0
}

// IDList 返回 ID 分量的有序切片
func (a AllowedSet) IDList() []int {
	return sortedIDs(a.TypeIDs)
}

// Allows 判断单个候选是否放行
// 先按类别 ID 匹配；ID 缺失或未命中时退到名称关键词包含匹配。
func (a AllowedSet) Allows(typeID int, hasTypeID bool, typeName string) bool {
	if a.Empty() {
		return true
	}
	if hasTypeID {
		if _, ok := a.TypeIDs[typeID]; ok {
			return true
		}
	}
	if typeName != "" {
		for _, kw := range a.NameKeywords {
			if strings.Contains(typeName, kw) {
				return true
			}
		}
	}
	return false
}

// BuildAllowedSet 构建用户的推荐过滤白名单
// ID 分量 = 公共课关键词展开的并集 + 用户专业类别；
// 关键词分量 = 固定关键词 + 专业类别名称（可解析时）。
func (s *CategoryService) BuildAllowedSet(ctx context.Context, userID int64) (AllowedSet, error) {
	ids := make(map[int]struct{})
	for _, kw := range allowKeywords {
		if err := s.addKeywordIDs(ctx, ids, kw); err != nil {
			return AllowedSet{}, err
		}
	}

	keywords := make([]string, len(allowKeywords))
	copy(keywords, allowKeywords)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AllowedSet{}, err
	}
	if user != nil && user.MajorTypeID != nil {
		ids[*user.MajorTypeID] = struct{}{}
		majorName, err := s.typeName(ctx, *user.MajorTypeID)
		if err != nil {
			return AllowedSet{}, err
		}
		if strings.TrimSpace(majorName) != "" {
			keywords = append(keywords, majorName)
		}
	}

	return AllowedSet{TypeIDs: ids, NameKeywords: keywords}, nil
}

// ListCourseTypes 返回全部类别，可按关键词排除
func (s *CategoryService) ListCourseTypes(ctx context.Context, excludeKeywords []string) ([]schema.CourseType, error) {
	types, err := s.loadTypes(ctx)
	if err != nil {
		return nil, err
	}
	if len(excludeKeywords) == 0 {
		return types, nil
	}

	filtered := make([]schema.CourseType, 0, len(types))
	for _, t := range types {
		excluded := false
		for _, kw := range excludeKeywords {
			if kw != "" && strings.Contains(t.TypeName, kw) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// TypeName 类别名称的读穿查询，供外部展示用
func (s *CategoryService) TypeName(ctx context.Context, typeID int) (string, error) {
	return s.typeName(ctx, typeID)
}

func (s *CategoryService) addKeywordIDs(ctx context.Context, set map[int]struct{}, keywords ...string) error {
	for _, kw := range keywords {
		ids, err := s.keywordIDs(ctx, kw)
		if err != nil {
			return err
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return nil
}

func (s *CategoryService) keywordIDs(ctx context.Context, keyword string) ([]int, error) {
	s.mu.RLock()
	ids, ok := s.idsByKeyword[keyword]
	s.mu.RUnlock()
	if ok {
		return ids, nil
	}

	ids, err := s.types.TypeIDsByKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.idsByKeyword[keyword] = ids
	s.mu.Unlock()
	return ids, nil
}

func (s *CategoryService) typeName(ctx context.Context, typeID int) (string, error) {
	s.mu.RLock()
	name, ok := s.nameByID[typeID]
	s.mu.RUnlock()
	if ok {
		return name, nil
	}

	name, err := s.types.TypeNameByID(ctx, typeID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.nameByID[typeID] = name
	s.mu.Unlock()
	return name, nil
}

func (s *CategoryService) loadTypes(ctx context.Context) ([]schema.CourseType, error) {
	s.mu.RLock()
	if s.typesLoaded {
		types := s.allTypes
		s.mu.RUnlock()
		return types, nil
	}
	s.mu.RUnlock()

	types, err := s.types.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.allTypes = types
	s.typesLoaded = true
	s.mu.Unlock()
	return types, nil
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
