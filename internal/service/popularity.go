package service

import (
	"context"

	"github.com/yuqie6/StudyPath/internal/recommender"
)

// 降级推荐的固定中性分与理由
const (
	fallbackScore  = 0.5
	reasonPopular  = "热门课程推荐"
	reasonSameType = "与你近期学习的科目相同"
	reasonSimilar  = "基于相似用户兴趣推荐"
)

// PopularityRanker 热度兜底排序器
// 类别过滤把推荐清空时，用历史交互量最高的课程顶上。
type PopularityRanker struct {
	courses CourseStore
}

// NewPopularityRanker 创建排序器
func NewPopularityRanker(courses CourseStore) *PopularityRanker {
	return &PopularityRanker{courses: courses}
}

// Rank 在允许的类别内按交互热度取前 limit 门课程
// 类别集合为空时没有排序依据，直接返回空列表。
func (p *PopularityRanker) Rank(ctx context.Context, allowedTypeIDs []int, limit int) ([]recommender.Item, error) {
	if len(allowedTypeIDs) == 0 {
		return []recommender.Item{}, nil
	}

	rows, err := p.courses.PopularByTypeIDs(ctx, allowedTypeIDs, limit)
	if err != nil {
		return nil, err
	}

	items := make([]recommender.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, recommender.Item{
			CourseIndex:    row.CourseIndex,
			Name:           row.Name,
			TypeID:         recommender.Int(row.TypeID),
			TypeName:       row.TypeName,
			PredictedScore: fallbackScore,
			Reason:         reasonPopular,
		})
	}
	return items, nil
}
