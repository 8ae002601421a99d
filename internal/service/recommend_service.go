package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/recommender"
)

// RecommendService 个性化推荐编排
// 单次请求的状态流转：取数 → 过滤 → 截断 → (直通 | 热度兜底) → 响应。
// 取数/过滤链路上的任何故障都在这里收口成空列表降级响应，
// 绝不把原始错误抛给传输层。
type RecommendService struct {
	identity   *IdentityService
	categories *CategoryService
	ranker     *PopularityRanker
	courses    CourseStore
	client     RecommenderClient
	hub        *eventbus.Hub
	overFetch  int
}

// NewRecommendService 创建服务
func NewRecommendService(
	identity *IdentityService,
	categories *CategoryService,
	ranker *PopularityRanker,
	courses CourseStore,
	client RecommenderClient,
	hub *eventbus.Hub,
	overFetch int,
) *RecommendService {
	if overFetch <= 0 {
		overFetch = 10
	}
	return &RecommendService{
		identity:   identity,
		categories: categories,
		ranker:     ranker,
		courses:    courses,
		client:     client,
		hub:        hub,
		overFetch:  overFetch,
	}
}

// Result 推荐请求的统一出口
// Payload 总是非空；降级时 Recommendations 为空列表并附带诊断信息。
type Result struct {
	Payload    *recommender.Payload
	NoIdentity bool
	Diagnostic string
}

// OK 是否正常（未降级）
func (r *Result) OK() bool {
	return !r.NoIdentity && r.Diagnostic == ""
}

func emptyPayload() *recommender.Payload {
	return &recommender.Payload{Recommendations: []recommender.Item{}}
}

func degraded(diag string) *Result {
	return &Result{Payload: emptyPayload(), Diagnostic: diag}
}

// GetRecommendations 跑一次端到端推荐
func (s *RecommendService) GetRecommendations(ctx context.Context, userID int64, topN int) *Result {
	if topN <= 0 {
		topN = 10
	}

	// FETCH：建立外部身份
	stuID, err := s.identity.EnsureMapping(ctx, userID)
	if err != nil || stuID == "" {
		slog.Warn("推荐请求无法建立学生号映射", "user_id", userID, "error", err)
		return &Result{Payload: emptyPayload(), NoIdentity: true, Diagnostic: ErrNoExternalIdentity.Error()}
	}

	// 白名单与近期科目整个请求只算一次
	allowed, err := s.categories.BuildAllowedSet(ctx, userID)
	if err != nil {
		slog.Error("构建推荐白名单失败", "user_id", userID, "error", err)
		return degraded(fmt.Sprintf("构建推荐白名单失败: %v", err))
	}
	recentType, err := s.courses.RecentTypeNameByUser(ctx, userID)
	if err != nil {
		slog.Error("查询近期学习类别失败", "user_id", userID, "error", err)
		return degraded(fmt.Sprintf("查询近期学习类别失败: %v", err))
	}

	// 多取 overFetch 倍，吸收类别过滤的损耗。
	// 上游可能在重建模型，这是个分钟级的阻塞网络调用。
	fetchN := topN * s.overFetch
	payload, err := s.client.GetRecommendations(ctx, stuID, fetchN)
	if err != nil {
		slog.Warn("推荐引擎调用失败", "user_id", userID, "stu_id", stuID, "error", err)
		return degraded(fmt.Sprintf("%s: %v", ErrUpstreamUnavailable.Error(), err))
	}

	// FILTER + TRIM：纯过滤再截断，保持上游相关性排序
	filtered := filterAndAnnotate(payload.Recommendations, allowed, recentType)
	if len(filtered) > topN {
		filtered = filtered[:topN]
	}

	// FALLBACK：过滤后为空才触发热度兜底
	if len(filtered) == 0 {
		fallback, err := s.ranker.Rank(ctx, allowed.IDList(), topN)
		if err != nil {
			slog.Error("热度兜底失败", "user_id", userID, "error", err)
			return degraded(fmt.Sprintf("热度兜底失败: %v", err))
		}
		filtered = fallback
	}

	// RESPOND：只替换推荐列表，上游其余字段原样透传
	payload.Recommendations = filtered
	return &Result{Payload: payload}
}

// filterAndAnnotate 按白名单过滤并附加推荐理由
func filterAndAnnotate(items []recommender.Item, allowed AllowedSet, recentType string) []recommender.Item {
	kept := make([]recommender.Item, 0, len(items))
	for _, item := range items {
		if !allowed.Allows(item.TypeID.Value, item.TypeID.Valid, item.TypeName) {
			continue
		}
		if recentType != "" && item.TypeName == recentType {
			item.Reason = reasonSameType
		} else {
			item.Reason = reasonSimilar
		}
		kept = append(kept, item)
	}
	return kept
}

// RecordInteraction 记录一次课程点击
func (s *RecommendService) RecordInteraction(ctx context.Context, userID int64, courseIndex int) error {
	stuID, err := s.identity.EnsureMapping(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.courses.RecordInteraction(ctx, stuID, courseIndex); err != nil {
		return err
	}

	s.hub.Publish(eventbus.Event{
		Type: "interaction.recorded",
		Data: map[string]any{"user_id": userID, "course_index": courseIndex},
	})
	return nil
}

// Evaluate 透传离线评估指标
func (s *RecommendService) Evaluate(ctx context.Context, topK, maxUsers int) (json.RawMessage, error) {
	metrics, err := s.client.GetEvaluation(ctx, topK, maxUsers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return metrics, nil
}
