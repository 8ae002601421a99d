package service

import (
	"context"
	"strings"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/schema"
)

// WrongBookService 错题本
// 写入是幂等的"有则加一、无则建档"。身份匹配分两档：
// 给了 question_id 只按 (user_id, question_id) 找，未命中不回退到题干；
// 没给才按 (user_id, question_text) 找。这条规则改了会改变对外可见的
// 错误次数，测试里钉死。
type WrongBookService struct {
	repo WrongQuestionStore
	hub  *eventbus.Hub
}

// NewWrongBookService 创建服务
func NewWrongBookService(repo WrongQuestionStore, hub *eventbus.Hub) *WrongBookService {
	return &WrongBookService{repo: repo, hub: hub}
}

// RecordRequest 一次答错上报
type RecordRequest struct {
	UserID        int64
	QuestionID    *int64
	QuestionText  string
	CourseName    string
	YourAnswer    string
	CorrectAnswer string
}

// Record 登记一次答错，返回该题当前的累计错误次数
// 查找和写入之间没有事务护栏：同一身份键并发重复提交时最后写入者
// 的计数生效。这是已知且接受的竞争，不悄悄修掉。
func (s *WrongBookService) Record(ctx context.Context, req RecordRequest) (int, error) {
	existing, err := s.lookup(ctx, req.UserID, req.QuestionID, req.QuestionText)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		newCount := existing.ErrorCount + 1
		if err := s.repo.UpdateErrorCount(ctx, existing.ID, newCount); err != nil {
			return 0, err
		}
		s.publish(req.UserID, newCount)
		return newCount, nil
	}

	wq := &schema.WrongQuestion{
		UserID:        req.UserID,
		QuestionID:    req.QuestionID,
		QuestionText:  req.QuestionText,
		CourseName:    req.CourseName,
		YourAnswer:    req.YourAnswer,
		CorrectAnswer: req.CorrectAnswer,
		ErrorCount:    1,
	}
	if err := s.repo.Create(ctx, wq); err != nil {
		return 0, err
	}
	s.publish(req.UserID, 1)
	return 1, nil
}

// CountFor 只读查询某题的累计错误次数，查不到返回 0
func (s *WrongBookService) CountFor(ctx context.Context, userID int64, questionID *int64, questionText string) (int, error) {
	existing, err := s.lookup(ctx, userID, questionID, questionText)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, nil
	}
	return existing.ErrorCount, nil
}

// lookup 两档身份匹配，question_id 优先且不回退
func (s *WrongBookService) lookup(ctx context.Context, userID int64, questionID *int64, questionText string) (*schema.WrongQuestion, error) {
	if questionID != nil {
		return s.repo.GetByQuestionID(ctx, userID, *questionID)
	}
	if strings.TrimSpace(questionText) != "" {
		return s.repo.GetByQuestionText(ctx, userID, questionText)
	}
	return nil, nil
}

func (s *WrongBookService) publish(userID int64, errorCount int) {
	s.hub.Publish(eventbus.Event{
		Type: "wrong_question.recorded",
		Data: map[string]any{"user_id": userID, "error_count": errorCount},
	})
}

// List 查询用户错题
func (s *WrongBookService) List(ctx context.Context, userID int64, keyword string) ([]schema.WrongQuestion, error) {
	return s.repo.List(ctx, userID, keyword)
}

// ListPaged 分页查询用户错题，可限定课程类别
func (s *WrongBookService) ListPaged(ctx context.Context, userID int64, typeIDs []int, keyword string, page, size int) ([]schema.WrongQuestion, int64, error) {
	return s.repo.ListPaged(ctx, userID, typeIDs, keyword, page, size)
}

// ListByTypeIDs 错题重练：按类别随机抽用户错题
func (s *WrongBookService) ListByTypeIDs(ctx context.Context, userID int64, typeIDs []int, limit int) ([]schema.WrongQuestion, error) {
	if len(typeIDs) == 0 {
		return []schema.WrongQuestion{}, nil
	}
	return s.repo.ListByTypeIDs(ctx, userID, typeIDs, limit)
}

// Delete 删除用户自己的错题
func (s *WrongBookService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
