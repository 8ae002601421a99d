package service

import (
	"errors"
)

// 业务错误分级：
// 映射缺失与上游不可用属于"可降级"错误，推荐链路把它们转成空列表响应；
// 其余错误按持久化失败处理，由传输层统一映射成通用失败。
var (
	// ErrNoExternalIdentity 无法建立或分配学生号映射
	ErrNoExternalIdentity = errors.New("no_student_mapping")
	// ErrUpstreamUnavailable 推荐引擎网络失败或超时
	ErrUpstreamUnavailable = errors.New("recommender_unavailable")
	// ErrUsernameExists 用户名已被占用
	ErrUsernameExists = errors.New("username_exists")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user_not_found")
	// ErrWrongPassword 密码校验未通过
	ErrWrongPassword = errors.New("wrong_password")
)
