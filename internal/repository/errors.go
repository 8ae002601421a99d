package repository

import (
	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突
// gorm 的 TranslateError 会把驱动层冲突翻译成这个值，
// 服务层用 errors.Is 判断，不直接依赖 gorm。
var ErrDuplicateKey = gorm.ErrDuplicatedKey
