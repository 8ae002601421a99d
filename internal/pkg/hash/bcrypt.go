// Package hash 提供口令散列实现
package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher 基于 bcrypt 的口令散列器
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher 创建散列器，cost 越界时退回 bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
