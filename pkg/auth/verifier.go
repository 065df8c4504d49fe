package auth

import "crypto/subtle"

// TokenVerifier 管理端凭证校验
type TokenVerifier interface {
	Verify(token string) bool
}

// StaticVerifier 进程级静态令牌校验
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier 创建静态令牌校验器
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

// Verify 常量时间比较令牌
func (v *StaticVerifier) Verify(token string) bool {
	if len(v.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), v.secret) == 1
}
