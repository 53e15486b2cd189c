package auth

import (
	"haishublog/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// 原型阶段的固定口令规则，仅用于演示环境
const (
	MockAdminEmail    = "haishublog@example.com"
	mockAdminPassword = "password123"
	mockFallback      = "123456"
)

// Verifier 校验用户凭证。store 只依赖这个契约，
// 换成真实的哈希校验或外部身份源时登录流程不变。
type Verifier interface {
	Verify(user *models.User, credential string) bool
}

// MockVerifier 演示用口令规则：管理员固定一对，其余账户共用后备口令。
// 不做任何哈希，绝不能用于生产环境。
type MockVerifier struct{}

func (MockVerifier) Verify(user *models.User, credential string) bool {
	if user == nil {
		return false
	}
	if user.Email == MockAdminEmail {
		return credential == mockAdminPassword
	}
	return credential == mockFallback
}

// BcryptVerifier 比对用户的 bcrypt 哈希
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(user *models.User, credential string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return CheckPasswordHash(credential, user.PasswordHash)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
