package models

import "github.com/golang-jwt/jwt/v5"

// ロール名
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User はユーザーのデータベース構造体を表します。
type User struct {
	UserID       string `db:"user_id" json:"userId"`
	PasswordHash string `db:"password_hash" json:"-"` // JSONに出さない
	Role         string `db:"role" json:"role"`
}

// LoginRequest はログインのリクエストです。
type LoginRequest struct {
	UserID   string `json:"userId" display:"帳號" validate:"required,notblank"`
	Password string `json:"password" display:"密碼" validate:"required,notblank"`
}

// LoginResponse はログイン成功時の応答です。ExpiresIn の単位は分です。
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// JWTClaims はトークンに含まれるクレームです。
type JWTClaims struct {
	UniqueName string   `json:"unique_name,omitempty"`
	Roles      []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Principal は認証済みの呼び出し元を表します。
type Principal struct {
	UserID string
	Name   string
	Roles  []string
}

// HasRole は role を持っているかを返します。
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
