package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/models"
)

// minSignKeyLength は HS256 に必要な鍵の最小バイト数です。
const minSignKeyLength = 32

var (
	ErrSignKeyTooShort = fmt.Errorf("JWT sign key must be at least %d bytes", minSignKeyLength)
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenSignature  = errors.New("token signature invalid")
	ErrTokenAudience   = errors.New("token issuer or audience invalid")
	ErrTokenInvalid    = errors.New("token invalid")
)

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewJWTService は新しいJWTServiceを作成します。署名鍵が短すぎる場合はエラーを返します。
func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if len(cfg.SignKey) < minSignKeyLength {
		return nil, ErrSignKeyTooShort
	}
	if cfg.ExpireMinutes <= 0 {
		return nil, fmt.Errorf("JWT expire minutes must be positive, got %d", cfg.ExpireMinutes)
	}
	return &JWTService{cfg: cfg, now: time.Now}, nil
}

// WithClock は時刻の取得元を差し替えます。
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// ExpiresIn はトークンの有効期間 (分) を返します。
func (s *JWTService) ExpiresIn() int {
	return s.cfg.ExpireMinutes
}

// GenerateToken はJWTトークンを生成します。
// displayName が空の場合は userID を表示名に使い、roles はそれぞれ role クレームになります。
func (s *JWTService) GenerateToken(userID, displayName string, roles ...string) (string, error) {
	if len(s.cfg.SignKey) < minSignKeyLength {
		return "", ErrSignKeyTooShort
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if displayName == "" {
		displayName = userID
	}

	now := s.now()
	claims := models.JWTClaims{
		UniqueName: displayName,
		Roles:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.ExpireMinutes) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SignKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
// 失敗理由は ErrTokenExpired などのエラーで識別できます。
func (s *JWTService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.SignKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, fmt.Errorf("%w: %v", ErrTokenAudience, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}
