// Package token issues and validates the access/refresh token pair.
package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// Token type claim values.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const revokedTokenPrefix = "at:revoked:"

// Claims is the JWT payload shared by both token types.
type Claims struct {
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens. Access tokens are stateless HMAC JWTs
// with an optional redis revocation set; refresh tokens are additionally
// persisted so logout can revoke them.
type Service struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	refreshRepo domainRepo.RefreshTokenRepository
	redis       *redis.Client
	logger      *zap.Logger
}

// NewService creates a token service. redisClient may be nil; access token
// revocation then degrades to expiry-only.
func NewService(cfg config.JWTConfig, refreshRepo domainRepo.RefreshTokenRepository, redisClient *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		secret:      []byte(cfg.Secret),
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		refreshRepo: refreshRepo,
		redis:       redisClient,
		logger:      logger,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) sign(username, tokenType string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// GenerateAccessToken issues a new access token for the user.
func (s *Service) GenerateAccessToken(username string) (string, error) {
	return s.sign(username, TypeAccess, s.accessTTL, time.Now())
}

// GenerateRefreshToken issues a refresh token and persists it for revocation.
func (s *Service) GenerateRefreshToken(ctx context.Context, username string) (string, error) {
	now := time.Now()
	signed, err := s.sign(username, TypeRefresh, s.refreshTTL, now)
	if err != nil {
		return "", err
	}

	record := &model.RefreshToken{
		Username:  username,
		Token:     signed,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return "", err
	}

	return signed, nil
}

func (s *Service) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", nil)
	}
	return claims, nil
}

// ValidateAccessToken verifies signature, expiry, token type and the redis
// revocation set.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeAccess {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", nil)
	}
	if s.isAccessTokenRevoked(ctx, tokenStr) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", nil)
	}
	return claims, nil
}

// ValidateRefreshToken verifies the JWT and the persisted record.
func (s *Service) ValidateRefreshToken(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeRefresh {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", nil)
	}

	record, err := s.refreshRepo.GetByToken(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Revoked || time.Now().After(record.ExpiresAt) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid or expired token", nil)
	}

	return claims, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.GenerateAccessToken(claims.Username)
}

// RevokeRefreshToken marks the persisted refresh token revoked.
func (s *Service) RevokeRefreshToken(ctx context.Context, tokenStr string) error {
	return s.refreshRepo.Revoke(ctx, tokenStr)
}

// RevokeAllRefreshTokens revokes every outstanding refresh token of a user,
// e.g. after a password reset.
func (s *Service) RevokeAllRefreshTokens(ctx context.Context, username string) error {
	return s.refreshRepo.RevokeAllForUser(ctx, username)
}

// RevokeAccessToken adds the access token to the redis revocation set with a
// TTL equal to the remaining token lifetime upper bound.
func (s *Service) RevokeAccessToken(ctx context.Context, tokenStr string) error {
	if s.redis == nil {
		return nil
	}
	hash := sha256.Sum256([]byte(tokenStr))
	key := revokedTokenPrefix + hex.EncodeToString(hash[:])
	if err := s.redis.Set(ctx, key, "true", s.accessTTL).Err(); err != nil {
		s.logger.Warn("Failed to record revoked access token", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) isAccessTokenRevoked(ctx context.Context, tokenStr string) bool {
	if s.redis == nil {
		return false
	}
	hash := sha256.Sum256([]byte(tokenStr))
	key := revokedTokenPrefix + hex.EncodeToString(hash[:])
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		// Revocation is best-effort; an unreachable redis must not take
		// authentication down with it.
		s.logger.Warn("Failed to check token revocation", zap.Error(err))
		return false
	}
	return n > 0
}
