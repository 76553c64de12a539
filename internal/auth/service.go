// Package auth は固定資格情報による管理者ログインとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	AdminEmail        string // 管理者メールアドレス（完全一致で比較する）
	AdminPasswordHash string // パスワードのSHA-256（16進小文字）
	SessionMaxAge     int    // セッション有効期間（秒）
}

// Admin はログイン中の管理者を表す。
type Admin struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	sessionRepo repository.SessionRepository
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(sessionRepo repository.SessionRepository, config ServiceConfig) *Service {
	config.AdminPasswordHash = strings.ToLower(strings.TrimSpace(config.AdminPasswordHash))
	return &Service{
		sessionRepo: sessionRepo,
		config:      config,
		now:         time.Now,
	}
}

// HashPassword はパスワードのSHA-256を16進文字列で返す。
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login は資格情報を検証し、成功した場合はセッションを発行する。
// メールアドレスとパスワードのどちらが誤っているかは区別せずINVALID_CREDENTIALSを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if !s.verify(email, password) {
		slog.Warn("admin login rejected", slog.String("email", email))
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, s.config.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("admin logged in", slog.String("email", email))
	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out", slog.String("session_id", sessionID))
	return nil
}

// Current はセッションから現在の管理者を取得する。
// セッションが存在しないか期限切れの場合はUNAUTHORIZEDを返す。
func (s *Service) Current(ctx context.Context, sessionID string) (*Admin, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	return &Admin{Email: session.Subject, ExpiresAt: session.ExpiresAt}, nil
}

// verify はメールアドレスを完全一致で、パスワードハッシュを定数時間で比較する。
// ハッシュ未設定の場合は常に失敗する。
func (s *Service) verify(email, password string) bool {
	if s.config.AdminEmail == "" || s.config.AdminPasswordHash == "" {
		return false
	}
	hashed := HashPassword(password)
	hashOK := subtle.ConstantTimeCompare([]byte(hashed), []byte(s.config.AdminPasswordHash)) == 1
	return email == s.config.AdminEmail && hashOK
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, subject string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		Subject:   subject,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
