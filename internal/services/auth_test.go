package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	as, err := NewAuthService(logger.Nop(), "secret", "coursecraft")
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	user := uuid.New()
	tok, err := as.IssueToken(user, RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	actor := ctxutil.GetActor(ctx)
	if actor == nil || actor.UserID != user || actor.Role != RoleAdmin {
		t.Fatalf("actor: %+v", actor)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	as, _ := NewAuthService(logger.Nop(), "secret", "coursecraft")
	other, _ := NewAuthService(logger.Nop(), "other-secret", "coursecraft")
	foreign, _ := NewAuthService(logger.Nop(), "secret", "someone-else")

	expired, _ := as.IssueToken(uuid.New(), RoleAdmin, -time.Minute)
	wrongKey, _ := other.IssueToken(uuid.New(), RoleAdmin, time.Minute)
	wrongIssuer, _ := foreign.IssueToken(uuid.New(), RoleAdmin, time.Minute)
	nilUser, _ := as.IssueToken(uuid.Nil, RoleAdmin, time.Minute)

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong_key":    wrongKey,
		"wrong_issuer": wrongIssuer,
		"nil_user":     nilUser,
	} {
		if _, err := as.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	if _, err := NewAuthService(logger.Nop(), " ", ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
