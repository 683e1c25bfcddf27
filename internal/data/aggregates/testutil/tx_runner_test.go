package testutil

import (
	"context"
	"errors"
	"testing"

	repotestutil "github.com/yungbote/coursecraft-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursecraft-backend/internal/domain"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("connection refused")
	r := &InjectedTxRunner{FailBegin: beginErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin err, got %v", err)
	}
}

func TestInjectedTxRunner_FailCommitDiscardsWrites(t *testing.T) {
	db := repotestutil.DB(t)
	ctx := context.Background()
	course := repotestutil.SeedCourse(t, ctx, db)

	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{DB: db, FailCommit: commitErr}
	err := r.InTx(ctx, func(dbc dbctx.Context) error {
		return dbc.Tx.Model(&types.Course{}).Where("id = ?", course.ID).Update("title", "renamed").Error
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}

	var got types.Course
	if err := db.Where("id = ?", course.ID).First(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Title != course.Title {
		t.Fatalf("write survived injected commit failure: title=%q", got.Title)
	}
}
