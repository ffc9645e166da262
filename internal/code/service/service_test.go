package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/balcaopos/comanda/internal/code/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc codedomain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&codedomain.CodeRecord{}))

	clk := clock.NewFakeClock(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	store := cache.NewStore(clk, cache.DefaultConfig())

	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		DB:    db,
		Repo:  repository.NewRepository(db),
		Cache: store,
	})

	return &env{t: t, ctx: context.Background(), db: db, svc: svc}
}

func (e *env) mark(id int64, inUse bool, visual codedomain.VisualStatus) {
	e.t.Helper()
	require.NoError(e.t, e.db.Model(&codedomain.CodeRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"in_use": inUse, "visual_status": string(visual)}).Error)
}

func TestCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "  c-001  "})
	require.NoError(t, err)
	assert.Equal(t, "C-001", created.Code)
	assert.True(t, created.Active)
	assert.False(t, created.InUse)
	assert.Equal(t, codedomain.VisualLiberado, created.VisualStatus)

	_, err = e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "c-001"})
	assert.ErrorIs(t, err, codedomain.ErrCodeExists)

	_, err = e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "   "})
	assert.ErrorIs(t, err, codedomain.ErrInvalidCode)
}

func TestSetActiveRefusesBusyCode(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-002"})
	require.NoError(t, err)
	e.mark(created.ID, true, codedomain.VisualEmPreparo)

	_, err = e.svc.SetActive(e.ctx, created.ID, false)
	assert.ErrorIs(t, err, codedomain.ErrCodeInUse)

	// Activating while busy is harmless.
	resp, err := e.svc.SetActive(e.ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestForceReleaseNeedsConfirmationForTerminalVisuals(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-003"})
	require.NoError(t, err)
	e.mark(created.ID, false, codedomain.VisualEntregue)

	_, err = e.svc.ForceRelease(e.ctx, created.ID, false)
	assert.ErrorIs(t, err, codedomain.ErrConfirmRequired)

	released, err := e.svc.ForceRelease(e.ctx, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, codedomain.VisualLiberado, released.VisualStatus)
}

func TestForceReleaseRefusesLiveOrders(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-004"})
	require.NoError(t, err)
	e.mark(created.ID, true, codedomain.VisualAberto)

	_, err = e.svc.ForceRelease(e.ctx, created.ID, true)
	assert.ErrorIs(t, err, codedomain.ErrCodeInUse)
}

func TestDeleteOnlyWhenFree(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-005"})
	require.NoError(t, err)
	e.mark(created.ID, true, codedomain.VisualAberto)

	assert.ErrorIs(t, e.svc.Delete(e.ctx, created.ID), codedomain.ErrCodeInUse)

	e.mark(created.ID, false, codedomain.VisualLiberado)
	require.NoError(t, e.svc.Delete(e.ctx, created.ID))

	_, err = e.svc.Get(e.ctx, created.ID)
	assert.ErrorIs(t, err, codedomain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	e := newEnv(t)

	first, err := e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-010"})
	require.NoError(t, err)
	inactive := false
	_, err = e.svc.Create(e.ctx, codedomain.CreateRequest{Code: "C-011", Active: &inactive})
	require.NoError(t, err)
	e.mark(first.ID, true, codedomain.VisualAberto)

	busy := true
	list, err := e.svc.List(e.ctx, codedomain.ListFilter{InUse: &busy})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "C-010", list[0].Code)

	active := true
	list, err = e.svc.List(e.ctx, codedomain.ListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "C-010", list[0].Code)
}
