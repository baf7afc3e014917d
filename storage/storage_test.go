package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionEntry{}))
	return db
}

func exerciseStore(t *testing.T, s Store) {
	_, ok, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyCart, "[]"))
	v, ok, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Set(KeyCart, `[{"id":1}]`))
	v, _, _ = s.Get(KeyCart)
	assert.Equal(t, `[{"id":1}]`, v)

	require.NoError(t, s.Delete(KeyCart))
	_, ok, _ = s.Get(KeyCart)
	assert.False(t, ok)

	// deleting a missing key is fine
	assert.NoError(t, s.Delete(KeyCart))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestGormStore(t *testing.T) {
	exerciseStore(t, NewGormProvider(setupTestDB(t)).Scope("sess-1"))
}

func TestGormStoreScopesAreIsolated(t *testing.T) {
	p := NewGormProvider(setupTestDB(t))
	a, b := p.Scope("a"), p.Scope("b")

	require.NoError(t, a.Set(KeyActiveCoupon, "SUMMER25"))
	_, ok, err := b.Get(KeyActiveCoupon)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := p.Purge(time.Now().Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func backdate(t *testing.T, db *gorm.DB, sessionID, key string, at time.Time) {
	err := db.Model(&models.SessionEntry{}).
		Where("session_id = ? AND entry_key = ?", sessionID, key).
		UpdateColumn("updated_at", at).Error
	require.NoError(t, err)
}

func TestGormPurgeKeepsSessionsWhole(t *testing.T) {
	db := setupTestDB(t)
	p := NewGormProvider(db)
	now := time.Now()
	old := now.Add(-800 * time.Hour)
	cutoff := now.Add(-720 * time.Hour)

	// live: an old coupon next to a fresh cart
	live := p.Scope("live")
	require.NoError(t, live.Set(KeyActiveCoupon, "SUMMER25"))
	require.NoError(t, live.Set(KeyCart, `[{"id":1}]`))
	backdate(t, db, "live", KeyActiveCoupon, old)

	stale := p.Scope("stale")
	require.NoError(t, stale.Set(KeyCart, `[]`))
	require.NoError(t, stale.Set(KeySavedCoupons, `["FREEDEL"]`))
	backdate(t, db, "stale", KeyCart, old)
	backdate(t, db, "stale", KeySavedCoupons, old)

	// idle in storage but still loaded in memory
	loaded := p.Scope("loaded")
	require.NoError(t, loaded.Set(KeyCart, `[]`))
	backdate(t, db, "loaded", KeyCart, old)

	n, err := p.Purge(cutoff, []string{"loaded"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v, ok, err := live.Get(KeyActiveCoupon)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SUMMER25", v)
	_, ok, _ = live.Get(KeyCart)
	assert.True(t, ok)

	_, ok, _ = stale.Get(KeyCart)
	assert.False(t, ok)
	_, ok, _ = stale.Get(KeySavedCoupons)
	assert.False(t, ok)

	_, ok, _ = loaded.Get(KeyCart)
	assert.True(t, ok)
}

func TestMemoryStoreFailWrites(t *testing.T) {
	s := NewMemoryStore()
	s.FailWrites = true
	assert.ErrorIs(t, s.Set("k", "v"), ErrWriteFailed)
	assert.ErrorIs(t, s.Delete("k"), ErrWriteFailed)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryProvider().Scope("x")

	var codes []string
	found, err := GetJSON(s, KeySavedCoupons, &codes)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(s, KeySavedCoupons, []string{"FREEDEL"}))
	found, err = GetJSON(s, KeySavedCoupons, &codes)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"FREEDEL"}, codes)

	require.NoError(t, s.Set(KeySavedCoupons, "{broken"))
	found, err = GetJSON(s, KeySavedCoupons, &codes)
	assert.True(t, found)
	assert.Error(t, err)
}
