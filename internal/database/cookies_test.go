package database

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *CookieRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn, err := Open(dsn)
	require.NoError(t, err)
	return NewCookieRepository(conn)
}

func TestCookieRepository_RoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	origin := "http://test-" + time.Now().Format("150405.000000") + "/"
	t.Cleanup(func() { _ = repo.ClearCookies(ctx, origin) })

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.SaveCookies(ctx, origin, []*http.Cookie{
		{Name: "accessToken", Value: "a", Expires: exp},
		{Name: "refreshToken", Value: "r"},
		{Name: "stale", Value: "s", Expires: time.Now().Add(-time.Hour)},
	}))

	got, err := repo.LoadCookies(ctx, origin)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "accessToken", got[0].Name)
	assert.True(t, exp.Equal(got[0].Expires.UTC().Truncate(time.Second)))
	assert.Equal(t, "r", got[1].Value)

	require.NoError(t, repo.SaveCookies(ctx, origin, []*http.Cookie{{Name: "refreshToken", Value: "r2"}}))
	got, err = repo.LoadCookies(ctx, origin)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].Value)

	require.NoError(t, repo.ClearCookies(ctx, origin))
	got, err = repo.LoadCookies(ctx, origin)
	require.NoError(t, err)
	assert.Empty(t, got)
}
