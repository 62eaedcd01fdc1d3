package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	s, err := Dial(context.Background(), mr.Addr(), "test:")
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestStorageRoundTrip(t *testing.T) {
	s, mr := newTestStorage(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("abc", []byte(`{"id":"1"}`), time.Minute))
	assert.True(t, mr.Exists("test:abc"))

	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(val))

	mr.FastForward(2 * time.Minute)

	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorageDeleteAndReset(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:c", "3"))

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("test:a"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other:c"))
}

func TestDialFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Dial(context.Background(), addr, "test:")
	assert.Error(t, err)
}
