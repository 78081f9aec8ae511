package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBolt(t *testing.T) (*BoltStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	s, err := NewBoltStorage(StorageConfig{DBPath: path})
	require.NoError(t, err)
	return s, path
}

func TestBoltStorage(t *testing.T) {
	s, path := newTestBolt(t)
	defer s.Close()

	t.Run("MissingKey", func(t *testing.T) {
		v, err := s.Get("absent")
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("PutAndGet", func(t *testing.T) {
		require.NoError(t, s.Put("history", []byte(`[{"id":"1"}]`)))

		v, err := s.Get("history")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(v))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Put("history", []byte(`[]`)))

		v, err := s.Get("history")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(v))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete("history"))
		require.NoError(t, s.Delete("history"))

		v, err := s.Get("history")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("Path", func(t *testing.T) {
		assert.Equal(t, path, s.Path())
	})
}

func TestBoltStorageSurvivesReopen(t *testing.T) {
	s, path := newTestBolt(t)
	require.NoError(t, s.Put("k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := NewBoltStorage(StorageConfig{DBPath: path})
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestBoltStorageClosed(t *testing.T) {
	s, _ := newTestBolt(t)
	require.NoError(t, s.Close())

	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put("k", []byte("v")), ErrClosed)
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage()

	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)

	value := []byte("v")
	require.NoError(t, m.Put("k", value))
	value[0] = 'x'

	v, err = m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))

	require.NoError(t, m.Delete("k"))
	v, _ = m.Get("k")
	assert.Nil(t, v)
}
