package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateFindDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	s := repo.Create()
	require.NotEmpty(t, s.ID)

	found, ok := repo.Find(s.ID)
	require.True(t, ok)
	assert.Same(t, s, found)
	assert.Equal(t, 1, repo.Count())

	repo.Delete(s.ID)
	_, ok = repo.Find(s.ID)
	assert.False(t, ok)
}

func TestSessionRepository_FindUnknown(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	_, ok := repo.Find("")
	assert.False(t, ok)
	_, ok = repo.Find("does-not-exist")
	assert.False(t, ok)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	s := repo.Create()

	time.Sleep(50 * time.Millisecond)
	_, ok := repo.Find(s.ID)
	assert.False(t, ok)
}
