package repository

import (
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory with a sliding TTL.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{cache: cache.New(ttl, cleanup)}
}

func (r *SessionRepository) Create() *model.Session {
	s := model.NewSession(uuid.NewString())
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Find returns the session and extends its expiry.
func (r *SessionRepository) Find(id string) (*model.Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	s, ok := v.(*model.Session)
	if !ok {
		return nil, false
	}
	r.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

func (r *SessionRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
