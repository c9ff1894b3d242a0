package config

import (
	"sync"
	"time"
)

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

var (
	sessionConfig *SessionConfig
	sessionOnce   sync.Once
)

func LoadSessionConfig() *SessionConfig {
	sessionOnce.Do(func() {
		sessionConfig = &SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "job_coach_session"),
			TTL:        getEnvDuration("SESSION_TTL", 12*time.Hour),
		}
	})
	return sessionConfig
}
