// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session has expired or was revoked.
var ErrSessionNotFound = errors.New("session not found")

// Manager keeps login sessions in Redis, keyed by user and token id.
type Manager struct {
	client *redis.Client
	now    func() time.Time
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{
		client: client,
		now:    time.Now,
	}
}

// CreateSession stores a new session in Redis until the token expires
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	ttl := session.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.client.Set(ctx, m.sessionKey(session.UserID, session.JTI), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// GetSession retrieves a session and bumps its last activity timestamp
func (m *Manager) GetSession(ctx context.Context, userID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(userID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	session.LastActivityAt = m.now()
	if updated, err := json.Marshal(session); err == nil {
		// KEEPTTL leaves the expiry set at login untouched.
		m.client.SetArgs(ctx, key, updated, redis.SetArgs{KeepTTL: true})
	}

	return &session, nil
}

// InvalidateSession removes a single session
func (m *Manager) InvalidateSession(ctx context.Context, userID int64, jti string) error {
	if err := m.client.Del(ctx, m.sessionKey(userID, jti)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// InvalidateAllUserSessions removes all sessions for a user
func (m *Manager) InvalidateAllUserSessions(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("session:%d:*", userID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// GetUserActiveSessions returns all live sessions for a user
func (m *Manager) GetUserActiveSessions(ctx context.Context, userID int64) ([]*SessionData, error) {
	pattern := fmt.Sprintf("session:%d:*", userID)

	var sessions []*SessionData
	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := m.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue // expired between SCAN and GET
		}

		var session SessionData
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}

	return sessions, iter.Err()
}

func (m *Manager) sessionKey(userID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", userID, jti)
}
