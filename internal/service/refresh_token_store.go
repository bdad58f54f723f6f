package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore guarda el refresh token activo por usuario.
// Save sobrescribe el token previo: una sola sesión activa por usuario.
type RefreshTokenStore interface {
	Save(userID, token string, ttl time.Duration) error
	Find(userID string) (string, bool, error)
	Delete(userID string) error
	Matches(userID, token string) (bool, error)
}

type memoryRefreshTokenStore struct {
	mu    sync.Mutex
	items map[string]memoryTokenEntry
}

type memoryTokenEntry struct {
	token     string
	expiresAt time.Time
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		items: make(map[string]memoryTokenEntry),
	}
}

func (s *memoryRefreshTokenStore) Save(userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.items[userID] = memoryTokenEntry{
		token:     token,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryRefreshTokenStore) Find(userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[userID]
	if !ok {
		return "", false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, userID)
		return "", false, nil
	}
	return entry.token, true, nil
}

func (s *memoryRefreshTokenStore) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

func (s *memoryRefreshTokenStore) Matches(userID, token string) (bool, error) {
	stored, ok, err := s.Find(userID)
	if err != nil || !ok {
		return false, err
	}
	return stored == token, nil
}

// redisKVClient cubre los comandos usados por el store; *redis.Client lo implementa.
type redisKVClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRefreshTokenStore struct {
	client redisKVClient
	prefix string
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client: client,
		prefix: "refresh_token:",
	}
}

func (s *redisRefreshTokenStore) Save(userID, token string, ttl time.Duration) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+userID, token, ttl).Err()
}

func (s *redisRefreshTokenStore) Find(userID string) (string, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	token, err := s.client.Get(ctx, s.prefix+userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *redisRefreshTokenStore) Delete(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+userID).Err()
}

func (s *redisRefreshTokenStore) Matches(userID, token string) (bool, error) {
	stored, ok, err := s.Find(userID)
	if err != nil || !ok {
		return false, err
	}
	return stored == token, nil
}
