// internal/app/sessions.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "sk-semla-"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore hands out opaque bearer tokens and resolves them back to
// users until they expire or get revoked.
type SessionStore interface {
	Create(ctx context.Context, user models.User) (string, error)
	Lookup(ctx context.Context, token string) (*models.User, error)
	Revoke(ctx context.Context, token string) error
	Close() error
}

// NewSessionStore picks Redis when a URL is configured and falls back to
// the in-process store otherwise.
func NewSessionStore(config *Config) (SessionStore, error) {
	if config.Sessions.RedisURL == "" {
		logger.Debug.Println("No redis_url configured, using in-memory sessions")
		return NewMemorySessions(config.TokenTTL()), nil
	}
	return NewRedisSessions(config.Sessions.RedisURL, config.TokenTTL())
}

func mintToken() string {
	return tokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessions(url string, ttl time.Duration) (*RedisSessions, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessions{client: client, ttl: ttl}, nil
}

func (s *RedisSessions) Create(ctx context.Context, user models.User) (string, error) {
	token := mintToken()
	key := fmt.Sprintf(sessionKeyTpl, token)

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":          user.ID,
		"username":         user.Username,
		"name":             user.Name,
		"role":             user.Role,
		"created_dttm_utc": time.Now().UTC().Format(timeFormat),
	})
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

func (s *RedisSessions) Lookup(ctx context.Context, token string) (*models.User, error) {
	key := fmt.Sprintf(sessionKeyTpl, token)

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	id, _ := strconv.ParseInt(fields["user_id"], 10, 64)
	return &models.User{
		ID:       id,
		Username: fields["username"],
		Name:     fields["name"],
		Role:     fields["role"],
	}, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, token string) error {
	key := fmt.Sprintf(sessionKeyTpl, token)
	return s.client.Del(ctx, key).Err()
}

func (s *RedisSessions) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

type memorySession struct {
	user    models.User
	expires time.Time
}

// MemorySessions keeps sessions in the server process. Good enough for
// development setups without Redis, gone on restart.
type MemorySessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
	}
}

func (s *MemorySessions) Create(_ context.Context, user models.User) (string, error) {
	token := mintToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{user: user, expires: time.Now().Add(s.ttl)}
	return token, nil
}

func (s *MemorySessions) Lookup(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.expires) {
		delete(s.sessions, token)
		return nil, ErrSessionNotFound
	}

	user := session.user
	return &user, nil
}

func (s *MemorySessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemorySessions) Close() error {
	return nil
}
