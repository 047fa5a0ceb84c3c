package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/redis"
	"github.com/honeynil/bankfront/internal/models"
)

// Store persists the single current-user record. Load returns nil, nil when
// nothing is stored.
type Store interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u models.User) error
	Clear(ctx context.Context) error
}

// record is the persisted shape: one flat object under the "user" key.
type record struct {
	User *models.User `json:"user"`
}

func encode(u models.User) ([]byte, error) {
	return json.Marshal(record{User: &u})
}

func decode(b []byte) (*models.User, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return r.User, nil
}

type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return decode(m.data)
}

func (m *MemoryStore) Save(_ context.Context, u models.User) error {
	b, err := encode(u)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// FileStore keeps the record in one JSON file, readable by the owner only.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath is ~/.bankfront/user.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".bankfront", "user.json"), nil
}

func (f *FileStore) Load(context.Context) (*models.User, error) {
	b, err := os.ReadFile(f.path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return decode(b)
}

func (f *FileStore) Save(_ context.Context, u models.User) error {
	b, err := encode(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}

// RedisStore keeps the record of one browser session under its own key.
type RedisStore struct {
	client redis.RedisClient
	key    string
	ttl    time.Duration
}

func NewRedisStore(client redis.RedisClient, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("bankfront:session:%s:user", sessionID),
		ttl:    ttl,
	}
}

func (r *RedisStore) Load(ctx context.Context) (*models.User, error) {
	val, err := r.client.Get(ctx, r.key)
	if stderrors.Is(err, redis.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	u, err := decode([]byte(val))
	if err != nil {
		return nil, err
	}
	// Active sessions slide their expiry forward.
	if err := r.client.Expire(ctx, r.key, r.ttl); err != nil {
		slog.Warn("failed to extend session ttl", "key", r.key, "error", err)
	}
	return u, nil
}

func (r *RedisStore) Save(ctx context.Context, u models.User) error {
	b, err := encode(u)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, string(b), r.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}
