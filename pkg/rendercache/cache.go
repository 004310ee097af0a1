package rendercache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"rosetta-hq/rosetta/pkg/rtl/resolver"
)

// Cache is a content-addressed store of rendered prompts. The key is the
// SHA-256 of (template text, stage, environment contents), so a hit is
// exact: same inputs, same output. Entries carry a TTL; expired rows are
// treated as misses and removed lazily.
type Cache struct {
	db        *sql.DB
	ttl       time.Duration
	mu        sync.Mutex
	closeOnce sync.Once
	done      chan struct{}

	getStmt *sql.Stmt
	putStmt *sql.Stmt
}

// Config configures the render cache.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string

	// TTL is how long an entry stays valid. Default: 24h.
	TTL time.Duration

	// BusyTimeout is how long to wait for locks. Default: 5s.
	BusyTimeout time.Duration
}

// New opens (creating if needed) the render cache.
func New(cfg Config) (*Cache, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("cache db path cannot be empty")
	}
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Cache{
		db:   db,
		ttl:  cfg.TTL,
		done: make(chan struct{}),
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	if err := c.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare cache statements: %w", err)
	}

	return c, nil
}

func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rendered_prompts (
		key        TEXT PRIMARY KEY,
		output     TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rendered_expires ON rendered_prompts(expires_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

func (c *Cache) prepareStatements() error {
	var err error
	c.getStmt, err = c.db.Prepare(
		"SELECT output, expires_at FROM rendered_prompts WHERE key = ?")
	if err != nil {
		return err
	}
	c.putStmt, err = c.db.Prepare(
		"INSERT OR REPLACE INTO rendered_prompts (key, output, created_at, expires_at) VALUES (?, ?, ?, ?)")
	return err
}

// Key computes the cache key for a render: SHA-256 over the template text,
// the stage name, and every environment entry in deterministic order.
func Key(template, stage string, env *resolver.Environment) string {
	h := sha256.New()
	io.WriteString(h, template)
	io.WriteString(h, "\x00")
	io.WriteString(h, stage)
	io.WriteString(h, "\x00")

	for _, ns := range resolver.Namespaces() {
		leaves := env.Leaves(ns)
		sort.Strings(leaves)
		for _, leaf := range leaves {
			v, ok := env.Resolve(string(ns) + "." + leaf)
			if !ok {
				continue
			}
			io.WriteString(h, string(ns))
			io.WriteString(h, ".")
			io.WriteString(h, leaf)
			io.WriteString(h, "=")
			if data, err := v.MarshalJSON(); err == nil {
				h.Write(data)
			}
			io.WriteString(h, "\x00")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached output for a key, or ok=false on miss or expiry.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var output string
	var expiresAt int64
	err := c.getStmt.QueryRowContext(ctx, key).Scan(&output, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		// Expired entries are removed on read.
		if _, err := c.db.ExecContext(ctx, "DELETE FROM rendered_prompts WHERE key = ?", key); err != nil {
			return "", false, fmt.Errorf("cache expire: %w", err)
		}
		return "", false, nil
	}
	return output, true, nil
}

// Put stores a rendered output under the key.
func (c *Cache) Put(ctx context.Context, key, output string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	_, err := c.putStmt.ExecContext(ctx, key, output, now.Unix(), now.Add(c.ttl).Unix())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Sweep removes every expired entry, returning the number removed.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx,
		"DELETE FROM rendered_prompts WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rendered_prompts").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return n, nil
}

// Close releases the cache's database resources.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.getStmt != nil {
			c.getStmt.Close()
		}
		if c.putStmt != nil {
			c.putStmt.Close()
		}
		err = c.db.Close()
	})
	return err
}
