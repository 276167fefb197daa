// Package ratelimit gates generation requests with a persisted sliding
// window so limits hold across separate CLI invocations.
package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alexanderramin/timebox/internal/db"
)

// ErrRateLimited is returned by callers when a Gate denies a request.
var ErrRateLimited = errors.New("rate limit exceeded, try again later")

// Default policy: three requests per minute per action and identity.
const (
	DefaultLimit  = 3
	DefaultWindow = 60 * time.Second
)

// Result is the outcome of a Check.
type Result struct {
	Allowed bool
	Reason  string
}

// Gate decides whether identifier may perform action now.
type Gate interface {
	Check(ctx context.Context, identifier, action string) (Result, error)
}

// Noop allows everything.
type Noop struct{}

func (Noop) Check(context.Context, string, string) (Result, error) {
	return Result{Allowed: true}, nil
}

// SQLiteLimiter keeps one row per accepted request in rate_limit_hits and
// counts the rows inside the window. Prune, count and insert share one
// transaction, so concurrent processes cannot both take the last slot.
type SQLiteLimiter struct {
	uow    db.UnitOfWork
	limit  int
	window time.Duration
	now    func() time.Time
	logger *log.Logger
}

// Option configures a SQLiteLimiter.
type Option func(*SQLiteLimiter)

// WithPolicy overrides the request limit and window.
func WithPolicy(limit int, window time.Duration) Option {
	return func(l *SQLiteLimiter) {
		if limit > 0 {
			l.limit = limit
		}
		if window > 0 {
			l.window = window
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *SQLiteLimiter) { l.now = now }
}

// WithLogger sets the logger used for fail-open warnings.
func WithLogger(logger *log.Logger) Option {
	return func(l *SQLiteLimiter) { l.logger = logger }
}

// NewSQLiteLimiter creates a limiter over conn.
func NewSQLiteLimiter(conn *sql.DB, opts ...Option) *SQLiteLimiter {
	l := &SQLiteLimiter{
		uow:    db.NewTxUnitOfWork(conn),
		limit:  DefaultLimit,
		window: DefaultWindow,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Check records the request when it is allowed. Storage failures allow
// the request and log a warning.
func (l *SQLiteLimiter) Check(ctx context.Context, identifier, action string) (Result, error) {
	bucket := action + ":" + identifier
	now := l.now()
	var res Result
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		res, err = l.check(ctx, tx, bucket, now)
		return err
	})
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", "bucket", bucket, "err", err)
		return Result{Allowed: true, Reason: "limiter unavailable"}, nil
	}
	return res, nil
}

// check runs inside a transaction. The prune comes first so the
// transaction holds the write lock before it counts.
func (l *SQLiteLimiter) check(ctx context.Context, tx db.DBTX, bucket string, now time.Time) (Result, error) {
	cutoff := now.Add(-l.window).UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rate_limit_hits WHERE bucket = ? AND hit_at <= ?`, bucket, cutoff); err != nil {
		return Result{}, fmt.Errorf("pruning hits: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limit_hits WHERE bucket = ?`, bucket).Scan(&count); err != nil {
		return Result{}, fmt.Errorf("counting hits: %w", err)
	}
	if count >= l.limit {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("%d requests per %s", l.limit, l.window),
		}, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rate_limit_hits (bucket, hit_at) VALUES (?, ?)`, bucket, now.UnixMilli()); err != nil {
		return Result{}, fmt.Errorf("recording hit: %w", err)
	}
	return Result{Allowed: true}, nil
}
