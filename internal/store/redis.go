package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps saved loans as JSON values in one redis hash, keyed by
// saved-loan ID.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Key names the hash. Empty means constants.DefaultRedisKey.
	Key string
}

// NewRedisStore connects to redis and checks the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := opts.Key
	if key == "" {
		key = constants.DefaultRedisKey
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	logger.Info(fmt.Sprintf("saving loans to redis hash %s at %s", key, opts.Addr),
		zap.String("op", "store.NewRedisStore"),
	)
	return &RedisStore{client: client, key: key, logger: logger}, nil
}

// Save implements LoanStore.
func (r *RedisStore) Save(ctx context.Context, loan SavedLoan) (SavedLoan, error) {
	loan = prepare(loan, time.Now())

	data, err := json.Marshal(loan)
	if err != nil {
		return SavedLoan{}, fmt.Errorf("encoding saved loan %s: %w", loan.ID, err)
	}
	if err := r.client.HSet(ctx, r.key, loan.ID, data).Err(); err != nil {
		return SavedLoan{}, fmt.Errorf("saving loan %s: %w", loan.ID, err)
	}
	return loan, nil
}

// Get implements LoanStore.
func (r *RedisStore) Get(ctx context.Context, id string) (SavedLoan, error) {
	data, err := r.client.HGet(ctx, r.key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return SavedLoan{}, ErrNotFound
	}
	if err != nil {
		return SavedLoan{}, fmt.Errorf("reading loan %s: %w", id, err)
	}

	var loan SavedLoan
	if err := json.Unmarshal(data, &loan); err != nil {
		return SavedLoan{}, fmt.Errorf("decoding saved loan %s: %w", id, err)
	}
	return loan, nil
}

// List implements LoanStore. Entries that no longer decode are skipped with
// a warning.
func (r *RedisStore) List(ctx context.Context) ([]SavedLoan, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("listing saved loans: %w", err)
	}

	saved := make([]SavedLoan, 0, len(all))
	for id, data := range all {
		var loan SavedLoan
		if err := json.Unmarshal([]byte(data), &loan); err != nil {
			r.logger.Warn(fmt.Sprintf("skipping saved loan %s: %v", id, err),
				zap.String("op", "store.List"),
			)
			continue
		}
		saved = append(saved, loan)
	}
	sortSaved(saved)
	return saved, nil
}

// Delete implements LoanStore.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, r.key, id).Result()
	if err != nil {
		return fmt.Errorf("deleting loan %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
