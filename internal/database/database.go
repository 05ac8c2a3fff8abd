package database

import (
	"context"
	"fmt"
	"time"

	"jaggery_back_end/internal/config"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis connects to Redis and pings it once.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Info("✅ connected to Redis", zap.String("addr", cfg.Addr))
	return rdb, nil
}

func newCluster(cfg config.ScyllaConfig, keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.Timeout
	cluster.NumConns = 4
	cluster.ReconnectInterval = time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster
}

// NewScyllaSession creates the keyspace and tables if needed, then returns a
// session bound to the keyspace.
func NewScyllaSession(cfg config.ScyllaConfig, logger *zap.Logger) (*gocql.Session, error) {
	bootstrap, err := newCluster(cfg, "").CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla connect: %w", err)
	}
	err = EnsureKeyspace(bootstrap, cfg.Keyspace)
	bootstrap.Close()
	if err != nil {
		return nil, err
	}

	session, err := newCluster(cfg, cfg.Keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla session %s: %w", cfg.Keyspace, err)
	}
	if err := EnsureTables(session); err != nil {
		session.Close()
		return nil, err
	}
	logger.Info("✅ connected to ScyllaDB", zap.Strings("hosts", cfg.Hosts), zap.String("keyspace", cfg.Keyspace))
	return session, nil
}
