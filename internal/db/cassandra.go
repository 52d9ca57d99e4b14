package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dawan/studentprojects/internal/pkg/dberrors"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/gocql/gocql"
)

// CassandraConfig holds the cluster settings used by CassandraConnector
type CassandraConfig struct {
	Hosts             []string
	Port              int
	Keyspace          string
	Username          string
	Password          string
	Consistency       string
	ReplicationFactor int
	ConnectTimeout    time.Duration
	Timeout           time.Duration
}

// CassandraConnector opens gocql sessions and bootstraps the schema on each connect.
type CassandraConnector struct {
	cfg         CassandraConfig
	consistency gocql.Consistency
}

// NewCassandraConnector validates cfg and returns a connector
func NewCassandraConnector(cfg CassandraConfig) (*CassandraConnector, error) {
	if len(cfg.Hosts) == 0 {
		return nil, errors.New("no cassandra hosts configured")
	}
	if cfg.Keyspace == "" {
		return nil, errors.New("cassandra keyspace is required")
	}

	consistency := gocql.Quorum
	if cfg.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
		if err != nil {
			return nil, fmt.Errorf("invalid consistency level: %w", err)
		}
		consistency = c
	}

	return &CassandraConnector{cfg: cfg, consistency: consistency}, nil
}

func (c *CassandraConnector) cluster(keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(c.cfg.Hosts...)
	if c.cfg.Port > 0 {
		cluster.Port = c.cfg.Port
	}
	cluster.Keyspace = keyspace
	cluster.Consistency = c.consistency
	if c.cfg.ConnectTimeout > 0 {
		cluster.ConnectTimeout = c.cfg.ConnectTimeout
	}
	if c.cfg.Timeout > 0 {
		cluster.Timeout = c.cfg.Timeout
	}
	if c.cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: c.cfg.Username,
			Password: c.cfg.Password,
		}
	}
	return cluster
}

// Connect creates the keyspace through a keyspace-less session, then opens the
// keyspace session and creates tables and indexes. Every step is idempotent.
func (c *CassandraConnector) Connect(ctx context.Context) (Session, error) {
	log := logger.WithComponent("cassandra")

	admin, err := c.cluster("").CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}
	err = (&cassandraSession{s: admin}).Exec(ctx, KeyspaceStatement(c.cfg.Keyspace, c.cfg.ReplicationFactor))
	admin.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace %s: %w", c.cfg.Keyspace, err)
	}
	log.Info().Str("keyspace", c.cfg.Keyspace).Msg("Keyspace created or already exists")

	gs, err := c.cluster(c.cfg.Keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyspace %s: %w", c.cfg.Keyspace, err)
	}

	session := &cassandraSession{s: gs}
	if err := Bootstrap(ctx, session); err != nil {
		session.Close()
		return nil, err
	}

	log.Info().Strs("hosts", c.cfg.Hosts).Msg("Connected to Cassandra")
	return session, nil
}

type cassandraSession struct {
	s *gocql.Session
}

func (c *cassandraSession) Exec(ctx context.Context, stmt string, args ...any) error {
	return translateError(c.s.Query(stmt, args...).WithContext(ctx).Exec())
}

func (c *cassandraSession) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	iter := c.s.Query(stmt, args...).WithContext(ctx).Iter()

	var rows []Row
	for {
		row := make(Row)
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}
	if err := iter.Close(); err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func (c *cassandraSession) Close() {
	c.s.Close()
}

// translateError marks driver errors that mean the session is unusable.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if dberrors.IsConnectionLost(err) {
		return fmt.Errorf("%w: %w", ErrSessionLost, err)
	}
	return err
}
