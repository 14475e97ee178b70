package cassandra

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("not connected")

// ColumnReader reads the live column definitions of a table.
type ColumnReader interface {
	ReadColumns(ctx context.Context, ks, table string) ([]ColumnInfo, error)
}

// SchemaManager creates and checks keyspaces and tables whose column types
// come from host types.
type SchemaManager struct {
	Compress bool
	CQL3     bool
	Seeds    []string
	KS       string
	Timeout  int
	Retries  int
	Conns    int
	DC       string
	Username string
	Password string
	Limit    int
	Logger   *zap.Logger

	Mismatches atomic.Uint64

	// Reader is set by Connect unless already set.
	Reader ColumnReader

	session *gocql.Session
}

func New(logger *zap.Logger) *SchemaManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaManager{Logger: logger}
}

func (sm *SchemaManager) Connect() error {
	cluster := gocql.NewCluster(sm.Seeds...)
	cluster.Consistency = gocql.LocalQuorum
	cluster.ProtoVersion = 4
	cluster.Timeout = time.Duration(sm.Timeout) * time.Millisecond
	cluster.WriteTimeout = time.Duration(sm.Timeout) * time.Millisecond
	if sm.Conns > 0 {
		cluster.NumConns = sm.Conns
	}
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: sm.Retries}
	if sm.DC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(sm.DC))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}
	if sm.Compress {
		cluster.Compressor = &gocql.SnappyCompressor{} // only compressor supported
	}
	if sm.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: sm.Username,
			Password: sm.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	sm.session = session

	if sm.Reader == nil {
		rl := ratelimit.NewUnlimited()
		if sm.Limit > 0 {
			rl = ratelimit.New(sm.Limit)
		}
		sm.Reader = &sessionColumns{session: session, rl: rl}
	}

	sm.Logger.Debug("connected", zap.Strings("seeds", sm.Seeds), zap.String("dc", sm.DC))
	return nil
}

func (sm *SchemaManager) Close() {
	if sm.session != nil {
		sm.session.Close()
		sm.session = nil
	}
	if _, ok := sm.Reader.(*sessionColumns); ok {
		sm.Reader = nil
	}
}

func (sm *SchemaManager) CreateKeyspace(ctx context.Context, strategy string, options map[string]string) error {
	stmt, err := KeyspaceStatement(sm.KS, strategy, options)
	if err != nil {
		return err
	}
	return sm.exec(ctx, stmt)
}

func (sm *SchemaManager) CreateTable(ctx context.Context, table string, fields []Field, key []string) error {
	stmt, err := TableStatement(sm.KS, table, fields, key, sm.CQL3)
	if err != nil {
		return err
	}
	return sm.exec(ctx, stmt)
}

// Columns reads the live column definitions of table.
func (sm *SchemaManager) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	if sm.Reader == nil {
		return nil, ErrNotConnected
	}
	return sm.Reader.ReadColumns(ctx, sm.KS, table)
}

// sessionColumns reads system_schema.columns, paced by rl.
type sessionColumns struct {
	session *gocql.Session
	rl      ratelimit.Limiter
}

func (sc *sessionColumns) ReadColumns(ctx context.Context, ks, table string) ([]ColumnInfo, error) {
	sc.rl.Take()

	var (
		cname string
		kind  string
		ctype string
		cols  []ColumnInfo
	)

	req := "SELECT column_name, kind, type FROM system_schema.columns WHERE keyspace_name = ? AND table_name = ?"
	iter := sc.session.Query(req, ks, table).WithContext(ctx).Consistency(gocql.LocalQuorum).Iter()
	for iter.Scan(&cname, &kind, &ctype) {
		cols = append(cols, ColumnInfo{Name: cname, Kind: kind, Type: ctype})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("read columns of %s.%s: %w", ks, table, err)
	}
	return cols, nil
}

// Check compares the live table against fields. Every mismatch is logged and
// counted.
func (sm *SchemaManager) Check(ctx context.Context, table string, fields []Field) ([]Mismatch, error) {
	cols, err := sm.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s.%s: %w", sm.KS, table, gocql.ErrNotFound)
	}

	mismatches, err := Compare(fields, cols, sm.CQL3)
	if err != nil {
		return nil, err
	}
	for _, m := range mismatches {
		sm.Mismatches.Add(1)
		sm.Logger.Warn("column mismatch",
			zap.String("table", sm.KS+"."+table),
			zap.String("column", m.Column),
			zap.String("expected", m.Expected),
			zap.String("actual", m.Actual),
		)
	}
	return mismatches, nil
}

func (sm *SchemaManager) exec(ctx context.Context, stmt string) error {
	if sm.session == nil {
		return ErrNotConnected
	}
	sm.Logger.Debug("query", zap.String("statement", stmt))
	if err := sm.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("exec %q: %w", stmt, err)
	}
	return nil
}
