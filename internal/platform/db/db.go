package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"library-api/internal/platform/config"
)

// Dialect は database/sql のドライバ名と goqu の方言名を兼ねる
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// Builder returns a goqu query builder for the dialect.
func (d Dialect) Builder() goqu.DialectWrapper { return goqu.Dialect(string(d)) }

// DB は sqlx の接続と方言の組
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// Builder returns a goqu query builder for d.Dialect.
func (d *DB) Builder() goqu.DialectWrapper { return d.Dialect.Builder() }

// New wraps an already opened *sql.DB. Used by tests with sqlmock.
func New(conn *sql.DB, d Dialect) *DB {
	return &DB{DB: sqlx.NewDb(conn, string(d)), Dialect: d}
}

// SQLer is satisfied by every goqu dataset.
type SQLer interface {
	ToSQL() (string, []interface{}, error)
}

func Connect(c config.DatabaseConfig) (*DB, error) {
	d := Dialect(c.Driver)
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}
	return Open(d, dsn)
}

func Open(d Dialect, dsn string) (*DB, error) {
	conn, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}

	if d == SQLite {
		// 書き込みは1接続に直列化する。:memory: は接続ごとに別DBになるため必須
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else {
		// 接続プール（合算がサーバの max_connections を超えないよう配分する）
		conn.SetMaxOpenConns(80)
		conn.SetMaxIdleConns(20)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	return New(conn, d), nil
}

func DSN(c config.DatabaseConfig) (string, error) {
	switch Dialect(c.Driver) {
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Timeout = 3 * time.Second
		mc.ReadTimeout = 5 * time.Second
		mc.WriteTimeout = 5 * time.Second
		return mc.FormatDSN(), nil
	case Postgres:
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.Username, c.Password),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.DBName,
			RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
		}
		return u.String(), nil
	case SQLite:
		return "file:" + c.Path + "?_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// Get runs a prepared goqu select and scans a single row into dest.
func Get(ctx context.Context, q sqlx.QueryerContext, dest any, ds SQLer) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

// Select runs a prepared goqu select and scans all rows into dest.
func Select(ctx context.Context, q sqlx.QueryerContext, dest any, ds SQLer) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func Exec(ctx context.Context, x sqlx.ExecerContext, ds SQLer) (int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := x.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertID runs ds and returns the generated primary key.
// PostgreSQL には LastInsertId が無いので RETURNING を使う。
func InsertID(ctx context.Context, x sqlx.ExtContext, d Dialect, ds *goqu.InsertDataset) (int64, error) {
	if d == Postgres {
		query, args, err := ds.Returning("id").Prepared(true).ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		var id int64
		if err := x.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := x.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
