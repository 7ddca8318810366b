package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps a GORM connection to one of the marketplace stores. The same
// type backs both the record store and the purchase ledger; each gets its own
// Client so the purchase flow crosses two real connections.
type Client struct {
	name string
	cfg  config.DBConfig
	logg *logger.Logger

	mu   sync.Mutex
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a GORM client and establishes the initial connection.
func New(ctx context.Context, name string, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	client := &Client{name: name, cfg: cfg, logg: logg}
	if err := client.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureConnected opens the connection if needed and verifies it is alive.
// Safe to call repeatedly; a healthy connection is a no-op.
func (c *Client) EnsureConnected(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if sqlDB, err := c.conn.DB(); err == nil {
			if err := sqlDB.PingContext(ctx); err == nil {
				return nil
			}
		}
		c.conn = nil
	}

	conn, err := open(c.cfg)
	if err != nil {
		return fmt.Errorf("opening %s store connection: %w", c.name, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("getting %s sql db handle: %w", c.name, err)
	}
	applyPoolSettings(sqlDB, c.cfg)

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging %s store: %w", c.name, err)
	}

	c.conn = conn
	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "store", c.name), "database connection established")
	}
	return nil
}

func open(cfg config.DBConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	var dialector gorm.Dialector
	if cfg.Driver == "sqlite" {
		dialector = sqlite.Open(cfg.DSN)
	} else {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	return gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	conn := c.DB()
	if conn == nil {
		return fmt.Errorf("%s store not connected", c.name)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	c.conn = nil
	return sqlDB.Close()
}

// WithTx executes fn inside a transaction on this store, rolling back on
// error/panic. Single-store only; nothing spans the record and ledger stores.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn := c.DB()
	if conn == nil {
		return fmt.Errorf("%s store not connected", c.name)
	}

	tx := conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
