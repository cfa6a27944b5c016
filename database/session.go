package database

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"gorm.io/gorm"
)

// Session is a GORM handle bound to one pooled connection. Connection scoped
// settings such as foreign key checks stay in effect for every statement run
// through it until Close hands the connection back.
type Session struct {
	db   *DB
	conn *sql.Conn
	gorm *gorm.DB
}

// Pin reserves a connection from the pool. The caller must Close the
// session; on a single-connection pool every other query blocks until then.
func (d *DB) Pin(ctx context.Context) (*Session, error) {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, FromDatabase(err, "pin connection")
	}
	// A Context forces a cloned Statement, so the pool swap stays local.
	tx := d.GormDB.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = conn
	return &Session{db: d, conn: conn, gorm: tx}, nil
}

// WithContext returns a GORM handle on the pinned connection.
func (s *Session) WithContext(ctx context.Context) *gorm.DB {
	return s.gorm.WithContext(ctx)
}

// SetForeignKeyChecks toggles referential integrity on the pinned connection.
func (s *Session) SetForeignKeyChecks(ctx context.Context, enabled bool) error {
	return s.db.setForeignKeyChecks(s.WithContext(ctx), enabled)
}

// ForeignKeysEnabled reports the pinned connection's sqlite setting.
func (s *Session) ForeignKeysEnabled(ctx context.Context) (bool, error) {
	return s.db.foreignKeysEnabled(s.WithContext(ctx))
}

// WithTransaction runs fn in a transaction on the pinned connection.
func (s *Session) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	return s.db.transaction(s.WithContext(ctx), fn)
}

// Discard closes the pinned connection instead of returning it to the pool,
// for when its session state could not be restored.
func (s *Session) Discard() {
	_ = s.conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = s.conn.Close()
}

// Close returns the connection to the pool.
func (s *Session) Close() error {
	return s.conn.Close()
}
