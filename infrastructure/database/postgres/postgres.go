package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/storefront-api/internal/config"
)

type Connection struct {
	*sql.DB
	dsn string
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: erro ao abrir conexão")
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "postgres: erro ao testar conexão")
	}

	return &Connection{DB: db, dsn: cfg.DSN}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction run a query in the transaction
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback falhou: %v", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// NewListener abre uma conexão dedicada de LISTEN para os canais informados
func (c *Connection) NewListener(channels ...string) (*pq.Listener, error) {
	listener := pq.NewListener(c.dsn, 10*time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		if err != nil {
			logrus.WithError(err).WithField("event", event).Warn("postgres: evento do listener")
		}
	})

	for _, channel := range channels {
		if err := listener.Listen(channel); err != nil {
			_ = listener.Close()
			return nil, errors.Wrapf(err, "postgres: erro ao escutar canal %s", channel)
		}
	}

	return listener, nil
}
