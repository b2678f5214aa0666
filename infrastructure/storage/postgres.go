package storage

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/storefront-api/infrastructure/database/postgres"
)

const (
	cartStorageTable = "cart_storage"
	listenerPingTime = 90 * time.Second
)

// PostgresStorage persiste os valores na tabela cart_storage e usa LISTEN/NOTIFY
// como sinal de alteração entre instâncias da API
type PostgresStorage struct {
	conn      *postgres.Connection
	channel   string
	listener  *pq.Listener
	watchers  *watcherRegistry
	done      chan struct{}
	closeOnce sync.Once
}

func NewPostgresStorage(conn *postgres.Connection, channel string) (*PostgresStorage, error) {
	listener, err := conn.NewListener(channel)
	if err != nil {
		return nil, err
	}

	s := &PostgresStorage{
		conn:     conn,
		channel:  channel,
		listener: listener,
		watchers: newWatcherRegistry(),
		done:     make(chan struct{}),
	}

	go s.listen()

	logrus.WithField("channel", channel).Info("Storage de carrinho em PostgreSQL inicializado")
	return s, nil
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := squirrel.
		Select("value").
		From(cartStorageTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", false, errors.Wrap(err, "erro ao construir a query")
	}

	var value string
	err = s.conn.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "erro ao ler a chave %s", key)
	}

	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value, origin string) error {
	upsert, args, err := squirrel.StatementBuilder.
		Insert(cartStorageTable).
		Columns("key", "value").
		Values(key, value).
		Suffix(`
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
			return err
		}

		// O NOTIFY só é entregue no commit, junto com o valor gravado
		_, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", s.channel, encodePayload(key, origin))
		return err
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return errors.Wrapf(err, "erro no banco de dados (código: %s)", pqErr.Code)
		}
		return errors.Wrapf(err, "erro ao gravar a chave %s", key)
	}

	return nil
}

func (s *PostgresStorage) Watch(key string, fn ChangeFunc) func() {
	return s.watchers.add(key, fn)
}

// Close encerra o listener; chamadas repetidas são ignoradas
func (s *PostgresStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()
	})
	return err
}

func (s *PostgresStorage) listen() {
	for {
		select {
		case <-s.done:
			return
		case notification := <-s.listener.Notify:
			if notification == nil {
				select {
				case <-s.done:
					return
				default:
				}

				// Reconexão: notificações podem ter sido perdidas, avisar todas as chaves
				s.dispatchAll()
				continue
			}

			key, origin := decodePayload(notification.Extra)
			s.dispatch(key, origin)
		case <-time.After(listenerPingTime):
			go func() {
				if err := s.listener.Ping(); err != nil {
					logrus.WithError(err).Warn("storage: ping do listener falhou")
				}
			}()
		}
	}
}

func (s *PostgresStorage) dispatch(key, origin string) {
	s.watchers.dispatch(key, origin)
}

func (s *PostgresStorage) dispatchAll() {
	for _, key := range s.watchers.keys() {
		s.dispatch(key, "")
	}
}

// payload no formato origem|chave; a origem é um nanoid e nunca contém "|"
func encodePayload(key, origin string) string {
	return origin + "|" + key
}

func decodePayload(payload string) (key, origin string) {
	origin, key, found := strings.Cut(payload, "|")
	if !found {
		return payload, ""
	}
	return key, origin
}
