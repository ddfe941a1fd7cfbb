package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
)

// TimestampLayout is how creation times are encoded in the timestamp column.
const TimestampLayout = time.RFC3339Nano

// Repository stores messages in a single table keyed by message_id.
type Repository struct {
	DB *sql.DB

	table       string
	selectAll   string
	selectByID  string
	insertOne   string
	deleteByID  string
	createTable string
}

// New binds the repository to table. The name is quoted as one identifier.
func New(db *sql.DB, table string) *Repository {
	t := pq.QuoteIdentifier(table)
	cols := `message_id, "from", subject, contents, "timestamp"`

	return &Repository{
		DB:         db,
		table:      table,
		selectAll:  fmt.Sprintf(`SELECT %s FROM %s`, cols, t),
		selectByID: fmt.Sprintf(`SELECT %s FROM %s WHERE message_id = $1`, cols, t),
		insertOne: fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (message_id) DO NOTHING`,
			t, cols),
		deleteByID: fmt.Sprintf(`DELETE FROM %s WHERE message_id = $1`, t),
		createTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			message_id  TEXT PRIMARY KEY,
			"from"      TEXT NOT NULL,
			subject     TEXT NOT NULL,
			contents    TEXT NOT NULL,
			"timestamp" TEXT NOT NULL
		)`, t),
	}
}

// EnsureSchema creates the message table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, r.createTable); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, r.selectAll)
	if err != nil {
		return nil, fmt.Errorf("failed to scan message table: %w", err)
	}
	defer rows.Close()

	return collect(ctx, rows)
}

func (r *Repository) GetMessages(ctx context.Context, messageID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, r.selectByID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query message %s: %w", messageID, err)
	}
	defer rows.Close()

	return collect(ctx, rows)
}

func (r *Repository) PutMessage(ctx context.Context, msg *domain.Message) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.insertOne,
		msg.ID,
		msg.From,
		msg.Subject,
		msg.Contents,
		msg.Timestamp.UTC().Format(TimestampLayout),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Repository) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := r.DB.ExecContext(ctx, r.deleteByID, messageID)
	return err
}

// collect decodes rows, skipping records whose timestamp cannot be parsed.
func collect(ctx context.Context, rows *sql.Rows) ([]domain.Message, error) {
	messages := []domain.Message{}

	for rows.Next() {
		var msg domain.Message
		var ts string
		if err := rows.Scan(
			&msg.ID,
			&msg.From,
			&msg.Subject,
			&msg.Contents,
			&ts,
		); err != nil {
			return nil, err
		}

		parsed, err := time.Parse(TimestampLayout, ts)
		if err != nil {
			observability.GetLogger(ctx).Warn("skipping malformed stored message",
				zap.String("message_id", msg.ID),
				zap.Error(fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)),
			)
			observability.StoredRecordsSkippedTotal.Inc()
			continue
		}
		msg.Timestamp = parsed
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
