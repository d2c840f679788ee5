package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

type ChatMessageRepo struct {
	db *pgxpool.Pool
}

func NewChatMessageRepo(db *pgxpool.Pool) *ChatMessageRepo {
	return &ChatMessageRepo{db: db}
}

const messageColumns = `id, seq, chat_room_id, sender_id, message, message_type, is_read, is_flagged, created_at`

func scanMessage(row pgx.Row) (*models.ChatMessage, error) {
	var m models.ChatMessage
	if err := row.Scan(&m.ID, &m.Seq, &m.ChatRoomID, &m.SenderID, &m.Text, &m.Type, &m.IsRead, &m.IsFlagged, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Append stores msg if its room is active. Seq and CreatedAt are assigned by the database.
// The insert is conditioned on the room row, so it cannot interleave with a deactivation.
func (r *ChatMessageRepo) Append(ctx context.Context, msg *models.ChatMessage) error {
	const op = "ChatMessageRepo.Append"
	q := TxorDB(ctx, r.db)

	query := `
		WITH room AS (
			SELECT id FROM chat_rooms WHERE id = $2 AND is_active FOR SHARE
		)
		INSERT INTO chat_messages (id, chat_room_id, sender_id, message, message_type)
		SELECT $1, room.id, $3, $4, $5 FROM room
		RETURNING seq, created_at;`

	start := time.Now()
	err := q.QueryRow(ctx, query, msg.ID, msg.ChatRoomID, msg.SenderID, msg.Text, msg.Type).Scan(&msg.Seq, &msg.CreatedAt)
	observe(op, start, err)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var active *bool
	if err := q.QueryRow(ctx, `SELECT (SELECT is_active FROM chat_rooms WHERE id = $1);`, msg.ChatRoomID).Scan(&active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if active == nil {
		return types.ErrChatRoomNotFound
	}
	return types.ErrChatRoomInactive
}

func (r *ChatMessageRepo) List(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error) {
	const op = "ChatMessageRepo.List"
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+messageColumns+` FROM chat_messages WHERE chat_room_id = $1 ORDER BY created_at ASC, seq ASC;`, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	msgs := make([]models.ChatMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

func (r *ChatMessageRepo) MarkRead(ctx context.Context, roomID uuid.UUID, readerID string) (int64, error) {
	const op = "ChatMessageRepo.MarkRead"
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE chat_messages SET is_read = TRUE WHERE chat_room_id = $1 AND sender_id <> $2 AND NOT is_read;`, roomID, readerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (r *ChatMessageRepo) UnreadCount(ctx context.Context, roomID uuid.UUID, readerID string) (int, error) {
	const op = "ChatMessageRepo.UnreadCount"
	q := TxorDB(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages WHERE chat_room_id = $1 AND sender_id <> $2 AND NOT is_read;`, roomID, readerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *ChatMessageRepo) Get(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, error) {
	const op = "ChatMessageRepo.Get"

	msg, err := scanMessage(TxorDB(ctx, r.db).QueryRow(ctx, `SELECT `+messageColumns+` FROM chat_messages WHERE id = $1;`, messageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// Flag sets is_flagged. The flag reports whether this call changed it.
func (r *ChatMessageRepo) Flag(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, bool, error) {
	const op = "ChatMessageRepo.Flag"
	q := TxorDB(ctx, r.db)

	msg, err := scanMessage(q.QueryRow(ctx, `UPDATE chat_messages SET is_flagged = TRUE WHERE id = $1 AND NOT is_flagged RETURNING `+messageColumns+`;`, messageID))
	if err == nil {
		return msg, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	msg, err = scanMessage(q.QueryRow(ctx, `SELECT `+messageColumns+` FROM chat_messages WHERE id = $1;`, messageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, types.ErrMessageNotFound
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return msg, false, nil
}
