package repositories

import (
	"context"
	"fmt"
	"time"

	"essaydesk/internal/dto"
	"essaydesk/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderMessageRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, message *entities.OrderMessage) (uint64, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderMessageDTO, error)
}

type OrderMessageRepository struct {
	storage *pgxpool.Pool
}

func NewOrderMessageRepository(storage *pgxpool.Pool) OrderMessageRepositoryInterface {
	return &OrderMessageRepository{storage: storage}
}

func (r *OrderMessageRepository) CreateInTx(ctx context.Context, tx pgx.Tx, message *entities.OrderMessage) (uint64, error) {
	query := `
		INSERT INTO order_messages (order_id, sender_id, kind, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		message.OrderID, message.SenderID, message.Kind, message.Message,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в 'order_messages': %w", err)
	}
	return newID, nil
}

func (r *OrderMessageRepository) ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderMessageDTO, error) {
	query := `
		SELECT id, order_id, sender_id, kind, message, created_at
		FROM order_messages
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сообщений заказа: %w", err)
	}
	defer rows.Close()

	messages := make([]dto.OrderMessageDTO, 0)
	for rows.Next() {
		var (
			message   dto.OrderMessageDTO
			createdAt time.Time
		)
		if err := rows.Scan(
			&message.ID, &message.OrderID, &message.SenderID,
			&message.Kind, &message.Message, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения заказа: %w", err)
		}
		message.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
		messages = append(messages, message)
	}
	return messages, nil
}
