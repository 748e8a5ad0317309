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

type OrderFileRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, file *entities.OrderFile) (uint64, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderFileDTO, error)
}

type OrderFileRepository struct {
	storage *pgxpool.Pool
}

func NewOrderFileRepository(storage *pgxpool.Pool) OrderFileRepositoryInterface {
	return &OrderFileRepository{storage: storage}
}

func (r *OrderFileRepository) CreateInTx(ctx context.Context, tx pgx.Tx, file *entities.OrderFile) (uint64, error) {
	query := `
		INSERT INTO order_files (order_id, name, path, size, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		file.OrderID, file.Name, file.Path, file.Size, file.Type,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в 'order_files': %w", err)
	}
	return newID, nil
}

func (r *OrderFileRepository) ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderFileDTO, error) {
	query := `
		SELECT id, order_id, name, path, size, type, created_at
		FROM order_files
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файлов заказа: %w", err)
	}
	defer rows.Close()

	files := make([]dto.OrderFileDTO, 0)
	for rows.Next() {
		var (
			file      dto.OrderFileDTO
			createdAt time.Time
		)
		if err := rows.Scan(
			&file.ID, &file.OrderID, &file.Name,
			&file.Path, &file.Size, &file.Type, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла заказа: %w", err)
		}
		file.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
		files = append(files, file)
	}
	return files, nil
}
