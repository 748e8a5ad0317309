package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"essaydesk/internal/dto"
	"essaydesk/internal/entities"
	db "essaydesk/internal/infrastructure/db"
	"essaydesk/pkg/constants"
	apperrors "essaydesk/pkg/errors"
	"essaydesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Белый список полей фильтрации/сортировки списка заказов.
var orderListAllowedFields = map[string]string{
	"status":            "ord.status",
	"client_id":         "ord.client_id",
	"executor_id":       "ord.executor_id",
	"academic_level_id": "ord.academic_level_id",
	"deadline_id":       "ord.deadline_id",
	"subject_id":        "ord.subject_id",
	"created_at":        "ord.created_at",
	"total_price":       "ord.total_price",
}

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error)
	CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error)
	FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	ApplyTransitionInTx(ctx context.Context, tx pgx.Tx, id uint64, tr *entities.OrderTransition) error
	UpdatePricingInTx(ctx context.Context, tx pgx.Tx, id uint64, order *entities.Order) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{storage: storage}
}

const orderListSelect = `
	ord.id, ord.client_id, ord.assignment_type, ord.service_type,
	ord.academic_level_id, al.name, ord.subject_id, subj.name,
	ord.deadline_id, dl.name,
	ord.language, ord.pages, ord.spacing_code, ord.instructions,
	ord.total_price::text, ord.breakdown, ord.status,
	ord.executor_id, ord.assigned_at, ord.admin_notes,
	ord.completion_notes, ord.rejection_reason,
	ord.completed_at, ord.rejected_at, ord.revision_count,
	ord.created_at, ord.updated_at`

func (r *OrderRepository) GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error) {
	countFilter := filter
	countFilter.Sort = nil
	countFilter.WithPagination = false

	countBuilder := sq.Select("COUNT(*)").
		From("orders ord").
		PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		countBuilder = countBuilder.Where(sq.ILike{"ord.assignment_type": "%" + filter.Search + "%"})
	}
	countBuilder = db.ApplyListParams(countBuilder, countFilter, orderListAllowedFields)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта заказов: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта заказов: %w", err)
	}

	builder := sq.Select(orderListSelect).
		From("orders ord").
		LeftJoin("academic_levels al ON ord.academic_level_id = al.id").
		LeftJoin("subjects subj ON ord.subject_id = subj.id").
		LeftJoin("deadline_options dl ON ord.deadline_id = dl.id").
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"ord.assignment_type": "%" + filter.Search + "%"})
	}
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("ord.created_at DESC")
	}
	builder = db.ApplyListParams(builder, filter, orderListAllowedFields)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]dto.OrderDTO, 0)
	for rows.Next() {
		order, err := scanOrderDTO(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования заказа в списке: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, total, nil
}

// FindOrder находит один заказ по ID вместе со списком доп. услуг.
func (r *OrderRepository) FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	query := `SELECT ` + orderListSelect + `
		FROM orders ord
		LEFT JOIN academic_levels al ON ord.academic_level_id = al.id
		LEFT JOIN subjects subj ON ord.subject_id = subj.id
		LEFT JOIN deadline_options dl ON ord.deadline_id = dl.id
		WHERE ord.id = $1`

	row := r.storage.QueryRow(ctx, query, id)
	order, err := scanOrderDTO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
	}

	addonIDs, err := loadAddonIDs(ctx, r.storage, id)
	if err != nil {
		return nil, err
	}
	order.AddonIDs = addonIDs

	return order, nil
}

func (r *OrderRepository) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (newOrderID uint64, err error) {
	breakdownJSON, err := json.Marshal(order.Breakdown)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации детализации цены: %w", err)
	}

	insertQuery := `
		INSERT INTO orders (
			client_id, assignment_type, service_type, academic_level_id,
			subject_id, deadline_id, language, pages, spacing_code,
			instructions, total_price, breakdown, status,
			revision_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, NOW(), NOW())
		RETURNING id`

	err = tx.QueryRow(ctx, insertQuery,
		order.ClientID, order.AssignmentType, order.ServiceType, order.AcademicLevelID,
		order.SubjectID, order.DeadlineID, order.Language, order.Pages, order.SpacingCode,
		order.Instructions, order.TotalPrice.StringFixed(2), breakdownJSON, string(order.Status),
	).Scan(&newOrderID)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в 'orders': %w", err)
	}

	if err := replaceOrderAddons(ctx, tx, newOrderID, order.AddonIDs); err != nil {
		return 0, err
	}

	return newOrderID, nil
}

// FindOrderForUpdateInTx загружает заказ с блокировкой строки: переходы по
// одному заказу сериализуются на уровне БД.
func (r *OrderRepository) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	query := `
		SELECT id, client_id, assignment_type, service_type, academic_level_id,
		       subject_id, deadline_id, language, pages, spacing_code, instructions,
		       total_price::text, breakdown, status,
		       executor_id, assigned_at, admin_notes, completion_notes,
		       rejection_reason, completed_at, rejected_at, revision_count,
		       created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`

	var (
		order           entities.Order
		totalPriceText  string
		breakdownJSON   []byte
		statusText      string
		executorID      sql.NullInt64
		assignedAt      sql.NullTime
		adminNotes      sql.NullString
		completionNotes sql.NullString
		rejectionReason sql.NullString
		completedAt     sql.NullTime
		rejectedAt      sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := tx.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.ClientID, &order.AssignmentType, &order.ServiceType, &order.AcademicLevelID,
		&order.SubjectID, &order.DeadlineID, &order.Language, &order.Pages, &order.SpacingCode, &order.Instructions,
		&totalPriceText, &breakdownJSON, &statusText,
		&executorID, &assignedAt, &adminNotes, &completionNotes,
		&rejectionReason, &completedAt, &rejectedAt, &order.RevisionCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("не удалось найти заказ для обновления: %w", err)
	}

	order.TotalPrice, err = decimal.NewFromString(totalPriceText)
	if err != nil {
		return nil, fmt.Errorf("некорректная сумма заказа в БД: %w", err)
	}
	if err := json.Unmarshal(breakdownJSON, &order.Breakdown); err != nil {
		return nil, fmt.Errorf("некорректная детализация цены в БД: %w", err)
	}

	order.Status, err = constants.ToOrderStatus(statusText)
	if err != nil {
		return nil, err
	}

	if executorID.Valid {
		order.ExecutorID = null.Uint64From(uint64(executorID.Int64))
	}
	if assignedAt.Valid {
		order.AssignedAt = null.TimeFrom(assignedAt.Time)
	}
	if adminNotes.Valid {
		order.AdminNotes = null.StringFrom(adminNotes.String)
	}
	if completionNotes.Valid {
		order.CompletionNotes = null.StringFrom(completionNotes.String)
	}
	if rejectionReason.Valid {
		order.RejectionReason = null.StringFrom(rejectionReason.String)
	}
	if completedAt.Valid {
		order.CompletedAt = null.TimeFrom(completedAt.Time)
	}
	if rejectedAt.Valid {
		order.RejectedAt = null.TimeFrom(rejectedAt.Time)
	}
	order.CreatedAt = &createdAt
	order.UpdatedAt = &updatedAt

	addonIDs, err := loadAddonIDs(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	order.AddonIDs = addonIDs

	return &order, nil
}

// ApplyTransitionInTx записывает новый статус и изменённые поля перехода.
// Сообщения и файлы перехода пишут свои репозитории в той же транзакции.
func (r *OrderRepository) ApplyTransitionInTx(ctx context.Context, tx pgx.Tx, id uint64, tr *entities.OrderTransition) error {
	builder := sq.Update("orders").
		Set("status", string(tr.NewStatus)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	if tr.ExecutorID.Valid {
		builder = builder.Set("executor_id", tr.ExecutorID.Uint64)
	}
	if tr.AssignedAt.Valid {
		builder = builder.Set("assigned_at", tr.AssignedAt.Time)
	}
	if tr.AdminNotes.Valid {
		builder = builder.Set("admin_notes", tr.AdminNotes.String)
	}
	if tr.CompletionNotes.Valid {
		builder = builder.Set("completion_notes", tr.CompletionNotes.String)
	}
	if tr.CompletedAt.Valid {
		builder = builder.Set("completed_at", tr.CompletedAt.Time)
	}
	if tr.RejectionReason.Valid {
		builder = builder.Set("rejection_reason", tr.RejectionReason.String)
	}
	if tr.RejectedAt.Valid {
		builder = builder.Set("rejected_at", tr.RejectedAt.Time)
	}
	if tr.RevisionCount.Valid {
		builder = builder.Set("revision_count", tr.RevisionCount.Int)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса перехода: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка записи перехода статуса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePricingInTx сохраняет новую конфигурацию и пересчитанную цену.
func (r *OrderRepository) UpdatePricingInTx(ctx context.Context, tx pgx.Tx, id uint64, order *entities.Order) error {
	breakdownJSON, err := json.Marshal(order.Breakdown)
	if err != nil {
		return fmt.Errorf("ошибка сериализации детализации цены: %w", err)
	}

	query := `
		UPDATE orders SET
			academic_level_id = $1, deadline_id = $2, pages = $3,
			spacing_code = $4, total_price = $5, breakdown = $6,
			updated_at = NOW()
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		order.AcademicLevelID, order.DeadlineID, order.Pages,
		order.SpacingCode, order.TotalPrice.StringFixed(2), breakdownJSON, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления цены заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_addons WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка очистки доп. услуг заказа: %w", err)
	}
	return replaceOrderAddons(ctx, tx, id, order.AddonIDs)
}

func replaceOrderAddons(ctx context.Context, q querier, orderID uint64, addonIDs []uint64) error {
	for _, addonID := range addonIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO order_addons (order_id, addon_id) VALUES ($1, $2)`,
			orderID, addonID,
		); err != nil {
			return fmt.Errorf("ошибка записи в 'order_addons': %w", err)
		}
	}
	return nil
}

func loadAddonIDs(ctx context.Context, q querier, orderID uint64) ([]uint64, error) {
	rows, err := q.Query(ctx,
		`SELECT addon_id FROM order_addons WHERE order_id = $1 ORDER BY addon_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения доп. услуг заказа: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования доп. услуги: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func scanOrderDTO(row pgx.Row) (*dto.OrderDTO, error) {
	var (
		order           dto.OrderDTO
		levelName       sql.NullString
		subjectName     sql.NullString
		deadlineName    sql.NullString
		totalPriceText  string
		breakdownJSON   []byte
		executorID      sql.NullInt64
		assignedAt      sql.NullTime
		adminNotes      sql.NullString
		completionNotes sql.NullString
		rejectionReason sql.NullString
		completedAt     sql.NullTime
		rejectedAt      sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&order.ID, &order.ClientID, &order.AssignmentType, &order.ServiceType,
		&order.AcademicLevelID, &levelName, &order.SubjectID, &subjectName,
		&order.DeadlineID, &deadlineName,
		&order.Language, &order.Pages, &order.SpacingCode, &order.Instructions,
		&totalPriceText, &breakdownJSON, &order.Status,
		&executorID, &assignedAt, &adminNotes,
		&completionNotes, &rejectionReason,
		&completedAt, &rejectedAt, &order.RevisionCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.TotalPrice = totalPriceText

	var breakdown entities.PriceBreakdown
	if err := json.Unmarshal(breakdownJSON, &breakdown); err != nil {
		return nil, fmt.Errorf("некорректная детализация цены в БД: %w", err)
	}
	order.Breakdown = make([]dto.BreakdownLineDTO, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		order.Breakdown = append(order.Breakdown, dto.BreakdownLineDTO{
			Label:  line.Label,
			Amount: line.Amount.StringFixed(2),
		})
	}

	if levelName.Valid {
		order.AcademicLevelName = levelName.String
	}
	if subjectName.Valid {
		order.SubjectName = subjectName.String
	}
	if deadlineName.Valid {
		order.DeadlineName = deadlineName.String
	}
	if executorID.Valid {
		id := uint64(executorID.Int64)
		order.ExecutorID = &id
	}
	if assignedAt.Valid {
		order.AssignedAt = assignedAt.Time.Local().Format("2006-01-02 15:04:05")
	}
	if adminNotes.Valid {
		order.AdminNotes = adminNotes.String
	}
	if completionNotes.Valid {
		order.CompletionNotes = completionNotes.String
	}
	if rejectionReason.Valid {
		order.RejectionReason = rejectionReason.String
	}
	if completedAt.Valid {
		order.CompletedAt = completedAt.Time.Local().Format("2006-01-02 15:04:05")
	}
	if rejectedAt.Valid {
		order.RejectedAt = rejectedAt.Time.Local().Format("2006-01-02 15:04:05")
	}
	order.AddonIDs = make([]uint64, 0)
	order.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
	order.UpdatedAt = updatedAt.Local().Format("2006-01-02 15:04:05")

	return &order, nil
}
