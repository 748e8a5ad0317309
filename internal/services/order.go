package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"essaydesk/internal/dto"
	"essaydesk/internal/entities"
	"essaydesk/internal/events"
	"essaydesk/internal/repositories"
	"essaydesk/pkg/constants"
	apperrors "essaydesk/pkg/errors"
	"essaydesk/pkg/eventbus"
	"essaydesk/pkg/filestorage"
	"essaydesk/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error)
	GetOrderMessages(ctx context.Context, orderID uint64) ([]dto.OrderMessageDTO, error)
	GetOrderFiles(ctx context.Context, orderID uint64) ([]dto.OrderFileDTO, error)
	CreateOrder(ctx context.Context, clientID uint64, payload dto.CreateOrderDTO) (*dto.OrderDTO, error)
	ApplyTransition(ctx context.Context, orderID uint64, event constants.OrderEvent, payload TransitionPayload, uploads []*multipart.FileHeader) (*dto.OrderDTO, error)
	RecomputePrice(ctx context.Context, orderID uint64, payload dto.RecalculateOrderDTO) (*dto.OrderDTO, error)
}

// OrderService - единственный слой, которому разрешено начинать и
// откатывать транзакции. Смена статуса и побочные записи фиксируются
// одной транзакцией либо не фиксируются вовсе.
type OrderService struct {
	orderRepo      repositories.OrderRepositoryInterface
	messageRepo    repositories.OrderMessageRepositoryInterface
	fileRepo       repositories.OrderFileRepositoryInterface
	catalogService CatalogServiceInterface
	calculator     PriceCalculatorInterface
	stateMachine   OrderStateMachineInterface
	txManager      repositories.TxManagerInterface
	fileStorage    filestorage.FileStorageInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	messageRepo repositories.OrderMessageRepositoryInterface,
	fileRepo repositories.OrderFileRepositoryInterface,
	catalogService CatalogServiceInterface,
	calculator PriceCalculatorInterface,
	stateMachine OrderStateMachineInterface,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:      orderRepo,
		messageRepo:    messageRepo,
		fileRepo:       fileRepo,
		catalogService: catalogService,
		calculator:     calculator,
		stateMachine:   stateMachine,
		txManager:      txManager,
		fileStorage:    fileStorage,
		bus:            bus,
		logger:         logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error) {
	return s.orderRepo.GetOrders(ctx, filter)
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	return s.orderRepo.FindOrder(ctx, id)
}

func (s *OrderService) GetOrderMessages(ctx context.Context, orderID uint64) ([]dto.OrderMessageDTO, error) {
	if _, err := s.orderRepo.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByOrder(ctx, orderID)
}

func (s *OrderService) GetOrderFiles(ctx context.Context, orderID uint64) ([]dto.OrderFileDTO, error) {
	if _, err := s.orderRepo.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.fileRepo.ListByOrder(ctx, orderID)
}

// CreateOrder считает первичную цену и сохраняет заказ во входном статусе:
// pending при отправке, draft при сохранении черновика.
func (s *OrderService) CreateOrder(ctx context.Context, clientID uint64, payload dto.CreateOrderDTO) (*dto.OrderDTO, error) {
	snapshot, err := s.catalogService.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	subject, ok := snapshot.Subjects[payload.SubjectID]
	if !ok || !subject.IsActive {
		return nil, apperrors.NewUnknownCatalogEntryError("предмет", fmt.Sprintf("%d", payload.SubjectID))
	}

	breakdown, err := s.calculator.Quote(PriceConfig{
		Pages:           payload.Pages,
		SpacingCode:     payload.SpacingCode,
		AcademicLevelID: payload.AcademicLevelID,
		DeadlineID:      payload.DeadlineID,
		AddonIDs:        payload.AddonIDs,
	}, snapshot)
	if err != nil {
		return nil, err
	}

	status := constants.StatusDraft
	if payload.Submit {
		status = constants.StatusPending
	}

	order := &entities.Order{
		ClientID:        clientID,
		AssignmentType:  payload.AssignmentType,
		ServiceType:     payload.ServiceType,
		AcademicLevelID: payload.AcademicLevelID,
		SubjectID:       payload.SubjectID,
		DeadlineID:      payload.DeadlineID,
		Language:        payload.Language,
		Pages:           payload.Pages,
		SpacingCode:     payload.SpacingCode,
		Instructions:    payload.Instructions,
		AddonIDs:        payload.AddonIDs,
		TotalPrice:      breakdown.Total,
		Breakdown:       *breakdown,
		Status:          status,
	}

	var newOrderID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		newOrderID, err = s.orderRepo.CreateOrderInTx(ctx, tx, order)
		return err
	})
	if err != nil {
		s.logger.Error("Не удалось создать заказ", zap.Uint64("clientID", clientID), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderCreatedEvent{
		OrderID:  newOrderID,
		ClientID: clientID,
		Status:   status,
		Total:    breakdown.Total.StringFixed(2),
	})

	return s.orderRepo.FindOrder(ctx, newOrderID)
}

// ApplyTransition выполняет переход статуса вместе со всеми побочными
// записями как одну атомарную единицу. Файлы завершения сохраняются во
// внешнее хранилище до транзакции; если переход не зафиксирован,
// сохранённые файлы удаляются по мере возможности.
func (s *OrderService) ApplyTransition(ctx context.Context, orderID uint64, event constants.OrderEvent, payload TransitionPayload, uploads []*multipart.FileHeader) (*dto.OrderDTO, error) {
	savedPaths := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		src, err := upload.Open()
		if err != nil {
			s.cleanupFiles(savedPaths)
			return nil, apperrors.NewValidationError("не удалось прочитать файл %q", upload.Filename)
		}
		path, size, err := s.fileStorage.Save(src, upload.Filename, "orders")
		src.Close()
		if err != nil {
			s.cleanupFiles(savedPaths)
			return nil, fmt.Errorf("ошибка сохранения файла %q: %w", upload.Filename, err)
		}
		savedPaths = append(savedPaths, path)
		payload.Files = append(payload.Files, entities.FileIntent{
			Name: upload.Filename,
			Path: path,
			Size: size,
			Type: constants.FileTypeCompleted,
		})
	}

	var (
		fromStatus constants.OrderStatus
		toStatus   constants.OrderStatus
	)

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		fromStatus = order.Status

		transition, err := s.stateMachine.Apply(order, event, payload)
		if err != nil {
			return err
		}
		toStatus = transition.NewStatus

		if err := s.orderRepo.ApplyTransitionInTx(ctx, tx, orderID, transition); err != nil {
			return err
		}

		for _, intent := range transition.Messages {
			message := &entities.OrderMessage{
				OrderID:  orderID,
				SenderID: payload.ActorID,
				Kind:     intent.Kind,
				Message:  intent.Message,
			}
			if _, err := s.messageRepo.CreateInTx(ctx, tx, message); err != nil {
				return err
			}
		}

		for _, intent := range transition.Files {
			file := &entities.OrderFile{
				OrderID: orderID,
				Name:    intent.Name,
				Path:    intent.Path,
				Size:    intent.Size,
				Type:    intent.Type,
			}
			if _, err := s.fileRepo.CreateInTx(ctx, tx, file); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.cleanupFiles(savedPaths)
		s.logger.Warn("Переход статуса заказа отклонён",
			zap.Uint64("orderID", orderID),
			zap.String("event", string(event)),
			zap.Error(err),
		)
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderTransitionedEvent{
		OrderID: orderID,
		ActorID: payload.ActorID,
		Event:   event,
		From:    fromStatus,
		To:      toStatus,
	})

	return s.orderRepo.FindOrder(ctx, orderID)
}

// RecomputePrice пересчитывает цену по текущему каталогу. Разрешён только
// для нефинальных статусов; для completed/cancelled возвращает ErrOrderLocked.
func (s *OrderService) RecomputePrice(ctx context.Context, orderID uint64, payload dto.RecalculateOrderDTO) (*dto.OrderDTO, error) {
	snapshot, err := s.catalogService.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var (
		oldTotal string
		newTotal string
	)

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if constants.IsTerminalStatus(order.Status) {
			return apperrors.ErrOrderLocked
		}
		oldTotal = order.TotalPrice.StringFixed(2)

		if err := mergeRecalculation(order, payload, snapshot); err != nil {
			return err
		}

		breakdown, err := s.calculator.Recalculate(PriceConfig{
			Pages:           order.Pages,
			SpacingCode:     order.SpacingCode,
			AcademicLevelID: order.AcademicLevelID,
			DeadlineID:      order.DeadlineID,
			AddonIDs:        order.AddonIDs,
		}, snapshot)
		if err != nil {
			return err
		}

		order.TotalPrice = breakdown.Total
		order.Breakdown = *breakdown
		newTotal = breakdown.Total.StringFixed(2)

		return s.orderRepo.UpdatePricingInTx(ctx, tx, orderID, order)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderRepricedEvent{
		OrderID:  orderID,
		OldTotal: oldTotal,
		NewTotal: newTotal,
	})

	return s.orderRepo.FindOrder(ctx, orderID)
}

// mergeRecalculation накладывает частичное изменение конфигурации на заказ.
// Ранее выбранные позиции остаются действительными даже после деактивации,
// но вновь выбираемые должны быть активны.
func mergeRecalculation(order *entities.Order, payload dto.RecalculateOrderDTO, snapshot *entities.CatalogSnapshot) error {
	if payload.AcademicLevelID != nil && *payload.AcademicLevelID != order.AcademicLevelID {
		level, ok := snapshot.Levels[*payload.AcademicLevelID]
		if !ok || !level.IsActive {
			return apperrors.NewUnknownCatalogEntryError("уровень", fmt.Sprintf("%d", *payload.AcademicLevelID))
		}
		order.AcademicLevelID = *payload.AcademicLevelID
	}
	if payload.DeadlineID != nil && *payload.DeadlineID != order.DeadlineID {
		deadline, ok := snapshot.Deadlines[*payload.DeadlineID]
		if !ok || !deadline.IsActive {
			return apperrors.NewUnknownCatalogEntryError("срок", fmt.Sprintf("%d", *payload.DeadlineID))
		}
		order.DeadlineID = *payload.DeadlineID
	}
	if payload.SpacingCode != nil && *payload.SpacingCode != order.SpacingCode {
		spacing, ok := snapshot.Spacings[*payload.SpacingCode]
		if !ok || !spacing.IsActive {
			return apperrors.NewUnknownCatalogEntryError("интервал", *payload.SpacingCode)
		}
		order.SpacingCode = *payload.SpacingCode
	}
	if payload.Pages != nil {
		order.Pages = *payload.Pages
	}
	if payload.AddonIDs != nil {
		current := make(map[uint64]struct{}, len(order.AddonIDs))
		for _, id := range order.AddonIDs {
			current[id] = struct{}{}
		}
		for _, id := range *payload.AddonIDs {
			if _, already := current[id]; already {
				continue
			}
			addon, ok := snapshot.Addons[id]
			if !ok || !addon.IsActive {
				return apperrors.NewUnknownCatalogEntryError("доп. услуга", fmt.Sprintf("%d", id))
			}
		}
		order.AddonIDs = *payload.AddonIDs
	}
	return nil
}

func (s *OrderService) cleanupFiles(paths []string) {
	for _, path := range paths {
		if err := s.fileStorage.Delete(path); err != nil {
			s.logger.Warn("Не удалось удалить файл после отката", zap.String("path", path), zap.Error(err))
		}
	}
}
