package services

import (
	"strings"
	"time"

	"essaydesk/internal/entities"
	"essaydesk/pkg/constants"
	apperrors "essaydesk/pkg/errors"

	"github.com/aarondl/null/v8"
)

// TransitionPayload - данные события, собранные контроллером.
// Авторизация актёра выполняется до вызова, машина получает уже
// разрешённое намерение.
type TransitionPayload struct {
	ActorID uint64

	// assign
	ExecutorID uint64
	AdminNotes string

	// complete
	CompletionNotes string
	Files           []entities.FileIntent

	// reject
	RejectionReason string

	// request_revision
	RevisionComment string

	// set_status
	TargetStatus constants.OrderStatus
}

type OrderStateMachineInterface interface {
	Apply(order *entities.Order, event constants.OrderEvent, payload TransitionPayload) (*entities.OrderTransition, error)
}

// Таблица переходов: событие -> допустимые исходные статусы.
var allowedSources = map[constants.OrderEvent][]constants.OrderStatus{
	constants.EventAssign:   {constants.StatusPending},
	constants.EventComplete: {constants.StatusInProgress, constants.StatusRevision},
	constants.EventReject:   {constants.StatusPending, constants.StatusInProgress},
	// Доработка из completed разрешена таблицей переходов явно, это
	// единственное исключение из неизменяемости финальных статусов.
	constants.EventRequestRevision: {constants.StatusCompleted, constants.StatusInProgress},
}

// Допустимые целевые статусы административного перевода set_status.
var setStatusTargets = map[constants.OrderStatus]struct{}{
	constants.StatusDraft:     {},
	constants.StatusActive:    {},
	constants.StatusCompleted: {},
	constants.StatusCancelled: {},
	constants.StatusPending:   {},
	constants.StatusRevision:  {},
}

// OrderStateMachine валидирует переход и строит намерение: новый статус,
// изменения полей и побочные записи. Сама ничего не сохраняет - при
// любой ошибке заказ не меняется.
type OrderStateMachine struct {
	revisionLimit int
}

func NewOrderStateMachine(revisionLimit int) OrderStateMachineInterface {
	return &OrderStateMachine{revisionLimit: revisionLimit}
}

func (m *OrderStateMachine) Apply(order *entities.Order, event constants.OrderEvent, payload TransitionPayload) (*entities.OrderTransition, error) {
	switch event {
	case constants.EventAssign:
		return m.assign(order, payload)
	case constants.EventComplete:
		return m.complete(order, payload)
	case constants.EventReject:
		return m.reject(order, payload)
	case constants.EventRequestRevision:
		return m.requestRevision(order, payload)
	case constants.EventSetStatus:
		return m.setStatus(order, payload)
	default:
		return nil, apperrors.NewInvalidTransitionError(order.Status, event)
	}
}

func (m *OrderStateMachine) assign(order *entities.Order, payload TransitionPayload) (*entities.OrderTransition, error) {
	// Повторный assign по заказу in_progress - ошибка, а не тихий успех:
	// молчание маскировало бы двойное назначение.
	if err := m.checkSource(order, constants.EventAssign); err != nil {
		return nil, err
	}
	if payload.ExecutorID == 0 {
		return nil, apperrors.NewValidationError("для назначения требуется исполнитель")
	}

	tr := &entities.OrderTransition{
		NewStatus:  constants.StatusInProgress,
		ExecutorID: null.Uint64From(payload.ExecutorID),
		AssignedAt: null.TimeFrom(time.Now()),
	}
	if strings.TrimSpace(payload.AdminNotes) != "" {
		tr.AdminNotes = null.StringFrom(payload.AdminNotes)
	}
	return tr, nil
}

func (m *OrderStateMachine) complete(order *entities.Order, payload TransitionPayload) (*entities.OrderTransition, error) {
	if err := m.checkSource(order, constants.EventComplete); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.CompletionNotes) == "" {
		return nil, apperrors.NewValidationError("для завершения заказа требуется комментарий исполнителя")
	}
	if len(payload.Files) == 0 {
		return nil, apperrors.NewValidationError("для завершения заказа требуется хотя бы один файл работы")
	}

	return &entities.OrderTransition{
		NewStatus:       constants.StatusCompleted,
		CompletionNotes: null.StringFrom(payload.CompletionNotes),
		CompletedAt:     null.TimeFrom(time.Now()),
		Files:           payload.Files,
		Messages: []entities.MessageIntent{{
			Kind:    constants.MessageKindCompletion,
			Message: payload.CompletionNotes,
		}},
	}, nil
}

func (m *OrderStateMachine) reject(order *entities.Order, payload TransitionPayload) (*entities.OrderTransition, error) {
	if err := m.checkSource(order, constants.EventReject); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.RejectionReason) == "" {
		return nil, apperrors.NewValidationError("для отклонения заказа требуется причина")
	}

	return &entities.OrderTransition{
		NewStatus:       constants.StatusCancelled,
		RejectionReason: null.StringFrom(payload.RejectionReason),
		RejectedAt:      null.TimeFrom(time.Now()),
		Messages: []entities.MessageIntent{{
			Kind:    constants.MessageKindRejection,
			Message: payload.RejectionReason,
		}},
	}, nil
}

func (m *OrderStateMachine) requestRevision(order *entities.Order, payload TransitionPayload) (*entities.OrderTransition, error) {
	if err := m.checkSource(order, constants.EventRequestRevision); err != nil {
		return nil, err
	}
	if order.RevisionCount >= m.revisionLimit {
		return nil, apperrors.ErrRevisionLimitExceeded
	}

	tr := &entities.OrderTransition{
		NewStatus:     constants.StatusRevision,
		RevisionCount: null.IntFrom(order.RevisionCount + 1),
	}
	if strings.TrimSpace(payload.RevisionComment) != "" {
		tr.Messages = []entities.MessageIntent{{
			Kind:    constants.MessageKindOrdinary,
			Message: payload.RevisionComment,
		}}
	}
	return tr, nil
}

// setStatus - административный перевод в обход направляемых событий.
// Из финальных статусов запрещён, как и все остальные события.
func (m *OrderStateMachine) setStatus(order *entities.Order, payload TransitionPayload) (*entities.OrderTransition, error) {
	if constants.IsTerminalStatus(order.Status) {
		return nil, apperrors.NewInvalidTransitionError(order.Status, constants.EventSetStatus)
	}
	if _, ok := setStatusTargets[payload.TargetStatus]; !ok {
		return nil, apperrors.NewValidationError("недопустимый целевой статус: %q", payload.TargetStatus)
	}

	tr := &entities.OrderTransition{NewStatus: payload.TargetStatus}
	switch payload.TargetStatus {
	case constants.StatusCompleted:
		tr.CompletedAt = null.TimeFrom(time.Now())
	case constants.StatusCancelled:
		tr.RejectedAt = null.TimeFrom(time.Now())
	}
	return tr, nil
}

func (m *OrderStateMachine) checkSource(order *entities.Order, event constants.OrderEvent) error {
	for _, src := range allowedSources[event] {
		if order.Status == src {
			return nil
		}
	}
	return apperrors.NewInvalidTransitionError(order.Status, event)
}
