package services

import (
	"testing"

	"essaydesk/internal/entities"
	"essaydesk/pkg/constants"
	apperrors "essaydesk/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine() OrderStateMachineInterface {
	return NewOrderStateMachine(3)
}

func orderInStatus(status constants.OrderStatus) *entities.Order {
	return &entities.Order{ID: 1, ClientID: 10, Status: status}
}

func TestAssignFromPending(t *testing.T) {
	machine := newMachine()

	tr, err := machine.Apply(orderInStatus(constants.StatusPending), constants.EventAssign, TransitionPayload{
		ActorID:    5,
		ExecutorID: 42,
		AdminNotes: "срочный заказ",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusInProgress, tr.NewStatus)
	require.True(t, tr.ExecutorID.Valid)
	assert.Equal(t, uint64(42), tr.ExecutorID.Uint64)
	assert.True(t, tr.AssignedAt.Valid)
	assert.Equal(t, "срочный заказ", tr.AdminNotes.String)
}

func TestAssignRequiresExecutor(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusPending), constants.EventAssign, TransitionPayload{ActorID: 5})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

// Повторный assign по уже взятому в работу заказу - ошибка, не тихий успех.
func TestAssignTwiceFails(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusInProgress), constants.EventAssign, TransitionPayload{
		ActorID:    5,
		ExecutorID: 42,
	})

	var transitionErr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, constants.StatusInProgress, transitionErr.From)
}

func TestCompleteProducesSideEffectIntents(t *testing.T) {
	machine := newMachine()

	tr, err := machine.Apply(orderInStatus(constants.StatusInProgress), constants.EventComplete, TransitionPayload{
		ActorID:         5,
		CompletionNotes: "работа готова",
		Files: []entities.FileIntent{
			{Name: "essay.docx", Path: "orders/2026/08/28/essay.docx", Size: 2048, Type: constants.FileTypeCompleted},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusCompleted, tr.NewStatus)
	assert.True(t, tr.CompletedAt.Valid)
	assert.Equal(t, "работа готова", tr.CompletionNotes.String)
	require.Len(t, tr.Files, 1)
	require.Len(t, tr.Messages, 1)
	assert.Equal(t, constants.MessageKindCompletion, tr.Messages[0].Kind)
}

func TestCompleteWithoutFilesFails(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusInProgress), constants.EventComplete, TransitionPayload{
		ActorID:         5,
		CompletionNotes: "done",
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCompleteWithoutNotesFails(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusInProgress), constants.EventComplete, TransitionPayload{
		ActorID: 5,
		Files:   []entities.FileIntent{{Name: "essay.docx"}},
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRejectRequiresReason(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusPending), constants.EventReject, TransitionPayload{ActorID: 5})
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	tr, err := machine.Apply(orderInStatus(constants.StatusPending), constants.EventReject, TransitionPayload{
		ActorID:         5,
		RejectionReason: "тема вне компетенции",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCancelled, tr.NewStatus)
	assert.True(t, tr.RejectedAt.Valid)
	require.Len(t, tr.Messages, 1)
	assert.Equal(t, constants.MessageKindRejection, tr.Messages[0].Kind)
}

func TestRevisionCeiling(t *testing.T) {
	machine := newMachine()
	order := orderInStatus(constants.StatusInProgress)

	for i := 0; i < 3; i++ {
		tr, err := machine.Apply(order, constants.EventRequestRevision, TransitionPayload{ActorID: 10})
		require.NoError(t, err)
		assert.Equal(t, constants.StatusRevision, tr.NewStatus)
		require.True(t, tr.RevisionCount.Valid)
		order.RevisionCount = tr.RevisionCount.Int
		order.Status = constants.StatusInProgress
	}

	_, err := machine.Apply(order, constants.EventRequestRevision, TransitionPayload{ActorID: 10})
	require.ErrorIs(t, err, apperrors.ErrRevisionLimitExceeded)
}

func TestRevisionFromCompleted(t *testing.T) {
	machine := newMachine()

	tr, err := machine.Apply(orderInStatus(constants.StatusCompleted), constants.EventRequestRevision, TransitionPayload{
		ActorID:         10,
		RevisionComment: "исправьте третий раздел",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusRevision, tr.NewStatus)
	require.Len(t, tr.Messages, 1)
	assert.Equal(t, constants.MessageKindOrdinary, tr.Messages[0].Kind)
}

func TestSetStatusOverride(t *testing.T) {
	machine := newMachine()

	tr, err := machine.Apply(orderInStatus(constants.StatusDraft), constants.EventSetStatus, TransitionPayload{
		ActorID:      1,
		TargetStatus: constants.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusActive, tr.NewStatus)
}

func TestSetStatusRejectsUnknownTarget(t *testing.T) {
	machine := newMachine()

	_, err := machine.Apply(orderInStatus(constants.StatusDraft), constants.EventSetStatus, TransitionPayload{
		ActorID:      1,
		TargetStatus: constants.StatusInProgress,
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

// Из финальных статусов не выйти никаким событием, кроме явно
// разрешённой доработки из completed.
func TestTerminalImmutability(t *testing.T) {
	machine := newMachine()

	events := []constants.OrderEvent{
		constants.EventAssign,
		constants.EventComplete,
		constants.EventReject,
		constants.EventRequestRevision,
		constants.EventSetStatus,
	}

	for _, status := range constants.TerminalStatuses {
		for _, event := range events {
			if status == constants.StatusCompleted && event == constants.EventRequestRevision {
				continue
			}
			t.Run(string(status)+"_"+string(event), func(t *testing.T) {
				_, err := machine.Apply(orderInStatus(status), event, TransitionPayload{
					ActorID:         1,
					ExecutorID:      42,
					CompletionNotes: "x",
					Files:           []entities.FileIntent{{Name: "f"}},
					RejectionReason: "x",
					TargetStatus:    constants.StatusActive,
				})
				var transitionErr *apperrors.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
			})
		}
	}
}

// Замыкание таблицы переходов: любое событие либо даёт задекларированный
// целевой статус, либо InvalidTransition.
func TestTransitionClosure(t *testing.T) {
	machine := newMachine()

	allStatuses := []constants.OrderStatus{
		constants.StatusDraft, constants.StatusPending, constants.StatusInProgress,
		constants.StatusRevision, constants.StatusActive, constants.StatusCompleted,
		constants.StatusCancelled,
	}

	destinations := map[constants.OrderEvent]constants.OrderStatus{
		constants.EventAssign:          constants.StatusInProgress,
		constants.EventComplete:        constants.StatusCompleted,
		constants.EventReject:          constants.StatusCancelled,
		constants.EventRequestRevision: constants.StatusRevision,
	}

	payload := TransitionPayload{
		ActorID:         1,
		ExecutorID:      42,
		CompletionNotes: "готово",
		Files:           []entities.FileIntent{{Name: "essay.docx"}},
		RejectionReason: "причина",
	}

	for event, wantDest := range destinations {
		for _, status := range allStatuses {
			tr, err := machine.Apply(orderInStatus(status), event, payload)
			if err != nil {
				var transitionErr *apperrors.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr,
					"событие %s из %s вернуло неожиданную ошибку: %v", event, status, err)
				continue
			}
			assert.Equal(t, wantDest, tr.NewStatus, "событие %s из %s", event, status)
		}
	}
}
