package services

import (
	"context"
	"io"
	"testing"

	"essaydesk/internal/dto"
	"essaydesk/internal/entities"
	"essaydesk/pkg/constants"
	apperrors "essaydesk/pkg/errors"
	"essaydesk/pkg/eventbus"
	"essaydesk/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDB имитирует транзакционное хранилище: записи внутри транзакции
// попадают в staged-буферы и применяются только при коммите.
type fakeDB struct {
	order    entities.Order
	messages []entities.OrderMessage
	files    []entities.OrderFile

	stagedTransition *entities.OrderTransition
	stagedPricing    *entities.Order
	stagedMessages   []entities.OrderMessage
	stagedFiles      []entities.OrderFile

	fileCreateErr error
}

func (db *fakeDB) resetStaged() {
	db.stagedTransition = nil
	db.stagedPricing = nil
	db.stagedMessages = nil
	db.stagedFiles = nil
}

func (db *fakeDB) commit() {
	if tr := db.stagedTransition; tr != nil {
		db.order.Status = tr.NewStatus
		if tr.ExecutorID.Valid {
			db.order.ExecutorID = tr.ExecutorID
		}
		if tr.AssignedAt.Valid {
			db.order.AssignedAt = tr.AssignedAt
		}
		if tr.AdminNotes.Valid {
			db.order.AdminNotes = tr.AdminNotes
		}
		if tr.CompletionNotes.Valid {
			db.order.CompletionNotes = tr.CompletionNotes
		}
		if tr.CompletedAt.Valid {
			db.order.CompletedAt = tr.CompletedAt
		}
		if tr.RejectionReason.Valid {
			db.order.RejectionReason = tr.RejectionReason
		}
		if tr.RejectedAt.Valid {
			db.order.RejectedAt = tr.RejectedAt
		}
		if tr.RevisionCount.Valid {
			db.order.RevisionCount = tr.RevisionCount.Int
		}
	}
	if sp := db.stagedPricing; sp != nil {
		db.order.AcademicLevelID = sp.AcademicLevelID
		db.order.DeadlineID = sp.DeadlineID
		db.order.Pages = sp.Pages
		db.order.SpacingCode = sp.SpacingCode
		db.order.AddonIDs = sp.AddonIDs
		db.order.TotalPrice = sp.TotalPrice
		db.order.Breakdown = sp.Breakdown
	}
	db.messages = append(db.messages, db.stagedMessages...)
	db.files = append(db.files, db.stagedFiles...)
	db.resetStaged()
}

type fakeTxManager struct {
	db *fakeDB
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.db.resetStaged()
	if err := fn(nil); err != nil {
		m.db.resetStaged()
		return err
	}
	m.db.commit()
	return nil
}

type fakeOrderRepo struct {
	db *fakeDB
}

func (r *fakeOrderRepo) GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error) {
	res, err := r.FindOrder(ctx, r.db.order.ID)
	if err != nil {
		return []dto.OrderDTO{}, 0, nil
	}
	return []dto.OrderDTO{*res}, 1, nil
}

func (r *fakeOrderRepo) FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	if r.db.order.ID == 0 || r.db.order.ID != id {
		return nil, apperrors.ErrNotFound
	}
	order := r.db.order
	res := &dto.OrderDTO{
		ID:            order.ID,
		ClientID:      order.ClientID,
		Pages:         order.Pages,
		SpacingCode:   order.SpacingCode,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		Status:        string(order.Status),
		RevisionCount: order.RevisionCount,
		AddonIDs:      order.AddonIDs,
	}
	if order.ExecutorID.Valid {
		id := order.ExecutorID.Uint64
		res.ExecutorID = &id
	}
	return res, nil
}

func (r *fakeOrderRepo) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error) {
	order.ID = 1
	r.db.order = *order
	return 1, nil
}

func (r *fakeOrderRepo) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	if r.db.order.ID == 0 || r.db.order.ID != id {
		return nil, apperrors.ErrNotFound
	}
	order := r.db.order
	return &order, nil
}

func (r *fakeOrderRepo) ApplyTransitionInTx(ctx context.Context, tx pgx.Tx, id uint64, tr *entities.OrderTransition) error {
	r.db.stagedTransition = tr
	return nil
}

func (r *fakeOrderRepo) UpdatePricingInTx(ctx context.Context, tx pgx.Tx, id uint64, order *entities.Order) error {
	staged := *order
	r.db.stagedPricing = &staged
	return nil
}

type fakeMessageRepo struct {
	db *fakeDB
}

func (r *fakeMessageRepo) CreateInTx(ctx context.Context, tx pgx.Tx, message *entities.OrderMessage) (uint64, error) {
	r.db.stagedMessages = append(r.db.stagedMessages, *message)
	return uint64(len(r.db.stagedMessages)), nil
}

func (r *fakeMessageRepo) ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderMessageDTO, error) {
	res := make([]dto.OrderMessageDTO, 0, len(r.db.messages))
	for _, m := range r.db.messages {
		res = append(res, dto.OrderMessageDTO{OrderID: m.OrderID, SenderID: m.SenderID, Kind: m.Kind, Message: m.Message})
	}
	return res, nil
}

type fakeFileRepo struct {
	db *fakeDB
}

func (r *fakeFileRepo) CreateInTx(ctx context.Context, tx pgx.Tx, file *entities.OrderFile) (uint64, error) {
	if r.db.fileCreateErr != nil {
		return 0, r.db.fileCreateErr
	}
	r.db.stagedFiles = append(r.db.stagedFiles, *file)
	return uint64(len(r.db.stagedFiles)), nil
}

func (r *fakeFileRepo) ListByOrder(ctx context.Context, orderID uint64) ([]dto.OrderFileDTO, error) {
	res := make([]dto.OrderFileDTO, 0, len(r.db.files))
	for _, f := range r.db.files {
		res = append(res, dto.OrderFileDTO{OrderID: f.OrderID, Name: f.Name, Path: f.Path, Size: f.Size, Type: f.Type})
	}
	return res, nil
}

type fakeCatalogService struct {
	snapshot *entities.CatalogSnapshot
}

func (s *fakeCatalogService) GetSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	return s.snapshot, nil
}

func (s *fakeCatalogService) GetCatalog(ctx context.Context) (*dto.CatalogDTO, error) {
	return &dto.CatalogDTO{}, nil
}

func (s *fakeCatalogService) InvalidateCache(ctx context.Context) error { return nil }

type fakeFileStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, int64, error) {
	path := prefix + "/" + originalFileName
	s.saved = append(s.saved, path)
	return path, 42, nil
}

func (s *fakeFileStorage) Delete(filePath string) error {
	s.deleted = append(s.deleted, filePath)
	return nil
}

func newTestOrderService(db *fakeDB) (OrderServiceInterface, *fakeFileStorage) {
	storage := &fakeFileStorage{}
	svc := NewOrderService(
		&fakeOrderRepo{db: db},
		&fakeMessageRepo{db: db},
		&fakeFileRepo{db: db},
		&fakeCatalogService{snapshot: testCatalog()},
		NewPriceCalculator(),
		NewOrderStateMachine(3),
		&fakeTxManager{db: db},
		storage,
		eventbus.New(zap.NewNop()),
		zap.NewNop(),
	)
	return svc, storage
}

func seededOrder(status constants.OrderStatus) entities.Order {
	calc := NewPriceCalculator()
	breakdown, _ := calc.Quote(PriceConfig{
		Pages:           5,
		SpacingCode:     "double",
		AcademicLevelID: 2,
		DeadlineID:      1,
	}, testCatalog())
	return entities.Order{
		ID:              1,
		ClientID:        10,
		AcademicLevelID: 2,
		SubjectID:       1,
		DeadlineID:      1,
		Pages:           5,
		SpacingCode:     "double",
		TotalPrice:      breakdown.Total,
		Breakdown:       *breakdown,
		Status:          status,
	}
}

func TestCreateOrderDraftAndPending(t *testing.T) {
	payload := dto.CreateOrderDTO{
		AssignmentType:  "Эссе",
		ServiceType:     "Написание",
		AcademicLevelID: 2,
		SubjectID:       1,
		DeadlineID:      1,
		Language:        "Русский",
		Pages:           5,
		SpacingCode:     "double",
	}

	db := &fakeDB{}
	svc, _ := newTestOrderService(db)
	res, err := svc.CreateOrder(context.Background(), 10, payload)
	require.NoError(t, err)
	assert.Equal(t, string(constants.StatusDraft), res.Status)
	assert.Equal(t, "126.00", res.TotalPrice)

	payload.Submit = true
	db = &fakeDB{}
	svc, _ = newTestOrderService(db)
	res, err = svc.CreateOrder(context.Background(), 10, payload)
	require.NoError(t, err)
	assert.Equal(t, string(constants.StatusPending), res.Status)
}

func TestCreateOrderInactiveSubject(t *testing.T) {
	db := &fakeDB{}
	svc, _ := newTestOrderService(db)

	_, err := svc.CreateOrder(context.Background(), 10, dto.CreateOrderDTO{
		AssignmentType:  "Эссе",
		ServiceType:     "Написание",
		AcademicLevelID: 2,
		SubjectID:       99,
		DeadlineID:      1,
		Language:        "Русский",
		Pages:           5,
		SpacingCode:     "double",
	})

	var catalogErr *apperrors.UnknownCatalogEntryError
	require.ErrorAs(t, err, &catalogErr)
}

func TestApplyTransitionAssign(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusPending)}
	svc, _ := newTestOrderService(db)

	res, err := svc.ApplyTransition(context.Background(), 1, constants.EventAssign, TransitionPayload{
		ActorID:    5,
		ExecutorID: 42,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, string(constants.StatusInProgress), res.Status)
	require.NotNil(t, res.ExecutorID)
	assert.Equal(t, uint64(42), *res.ExecutorID)
	assert.True(t, db.order.AssignedAt.Valid)
}

func TestApplyTransitionCompleteWritesSideEffects(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusInProgress)}
	svc, _ := newTestOrderService(db)

	res, err := svc.ApplyTransition(context.Background(), 1, constants.EventComplete, TransitionPayload{
		ActorID:         5,
		CompletionNotes: "работа готова",
		Files: []entities.FileIntent{
			{Name: "essay.docx", Path: "orders/essay.docx", Size: 2048, Type: constants.FileTypeCompleted},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, string(constants.StatusCompleted), res.Status)
	require.Len(t, db.files, 1)
	assert.Equal(t, "essay.docx", db.files[0].Name)
	require.Len(t, db.messages, 1)
	assert.Equal(t, constants.MessageKindCompletion, db.messages[0].Kind)
	assert.Equal(t, uint64(5), db.messages[0].SenderID)
}

// Отказ побочной записи откатывает весь переход: статус не меняется,
// осиротевших сообщений и файлов не остаётся.
func TestApplyTransitionAtomicity(t *testing.T) {
	db := &fakeDB{
		order:         seededOrder(constants.StatusInProgress),
		fileCreateErr: apperrors.ErrPersistenceFailure,
	}
	svc, _ := newTestOrderService(db)

	_, err := svc.ApplyTransition(context.Background(), 1, constants.EventComplete, TransitionPayload{
		ActorID:         5,
		CompletionNotes: "работа готова",
		Files: []entities.FileIntent{
			{Name: "essay.docx", Path: "orders/essay.docx", Size: 2048, Type: constants.FileTypeCompleted},
		},
	}, nil)
	require.ErrorIs(t, err, apperrors.ErrPersistenceFailure)

	assert.Equal(t, constants.StatusInProgress, db.order.Status)
	assert.Empty(t, db.messages)
	assert.Empty(t, db.files)
	assert.False(t, db.order.CompletedAt.Valid)
}

func TestApplyTransitionInvalidFromTerminal(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusCompleted)}
	svc, _ := newTestOrderService(db)

	_, err := svc.ApplyTransition(context.Background(), 1, constants.EventAssign, TransitionPayload{
		ActorID:    5,
		ExecutorID: 7,
	}, nil)

	var transitionErr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, constants.StatusCompleted, db.order.Status)
	assert.False(t, db.order.ExecutorID.Valid)
}

func TestRecomputePrice(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusInProgress)}
	svc, _ := newTestOrderService(db)

	newPages := 10
	res, err := svc.RecomputePrice(context.Background(), 1, dto.RecalculateOrderDTO{Pages: &newPages})
	require.NoError(t, err)

	// 10 * 10.00 * 1.5 * 1.4 * 1.2 = 252.00
	assert.Equal(t, "252.00", res.TotalPrice)
	assert.Equal(t, 10, db.order.Pages)
}

func TestRecomputePriceOnTerminalOrder(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusCompleted)}
	svc, _ := newTestOrderService(db)

	newPages := 10
	_, err := svc.RecomputePrice(context.Background(), 1, dto.RecalculateOrderDTO{Pages: &newPages})
	require.ErrorIs(t, err, apperrors.ErrOrderLocked)
	assert.Equal(t, 5, db.order.Pages)
	assert.Equal(t, "126.00", db.order.TotalPrice.StringFixed(2))
}

func TestRecomputePriceRejectsInactiveNewSelection(t *testing.T) {
	db := &fakeDB{order: seededOrder(constants.StatusInProgress)}
	svc, _ := newTestOrderService(db)

	inactiveLevel := uint64(3)
	_, err := svc.RecomputePrice(context.Background(), 1, dto.RecalculateOrderDTO{AcademicLevelID: &inactiveLevel})

	var catalogErr *apperrors.UnknownCatalogEntryError
	require.ErrorAs(t, err, &catalogErr)
}
