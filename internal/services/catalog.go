package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"essaydesk/internal/dto"
	"essaydesk/internal/entities"
	"essaydesk/internal/repositories"

	"go.uber.org/zap"
)

const catalogSnapshotCacheKey = "catalog:snapshot"

type CatalogServiceInterface interface {
	// GetSnapshot возвращает полный снимок каталога, включая неактивные позиции.
	GetSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error)

	// GetCatalog возвращает только активные позиции для витрины конфигуратора.
	GetCatalog(ctx context.Context) (*dto.CatalogDTO, error)

	InvalidateCache(ctx context.Context) error
}

type CatalogService struct {
	catalogRepo repositories.CatalogRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CatalogServiceInterface {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetSnapshot сначала пробует кеш; любая ошибка кеша не фатальна,
// источник истины - БД.
func (s *CatalogService) GetSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	if cached, err := s.cacheRepo.Get(ctx, catalogSnapshotCacheKey); err == nil && cached != "" {
		var snapshot entities.CatalogSnapshot
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			return &snapshot, nil
		}
		s.logger.Warn("Повреждённый снимок каталога в кеше, читаем из БД",
			zap.String("key", catalogSnapshotCacheKey))
	}

	snapshot, err := s.catalogRepo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		if err := s.cacheRepo.Set(ctx, catalogSnapshotCacheKey, string(raw), s.cacheTTL); err != nil {
			s.logger.Warn("Не удалось закешировать снимок каталога", zap.Error(err))
		}
	}

	return snapshot, nil
}

func (s *CatalogService) GetCatalog(ctx context.Context) (*dto.CatalogDTO, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	catalog := &dto.CatalogDTO{
		BasePricePerPage: snapshot.BasePricePerPage.StringFixed(2),
		Levels:           make([]dto.AcademicLevelDTO, 0, len(snapshot.Levels)),
		Deadlines:        make([]dto.DeadlineOptionDTO, 0, len(snapshot.Deadlines)),
		Addons:           make([]dto.AddonDTO, 0, len(snapshot.Addons)),
		Spacings:         make([]dto.SpacingModeDTO, 0, len(snapshot.Spacings)),
		Subjects:         make([]dto.SubjectDTO, 0, len(snapshot.Subjects)),
	}

	for _, level := range snapshot.Levels {
		if !level.IsActive {
			continue
		}
		catalog.Levels = append(catalog.Levels, dto.AcademicLevelDTO{
			ID:         level.ID,
			Name:       level.Name,
			Multiplier: level.Multiplier.String(),
		})
	}
	sort.Slice(catalog.Levels, func(i, j int) bool { return catalog.Levels[i].ID < catalog.Levels[j].ID })

	for _, deadline := range snapshot.Deadlines {
		if !deadline.IsActive {
			continue
		}
		catalog.Deadlines = append(catalog.Deadlines, dto.DeadlineOptionDTO{
			ID:         deadline.ID,
			Name:       deadline.Name,
			Hours:      deadline.Hours,
			Multiplier: deadline.Multiplier.String(),
		})
	}
	sort.Slice(catalog.Deadlines, func(i, j int) bool { return catalog.Deadlines[i].Hours < catalog.Deadlines[j].Hours })

	for _, addon := range snapshot.Addons {
		if !addon.IsActive {
			continue
		}
		catalog.Addons = append(catalog.Addons, dto.AddonDTO{
			ID:     addon.ID,
			Name:   addon.Name,
			Price:  addon.Price.StringFixed(2),
			IsFree: addon.IsFree,
		})
	}
	sort.Slice(catalog.Addons, func(i, j int) bool { return catalog.Addons[i].ID < catalog.Addons[j].ID })

	for _, spacing := range snapshot.Spacings {
		if !spacing.IsActive {
			continue
		}
		catalog.Spacings = append(catalog.Spacings, dto.SpacingModeDTO{
			Code:       spacing.Code,
			Name:       spacing.Name,
			Multiplier: spacing.Multiplier.String(),
		})
	}
	sort.Slice(catalog.Spacings, func(i, j int) bool { return catalog.Spacings[i].Code < catalog.Spacings[j].Code })

	for _, subject := range snapshot.Subjects {
		if !subject.IsActive {
			continue
		}
		catalog.Subjects = append(catalog.Subjects, dto.SubjectDTO{ID: subject.ID, Name: subject.Name})
	}
	sort.Slice(catalog.Subjects, func(i, j int) bool { return catalog.Subjects[i].ID < catalog.Subjects[j].ID })

	return catalog, nil
}

func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	return s.cacheRepo.Del(ctx, catalogSnapshotCacheKey)
}
