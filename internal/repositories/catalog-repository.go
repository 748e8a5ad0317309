package repositories

import (
	"context"
	"fmt"

	"essaydesk/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CatalogRepositoryInterface interface {
	LoadSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error)
}

type CatalogRepository struct {
	storage *pgxpool.Pool
}

func NewCatalogRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage}
}

// LoadSnapshot читает все справочники каталога целиком, включая
// неактивные позиции. Снимок дальше не меняется до следующей загрузки.
func (r *CatalogRepository) LoadSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	snapshot := &entities.CatalogSnapshot{
		Spacings:  make(map[string]entities.SpacingMode),
		Levels:    make(map[uint64]entities.AcademicLevel),
		Deadlines: make(map[uint64]entities.DeadlineOption),
		Addons:    make(map[uint64]entities.Addon),
		Subjects:  make(map[uint64]entities.Subject),
	}

	var basePriceText string
	err := r.storage.QueryRow(ctx,
		`SELECT base_price_per_page::text FROM pricing_settings ORDER BY id LIMIT 1`,
	).Scan(&basePriceText)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения базовой цены страницы: %w", err)
	}
	snapshot.BasePricePerPage, err = decimal.NewFromString(basePriceText)
	if err != nil {
		return nil, fmt.Errorf("некорректная базовая цена страницы в БД: %w", err)
	}

	if err := r.loadSpacings(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadLevels(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadDeadlines(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadAddons(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadSubjects(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *CatalogRepository) loadSpacings(ctx context.Context, snapshot *entities.CatalogSnapshot) error {
	rows, err := r.storage.Query(ctx,
		`SELECT code, name, multiplier::text, is_active FROM spacing_modes ORDER BY code`)
	if err != nil {
		return fmt.Errorf("ошибка чтения 'spacing_modes': %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mode           entities.SpacingMode
			multiplierText string
		)
		if err := rows.Scan(&mode.Code, &mode.Name, &multiplierText, &mode.IsActive); err != nil {
			return fmt.Errorf("ошибка сканирования 'spacing_modes': %w", err)
		}
		mode.Multiplier, err = decimal.NewFromString(multiplierText)
		if err != nil {
			return fmt.Errorf("некорректный множитель интервала в БД: %w", err)
		}
		snapshot.Spacings[mode.Code] = mode
	}
	return nil
}

func (r *CatalogRepository) loadLevels(ctx context.Context, snapshot *entities.CatalogSnapshot) error {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, multiplier::text, is_active FROM academic_levels ORDER BY id`)
	if err != nil {
		return fmt.Errorf("ошибка чтения 'academic_levels': %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			level          entities.AcademicLevel
			multiplierText string
		)
		if err := rows.Scan(&level.ID, &level.Name, &multiplierText, &level.IsActive); err != nil {
			return fmt.Errorf("ошибка сканирования 'academic_levels': %w", err)
		}
		level.Multiplier, err = decimal.NewFromString(multiplierText)
		if err != nil {
			return fmt.Errorf("некорректный множитель уровня в БД: %w", err)
		}
		snapshot.Levels[level.ID] = level
	}
	return nil
}

func (r *CatalogRepository) loadDeadlines(ctx context.Context, snapshot *entities.CatalogSnapshot) error {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, hours, multiplier::text, is_active FROM deadline_options ORDER BY hours`)
	if err != nil {
		return fmt.Errorf("ошибка чтения 'deadline_options': %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			deadline       entities.DeadlineOption
			multiplierText string
		)
		if err := rows.Scan(&deadline.ID, &deadline.Name, &deadline.Hours, &multiplierText, &deadline.IsActive); err != nil {
			return fmt.Errorf("ошибка сканирования 'deadline_options': %w", err)
		}
		deadline.Multiplier, err = decimal.NewFromString(multiplierText)
		if err != nil {
			return fmt.Errorf("некорректный множитель срока в БД: %w", err)
		}
		snapshot.Deadlines[deadline.ID] = deadline
	}
	return nil
}

func (r *CatalogRepository) loadAddons(ctx context.Context, snapshot *entities.CatalogSnapshot) error {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, price::text, is_free, is_active FROM addons ORDER BY id`)
	if err != nil {
		return fmt.Errorf("ошибка чтения 'addons': %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			addon     entities.Addon
			priceText string
		)
		if err := rows.Scan(&addon.ID, &addon.Name, &priceText, &addon.IsFree, &addon.IsActive); err != nil {
			return fmt.Errorf("ошибка сканирования 'addons': %w", err)
		}
		addon.Price, err = decimal.NewFromString(priceText)
		if err != nil {
			return fmt.Errorf("некорректная цена доп. услуги в БД: %w", err)
		}
		snapshot.Addons[addon.ID] = addon
	}
	return nil
}

func (r *CatalogRepository) loadSubjects(ctx context.Context, snapshot *entities.CatalogSnapshot) error {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, is_active FROM subjects ORDER BY id`)
	if err != nil {
		return fmt.Errorf("ошибка чтения 'subjects': %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subject entities.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.IsActive); err != nil {
			return fmt.Errorf("ошибка сканирования 'subjects': %w", err)
		}
		snapshot.Subjects[subject.ID] = subject
	}
	return nil
}
