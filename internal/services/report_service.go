package services

import (
	"context"
	"fmt"

	"essaydesk/internal/dto"
	"essaydesk/internal/repositories"
	"essaydesk/pkg/types"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	ExportOrders(ctx context.Context, filter types.Filter) (*excelize.File, error)
}

// ReportService выгружает реестр заказов в xlsx для бухгалтерии.
type ReportService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *zap.Logger
}

func NewReportService(orderRepo repositories.OrderRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{orderRepo: orderRepo, logger: logger}
}

var orderReportHeaders = []string{
	"ID", "Клиент", "Тип работы", "Уровень", "Предмет", "Срок",
	"Страниц", "Интервал", "Сумма", "Статус", "Исполнитель", "Создан",
}

func (s *ReportService) ExportOrders(ctx context.Context, filter types.Filter) (*excelize.File, error) {
	filter.WithPagination = false
	orders, _, err := s.orderRepo.GetOrders(ctx, filter)
	if err != nil {
		s.logger.Error("Не удалось выгрузить заказы для отчёта", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, header := range orderReportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rows := lo.Map(orders, func(order dto.OrderDTO, _ int) []interface{} {
		executor := ""
		if order.ExecutorID != nil {
			executor = fmt.Sprintf("%d", *order.ExecutorID)
		}
		return []interface{}{
			order.ID,
			order.ClientID,
			order.AssignmentType,
			order.AcademicLevelName,
			order.SubjectName,
			order.DeadlineName,
			order.Pages,
			order.SpacingCode,
			order.TotalPrice,
			order.Status,
			executor,
			order.CreatedAt,
		}
	})

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
