package catalog

import (
	"context"
	"fmt"

	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/models"
)

// EarningsTotal sums monto_pagado across all sales.
func (s *Service) EarningsTotal(ctx context.Context) (float64, error) {
	var total float64
	errSum := s.db.WithContext(ctx).
		Model(&models.Venta{}).
		Select("COALESCE(SUM(monto_pagado), 0)").
		Scan(&total).Error
	if errSum != nil {
		return 0, fmt.Errorf("catalog: earnings total: %w", errSum)
	}
	return total, nil
}

// EarningsByMonth returns twelve totals indexed January through December.
// Months with no sales stay zero.
func (s *Service) EarningsByMonth(ctx context.Context) ([12]float64, error) {
	var totals [12]float64
	type monthRow struct {
		Mes   int
		Total float64
	}
	var rows []monthRow
	monthExpr := db.MonthExpr(s.db, "fecha")
	errSum := s.db.WithContext(ctx).
		Model(&models.Venta{}).
		Select(fmt.Sprintf("%s AS mes, SUM(monto_pagado) AS total", monthExpr)).
		Group("mes").
		Scan(&rows).Error
	if errSum != nil {
		return totals, fmt.Errorf("catalog: earnings by month: %w", errSum)
	}
	for _, row := range rows {
		if row.Mes >= 1 && row.Mes <= 12 {
			totals[row.Mes-1] = row.Total
		}
	}
	return totals, nil
}
