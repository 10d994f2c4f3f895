package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
)

type stockService struct {
	stock    repository.StockRepo
	observer UseCaseObserver
}

func NewStockService(stock repository.StockRepo, observers ...UseCaseObserver) StockService {
	return &stockService{stock: stock, observer: useCaseObserverOrNoop(observers)}
}

func (s *stockService) List(ctx context.Context) ([]domain.StockLevel, error) {
	return s.stock.List(ctx)
}

// Set stores a stock position verbatim. Stock is read fresh on every
// scheduling run, so no plan state needs refreshing here.
func (s *stockService) Set(ctx context.Context, level domain.StockLevel) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "set-stock", startedAt, err, map[string]any{
			"material":  level.MaterialID,
			"available": level.AvailableQty,
			"lead_days": level.LeadTimeDays,
		})
	}()

	level.MaterialID = strings.TrimSpace(level.MaterialID)
	switch {
	case level.MaterialID == "":
		return fmt.Errorf("material id is required")
	case level.AvailableQty < 0:
		return fmt.Errorf("available quantity must not be negative, got %g", level.AvailableQty)
	case level.LeadTimeDays < 0:
		return fmt.Errorf("lead time must not be negative, got %d", level.LeadTimeDays)
	}
	level.UpdatedAt = stamp()
	return s.stock.Upsert(ctx, level)
}
