package report

import (
	"context"
	"fmt"

	"trainyard/internal/locomotive"
	"trainyard/internal/rollingstock"
)

// Service defines the interface for the report service.
type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

// LocomotiveLister and RollingStockLister are the read paths the report needs.
type LocomotiveLister interface {
	List(ctx context.Context) ([]*locomotive.Locomotive, error)
}

type RollingStockLister interface {
	List(ctx context.Context) ([]*rollingstock.RollingStock, error)
}

type service struct {
	locos LocomotiveLister
	cars  RollingStockLister
}

func NewService(locos LocomotiveLister, cars RollingStockLister) Service {
	return &service{locos: locos, cars: cars}
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	locos, err := s.locos.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list locomotives: %w", err)
	}
	cars, err := s.cars.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list rolling stock: %w", err)
	}
	return Summarize(locos, cars), nil
}
