package orders

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
)

// Service exposes the order history read paths.
type Service interface {
	History(ctx context.Context) ([]HistoryItem, error)
	Get(ctx context.Context, orderNumber string) (*HistoryItem, error)
}

type service struct {
	repo Repository
}

// NewService constructs the order history service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) History(ctx context.Context) ([]HistoryItem, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items := make([]HistoryItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, ToHistoryItem(summary))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, orderNumber string) (*HistoryItem, error) {
	summary, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	item := ToHistoryItem(*summary)
	return &item, nil
}
