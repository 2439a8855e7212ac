package database

import (
	"context"

	"github.com/nandanugg/walkarea/module/core/domain"
)

type SampleRepository interface {
	Insert(ctx context.Context, sample *domain.Sample) error
	GetLatest(ctx context.Context, sessionID string) (*domain.Sample, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.Sample, error)
	GetAllSessions(ctx context.Context) ([]string, error)
}
