package server

import (
	"context"
	"time"

	"sqeperf/database"
	"sqeperf/internal/metrics"
)

// instrumentedStore замеряет длительность и ошибки запросов к БД оценок
type instrumentedStore struct {
	EvaluationStore
	metrics *metrics.Manager
}

func (s *instrumentedStore) CompletedEvaluationsInYear(ctx context.Context, year int) ([]database.Evaluation, error) {
	start := time.Now()
	res, err := s.EvaluationStore.CompletedEvaluationsInYear(ctx, year)
	s.metrics.ObserveQuery("completed_evaluations", time.Since(start), err)
	return res, err
}

func (s *instrumentedStore) CompletedDetails(ctx context.Context, year int, dataType string) ([]database.EvaluationDetail, error) {
	start := time.Now()
	res, err := s.EvaluationStore.CompletedDetails(ctx, year, dataType)
	s.metrics.ObserveQuery("completed_details", time.Since(start), err)
	return res, err
}

func (s *instrumentedStore) CountCompletedEntities(ctx context.Context, year int, dataType string) (int, error) {
	start := time.Now()
	res, err := s.EvaluationStore.CountCompletedEntities(ctx, year, dataType)
	s.metrics.ObserveQuery("count_completed_entities", time.Since(start), err)
	return res, err
}

func (s *instrumentedStore) CountAllEntities(ctx context.Context, dataType string) (int, error) {
	start := time.Now()
	res, err := s.EvaluationStore.CountAllEntities(ctx, dataType)
	s.metrics.ObserveQuery("count_all_entities", time.Since(start), err)
	return res, err
}
