package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sqeperf/database"
)

// MockStore мок хранилища оценок
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CompletedEvaluationsInYear(ctx context.Context, year int) ([]database.Evaluation, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Evaluation), args.Error(1)
}

func (m *MockStore) CompletedDetails(ctx context.Context, year int, dataType string) ([]database.EvaluationDetail, error) {
	args := m.Called(ctx, year, dataType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.EvaluationDetail), args.Error(1)
}

func (m *MockStore) CountCompletedEntities(ctx context.Context, year int, dataType string) (int, error) {
	args := m.Called(ctx, year, dataType)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) CountAllEntities(ctx context.Context, dataType string) (int, error) {
	args := m.Called(ctx, dataType)
	return args.Int(0), args.Error(1)
}

func TestRunner_ZeroEntities(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()
	store.On("CompletedEvaluationsInYear", ctx, 2025).Return([]database.Evaluation{}, nil).Once()
	store.On("CompletedDetails", ctx, 2025, "purchase").Return([]database.EvaluationDetail{}, nil).Once()
	store.On("CountCompletedEntities", ctx, 2025, "purchase").Return(0, nil).Once()
	store.On("CountAllEntities", ctx, "purchase").Return(7, nil).Once()

	var out bytes.Buffer
	res, err := NewRunner(store, &out, 2025, "purchase", nil).Run(ctx)
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, 7, res.AllEntities)
	assert.Contains(t, out.String(), "✗ API result totalEntities = 0")
	assert.Contains(t, out.String(), "All purchase entities in database = 7")
	store.AssertExpectations(t)
}

func TestRunner_StepErrorAborts(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()
	boom := errors.New("no such table: performance_evaluation_details")
	store.On("CompletedEvaluationsInYear", ctx, 2025).Return([]database.Evaluation{}, nil)
	store.On("CompletedDetails", ctx, 2025, "purchase").Return(nil, boom)

	var out bytes.Buffer
	res, err := NewRunner(store, &out, 2025, "purchase", nil).Run(ctx)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 2")
	assert.NotContains(t, out.String(), "Conclusion")

	store.AssertNotCalled(t, "CountCompletedEntities", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CountAllEntities", mock.Anything, mock.Anything)
}

func TestRunner_SeededDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sqe_database.sqlite")

	seed, err := database.CreateEvaluationsDatabase(path)
	require.NoError(t, err)

	completedID, err := seed.InsertEvaluation(ctx, &database.Evaluation{
		PeriodName: "2025年3月", StartDate: "2025-03-01", EndDate: "2025-03-31", Status: database.StatusCompleted,
	})
	require.NoError(t, err)
	draftID, err := seed.InsertEvaluation(ctx, &database.Evaluation{
		PeriodName: "2025年4月", StartDate: "2025-04-01", EndDate: "2025-04-30", Status: database.StatusDraft,
	})
	require.NoError(t, err)

	for _, d := range []database.EvaluationDetail{
		{EvaluationID: completedID, EntityName: "VendorA", DataType: database.DataTypePurchase},
		{EvaluationID: completedID, EntityName: "VendorB", DataType: database.DataTypePurchase},
		{EvaluationID: draftID, EntityName: "VendorC", DataType: database.DataTypePurchase},
	} {
		d := d
		_, err := seed.InsertDetail(ctx, &d)
		require.NoError(t, err)
	}
	require.NoError(t, seed.Close())

	db, err := database.OpenEvaluationsDB(path)
	require.NoError(t, err)
	defer db.Close()

	var out bytes.Buffer
	res, err := NewRunner(db, &out, 2025, database.DataTypePurchase, nil).Run(ctx)
	require.NoError(t, err)

	assert.Len(t, res.Evaluations, 1)
	assert.Len(t, res.Details, 2)
	assert.Equal(t, 2, res.TotalEntities)
	assert.Equal(t, 3, res.AllEntities)
	assert.LessOrEqual(t, res.TotalEntities, res.AllEntities)
	assert.False(t, res.Failed())

	text := out.String()
	assert.Contains(t, text, "Found 1 completed evaluations:")
	assert.Contains(t, text, "ID:1 2025年3月 | 2025-03-01~2025-03-31")
	assert.Contains(t, text, "Found 2 detail records")
	assert.Contains(t, text, "API should return totalEntities = 2")
	assert.Contains(t, text, "✓ API result totalEntities = 2")

	// Шаги печатаются строго по порядку
	last := -1
	for _, step := range []string{"Step 1:", "Step 2:", "Step 3:", "Step 4:", "Conclusion:"} {
		idx := strings.Index(text, step)
		require.Greater(t, idx, last, step)
		last = idx
	}
}

func TestRunner_SummaryLevel(t *testing.T) {
	newStore := func() *MockStore {
		store := new(MockStore)
		store.On("CompletedEvaluationsInYear", mock.Anything, 2025).Return([]database.Evaluation{}, nil)
		store.On("CompletedDetails", mock.Anything, 2025, "purchase").Return([]database.EvaluationDetail{}, nil)
		store.On("CountCompletedEntities", mock.Anything, 2025, "purchase").Return(3, nil)
		store.On("CountAllEntities", mock.Anything, "purchase").Return(3, nil)
		return store
	}

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	_, err := NewRunner(newStore(), io.Discard, 2025, "purchase", logger).Run(context.Background())
	require.NoError(t, err)
	entries := logs.FilterMessage("diagnostic finished").TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["total_entities"])

	_, err = NewRunner(newStore(), io.Discard, 2025, "purchase", logger).
		WithSummaryLevel(zapcore.DebugLevel).
		Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("diagnostic finished").Len())
}
