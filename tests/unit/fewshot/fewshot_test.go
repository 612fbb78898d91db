package fewshot_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/fewshot"
	"gridbill/internal/port"
	"gridbill/mocks"
)

func recurringFixture() []port.RecurringCorrection {
	return []port.RecurringCorrection{
		{
			FieldPath:      "meters[0].multiplier",
			ExtractedValue: "1",
			CorrectedValue: "40",
			Occurrences:    4,
		},
		{
			FieldPath:      "totals.current_charges",
			ExtractedValue: "184.27",
			CorrectedValue: "162.10",
			Occurrences:    2,
		},
	}
}

func TestContext(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return(recurringFixture(), nil)

	p := fewshot.NewProvider(repo, 5, 2, zap.NewNop())
	block, hash, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)

	require.NoError(t, err)
	assert.Contains(t, block, "PG&E")
	assert.Contains(t, block, "meters[0].multiplier")
	assert.Contains(t, block, `"40"`)
	assert.Contains(t, block, "corrected 4 times")
	assert.Len(t, hash, 64)
}

func TestContext_HashStable(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return(recurringFixture(), nil)

	p := fewshot.NewProvider(repo, 5, 2, zap.NewNop())
	_, first, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)
	require.NoError(t, err)
	_, second, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestContext_EmptyUtilitySkipsLookup(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)

	p := fewshot.NewProvider(repo, 5, 2, zap.NewNop())
	block, hash, err := p.Context(context.Background(), "", domain.CommodityElectricity)

	require.NoError(t, err)
	assert.Empty(t, block)
	assert.Empty(t, hash)
	repo.AssertNotCalled(t, "ListRecurring", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContext_NoRecurringPatterns(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return([]port.RecurringCorrection{}, nil)

	p := fewshot.NewProvider(repo, 5, 2, zap.NewNop())
	block, hash, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)

	require.NoError(t, err)
	assert.Empty(t, block)
	assert.Empty(t, hash)
}

func TestContext_MaxShotsTruncates(t *testing.T) {
	many := make([]port.RecurringCorrection, 8)
	for i := range many {
		many[i] = port.RecurringCorrection{
			FieldPath:      "charges[0].amount",
			ExtractedValue: "1.00",
			CorrectedValue: "2.00",
			Occurrences:    3 + i,
		}
	}
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return(many, nil)

	p := fewshot.NewProvider(repo, 3, 2, zap.NewNop())
	block, _, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)

	require.NoError(t, err)
	// Two header lines plus one line per shot.
	assert.Len(t, strings.Split(block, "\n"), 5)
}

func TestContext_RepoError(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return(nil, errors.New("db down"))

	p := fewshot.NewProvider(repo, 5, 2, zap.NewNop())
	_, _, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)
	require.Error(t, err)
}

func TestNewProvider_Defaults(t *testing.T) {
	repo := new(mocks.MockCorrectionRepo)
	repo.On("ListRecurring", mock.Anything, "PG&E", domain.CommodityElectricity, 2).
		Return([]port.RecurringCorrection{}, nil)

	// Zero values fall back to the standard limits, visible through the
	// min-recurrence argument passed to the repository.
	p := fewshot.NewProvider(repo, 0, 0, zap.NewNop())
	_, _, err := p.Context(context.Background(), "PG&E", domain.CommodityElectricity)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
