package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	budgets map[id.ID]*Budget
}

func newMemRepo() *memRepo {
	return &memRepo{budgets: make(map[id.ID]*Budget)}
}

func (r *memRepo) Create(ctx context.Context, b *Budget) error {
	r.budgets[b.ID] = b
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, budgetID id.ID) (*Budget, error) {
	b, ok := r.budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	return b, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, budgetID id.ID) (*Budget, error) {
	return r.GetByID(ctx, budgetID)
}

func (r *memRepo) Update(ctx context.Context, b *Budget) error {
	if _, ok := r.budgets[b.ID]; !ok {
		return apperror.NewNotFound("budget", b.ID.String())
	}
	r.budgets[b.ID] = b
	return nil
}

func (r *memRepo) SetDeletionMark(ctx context.Context, budgetID id.ID, mark bool) error {
	b, ok := r.budgets[budgetID]
	if !ok {
		return apperror.NewNotFound("budget", budgetID.String())
	}
	b.DeletionMark = mark
	return nil
}

func (r *memRepo) GetLines(ctx context.Context, budgetID id.ID) ([]BudgetLine, error) {
	b, ok := r.budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	return b.Lines, nil
}

func (r *memRepo) List(ctx context.Context, filter Filter) (domain.ListResult[*Budget], error) {
	result := domain.ListResult[*Budget]{Limit: filter.Limit, Offset: filter.Offset}
	for _, b := range r.budgets {
		result.Items = append(result.Items, b)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type memConcepts struct {
	known map[id.ID]struct{}
}

func (c *memConcepts) add() id.ID {
	conceptID := id.New()
	c.known[conceptID] = struct{}{}
	return conceptID
}

func (c *memConcepts) Exists(ctx context.Context, conceptID id.ID) (bool, error) {
	_, ok := c.known[conceptID]
	return ok, nil
}

func newTestService() (*Service, *memRepo, *memConcepts) {
	repo := newMemRepo()
	concepts := &memConcepts{known: make(map[id.ID]struct{})}
	return NewService(repo, concepts, noopTxManager{}), repo, concepts
}

func money(s string) types.Money {
	return types.MustMoney(s)
}

func period() (time.Time, time.Time) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0).Add(-time.Second)
}

func TestCreate_WithLines(t *testing.T) {
	svc, repo, concepts := newTestService()
	rent, salaries := concepts.add(), concepts.add()
	from, to := period()

	b, err := svc.Create(context.Background(), CreateInput{
		Name:     "January",
		DateFrom: from,
		DateTo:   to,
		Lines: []LineInput{
			{ConceptID: rent, Amount: money("1500.00")},
			{ConceptID: salaries, Amount: money("4200.00")},
		},
	})
	require.NoError(t, err)

	require.Len(t, b.Lines, 2)
	assert.Equal(t, 0, b.Lines[0].Position)
	assert.Equal(t, 1, b.Lines[1].Position)
	assert.Equal(t, b.ID, b.Lines[0].BudgetID)
	assert.True(t, b.TotalPlanned().Equal(money("5700.00")))
	assert.Contains(t, repo.budgets, b.ID)
}

func TestCreate_RejectsInvalidPeriod(t *testing.T) {
	svc, _, concepts := newTestService()
	rent := concepts.add()
	from, to := period()

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Backwards",
		DateFrom: to,
		DateTo:   from,
		Lines:    []LineInput{{ConceptID: rent, Amount: money("10")}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_RejectsDuplicateConcepts(t *testing.T) {
	svc, _, concepts := newTestService()
	rent := concepts.add()
	from, to := period()

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Dupes",
		DateFrom: from,
		DateTo:   to,
		Lines: []LineInput{
			{ConceptID: rent, Amount: money("10")},
			{ConceptID: rent, Amount: money("20")},
		},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_RejectsUnknownConcept(t *testing.T) {
	svc, _, _ := newTestService()
	from, to := period()

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Unknown",
		DateFrom: from,
		DateTo:   to,
		Lines:    []LineInput{{ConceptID: id.New(), Amount: money("10")}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_ReplacesLines(t *testing.T) {
	svc, _, concepts := newTestService()
	rent, salaries := concepts.add(), concepts.add()
	from, to := period()

	b, err := svc.Create(context.Background(), CreateInput{
		Name:     "January",
		DateFrom: from,
		DateTo:   to,
		Lines:    []LineInput{{ConceptID: rent, Amount: money("1500.00")}},
	})
	require.NoError(t, err)
	firstVersion := b.Version

	updated, err := svc.Update(context.Background(), b.ID, CreateInput{
		Name:     "January revised",
		DateFrom: from,
		DateTo:   to,
		Lines: []LineInput{
			{ConceptID: salaries, Amount: money("4200.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "January revised", updated.Name)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, salaries, updated.Lines[0].ConceptID)
	assert.Greater(t, updated.Version, firstVersion)
}

func TestSetDeletionMark(t *testing.T) {
	svc, repo, concepts := newTestService()
	rent := concepts.add()
	from, to := period()

	b, err := svc.Create(context.Background(), CreateInput{
		Name:     "January",
		DateFrom: from,
		DateTo:   to,
		Lines:    []LineInput{{ConceptID: rent, Amount: money("10")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDeletionMark(context.Background(), b.ID, true))
	assert.True(t, repo.budgets[b.ID].DeletionMark)
}
