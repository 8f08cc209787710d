package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain"
	"folio/internal/domain/catalogs/concept"
)

// --- test doubles ---

// noopTxManager satisfies tx.Manager without a database.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory ledger repository. The fail* fields inject
// storage errors at chosen call sites so tests can drive the rollback
// paths.
type memRepo struct {
	transactions map[id.ID]*Transaction
	details      []TransactionDetail
	updates      int

	createCalls  int
	failCreateOn int // fail the Nth Create call, 0 disables
	detailsErr   error
	updateErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{transactions: make(map[id.ID]*Transaction)}
}

func (r *memRepo) Create(ctx context.Context, t *Transaction) error {
	r.createCalls++
	if r.failCreateOn != 0 && r.createCalls == r.failCreateOn {
		return errors.New("insert failed")
	}
	r.transactions[t.ID] = t
	return nil
}

func (r *memRepo) CreateDetails(ctx context.Context, details []TransactionDetail) error {
	if r.detailsErr != nil {
		return r.detailsErr
	}
	r.details = append(r.details, details...)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	t, ok := r.transactions[transactionID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", transactionID.String())
	}
	return t, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	return r.GetByID(ctx, transactionID)
}

func (r *memRepo) GetBySource(ctx context.Context, sourceID id.ID) (*Transaction, error) {
	for _, t := range r.transactions {
		if t.SourceTransactionID != nil && *t.SourceTransactionID == sourceID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("transaction", sourceID.String())
}

func (r *memRepo) Update(ctx context.Context, t *Transaction) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.transactions[t.ID]; !ok {
		return apperror.NewNotFound("transaction", t.ID.String())
	}
	r.transactions[t.ID] = t
	r.updates++
	return nil
}

func (r *memRepo) SetActive(ctx context.Context, transactionID id.ID, active bool) error {
	t, ok := r.transactions[transactionID]
	if !ok {
		return apperror.NewNotFound("transaction", transactionID.String())
	}
	t.IsActive = active
	return nil
}

func (r *memRepo) GetDetails(ctx context.Context, transactionID id.ID) ([]TransactionDetail, error) {
	var out []TransactionDetail
	for _, d := range r.details {
		if d.TransactionID == transactionID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateDetailTotal(ctx context.Context, detailID id.ID, total types.Money) error {
	for i := range r.details {
		if r.details[i].ID == detailID {
			r.details[i].Total = total
			r.details[i].UnitAmount = total
			return nil
		}
	}
	return apperror.NewNotFound("transaction detail", detailID.String())
}

func (r *memRepo) List(ctx context.Context, filter Filter) (domain.ListResult[*Transaction], error) {
	result := domain.ListResult[*Transaction]{Limit: filter.Limit, Offset: filter.Offset}
	for _, t := range r.transactions {
		result.Items = append(result.Items, t)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

// memState is a point-in-time copy of memRepo contents.
type memState struct {
	transactions map[id.ID]*Transaction
	details      []TransactionDetail
	updates      int
}

func (r *memRepo) snapshot() memState {
	transactions := make(map[id.ID]*Transaction, len(r.transactions))
	for k, v := range r.transactions {
		cp := *v
		transactions[k] = &cp
	}
	return memState{
		transactions: transactions,
		details:      append([]TransactionDetail(nil), r.details...),
		updates:      r.updates,
	}
}

func (r *memRepo) restore(s memState) {
	r.transactions = s.transactions
	r.details = s.details
	r.updates = s.updates
}

// rollbackTxManager gives memRepo transactional semantics: the repository
// is snapshotted before fn runs and restored when fn fails, so tests can
// assert that a failed write sequence leaves no rows behind.
type rollbackTxManager struct {
	repo *memRepo
}

func (m rollbackTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(saved)
		return err
	}
	return nil
}

// memConcepts is a fixed concept provider with the two payment sentinels.
type memConcepts struct {
	byID map[id.ID]*concept.Concept
	in   *concept.Concept
	out  *concept.Concept
}

func newMemConcepts() *memConcepts {
	in := concept.NewSystemPaymentConcept(concept.PaymentIncoming)
	out := concept.NewSystemPaymentConcept(concept.PaymentOutgoing)
	return &memConcepts{
		byID: map[id.ID]*concept.Concept{in.ID: in, out.ID: out},
		in:   in,
		out:  out,
	}
}

func (c *memConcepts) add(kind concept.Kind) *concept.Concept {
	cc := concept.NewConcept("C-"+string(kind), string(kind), kind)
	c.byID[cc.ID] = cc
	return cc
}

func (c *memConcepts) SystemPaymentConcept(ctx context.Context, direction concept.PaymentDirection) (*concept.Concept, error) {
	if direction == concept.PaymentOutgoing {
		return c.out, nil
	}
	return c.in, nil
}

func (c *memConcepts) Exists(ctx context.Context, conceptID id.ID) (bool, error) {
	_, ok := c.byID[conceptID]
	return ok, nil
}

func (c *memConcepts) GetByID(ctx context.Context, conceptID id.ID) (*concept.Concept, error) {
	cc, ok := c.byID[conceptID]
	if !ok {
		return nil, apperror.NewNotFound("concept", conceptID.String())
	}
	return cc, nil
}

func newTestService() (*Service, *memRepo, *memConcepts) {
	repo := newMemRepo()
	concepts := newMemConcepts()
	svc := NewService(repo, concepts, noopTxManager{}, nil, nil)
	return svc, repo, concepts
}

func newRollbackService() (*Service, *memRepo, *memConcepts) {
	repo := newMemRepo()
	concepts := newMemConcepts()
	svc := NewService(repo, concepts, rollbackTxManager{repo: repo}, nil, nil)
	return svc, repo, concepts
}

func money(s string) types.Money {
	return types.MustMoney(s)
}

// --- CreateWithDetails ---

func TestCreateWithDetails_RequiresDetails(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type: TypeSale,
		Date: time.Now(),
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateWithDetails_SettledDerivesAmounts(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := concepts.add(concept.KindProduct)

	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeSale,
		Date:    time.Now(),
		Settled: true,
		Details: []DetailInput{
			{ConceptID: sale.ID, Total: money("150.00")},
			{ConceptID: sale.ID, Total: money("50.00")},
		},
	})

	require.NoError(t, err)
	assert.True(t, tx.Total.Equal(money("200.00")))
	assert.True(t, tx.Payments.Equal(money("200.00")))
	assert.True(t, tx.Balance.IsZero())
	assert.True(t, tx.IsActive)
	require.NoError(t, tx.CheckAmounts())
}

func TestCreateWithDetails_CreditDerivesAmounts(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := concepts.add(concept.KindProduct)

	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeSale,
		Date:    time.Now(),
		Settled: false,
		Details: []DetailInput{
			{ConceptID: sale.ID, Total: money("300.00")},
		},
	})

	require.NoError(t, err)
	assert.True(t, tx.Payments.IsZero())
	assert.True(t, tx.Balance.Equal(money("300.00")))
	require.NoError(t, tx.CheckAmounts())
}

func TestCreateWithDetails_LineTotalFromQuantity(t *testing.T) {
	svc, _, concepts := newTestService()
	prod := concepts.add(concept.KindProduct)

	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeSale,
		Date:    time.Now(),
		Settled: true,
		Details: []DetailInput{
			{ConceptID: prod.ID, Quantity: money("3"), UnitAmount: money("25.50")},
		},
	})

	require.NoError(t, err)
	assert.True(t, tx.Total.Equal(money("76.50")))
}

func TestCreateWithDetails_UnknownConcept(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeSale,
		Date:    time.Now(),
		Details: []DetailInput{{ConceptID: id.New(), Total: money("10")}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

// --- ReconcileTransaction ---

func TestReconcileTransaction_OneWay(t *testing.T) {
	svc, _, concepts := newTestService()
	prod := concepts.add(concept.KindProduct)

	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeIncome,
		Date:    time.Now(),
		Settled: true,
		Details: []DetailInput{{ConceptID: prod.ID, Total: money("10")}},
	})
	require.NoError(t, err)

	when := time.Now().UTC()
	require.NoError(t, svc.ReconcileTransaction(context.Background(), tx.ID, when))
	assert.True(t, tx.IsReconciled)
	require.NotNil(t, tx.ReconciledAt)

	// Second reconcile is a conflict: the transition is one-way.
	err = svc.ReconcileTransaction(context.Background(), tx.ID, time.Now())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

// --- DeactivateTransaction ---

func TestDeactivateTransaction_RejectsCompoundLegs(t *testing.T) {
	svc, _, _ := newTestService()

	pair, err := svc.CreateBankDeposit(context.Background(), MovementInput{
		Amount:            money("100"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.NoError(t, err)

	err = svc.DeactivateTransaction(context.Background(), pair.Incoming.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestDeactivateTransaction_Simple(t *testing.T) {
	svc, repo, concepts := newTestService()
	prod := concepts.add(concept.KindProduct)

	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeExpense,
		Date:    time.Now(),
		Settled: true,
		Details: []DetailInput{{ConceptID: prod.ID, Total: money("42")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateTransaction(context.Background(), tx.ID))
	stored := repo.transactions[tx.ID]
	assert.False(t, stored.IsActive)
}
