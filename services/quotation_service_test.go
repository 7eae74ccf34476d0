package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"empresspc/models"
	"empresspc/repository"
	"empresspc/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateQuotationDefaults(t *testing.T) {
	svc, _ := newQuotationService(t)

	q := createQuotation(t, svc, alice, "Rahul Computers", 236)

	assert.False(t, q.ID.IsZero())
	assert.True(t, strings.HasPrefix(q.QuotationNumber, "Q261015-RAHULC-"), q.QuotationNumber)
	assert.Equal(t, models.StatusDraft, q.Status)
	assert.Equal(t, fixedNow, q.Date)
	assert.Equal(t, fixedNow.Add(models.DefaultExpiry), q.ExpiryDate)
	assert.Equal(t, "EmpressPC", q.BusinessDetails.CompanyName)
	assert.Equal(t, alice.ID, q.CreatedBy)
	assert.Nil(t, q.RevisionNumber)
	assert.False(t, q.IsRevision())
}

func TestCreateQuotationValidation(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, CreateQuotationInput{
		Items:  []models.QuotationItem{item(1, 1, 18)},
		Status: "cancelled",
	})
	assert.ErrorIs(t, err, ErrValidation)

	empty := models.BusinessDetails{}
	_, err = svc.Create(ctx, alice, CreateQuotationInput{
		Items:           []models.QuotationItem{item(1, 1, 18)},
		BusinessDetails: &empty,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateQuotationExplicitNumberConflict(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	in := CreateQuotationInput{
		QuotationNumber: "Q-FIXED-1",
		Items:           []models.QuotationItem{item(100, 1, 18)},
		Totals:          models.Totals{GrandTotal: 118},
	}

	first, err := svc.Create(ctx, alice, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, bob, in)
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := svc.Get(ctx, alice, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 118.0, got.Totals.GrandTotal)
}

func TestCreateQuotationRedrawsGeneratedNumber(t *testing.T) {
	svc, _ := newQuotationService(t)
	draws := []int{7, 7, 8}
	svc.Numbers.intn = func(int) int {
		n := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return n
	}

	a := createQuotation(t, svc, alice, "", 100)
	b := createQuotation(t, svc, alice, "", 100)

	assert.Equal(t, "Q261015-0007", a.QuotationNumber)
	assert.Equal(t, "Q261015-0008", b.QuotationNumber)
}

func TestCreateQuotationGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, _ := newQuotationService(t)
	svc.Numbers.intn = func(int) int { return 1 }

	createQuotation(t, svc, alice, "", 100)
	_, err := svc.Create(context.Background(), alice, CreateQuotationInput{
		Items: []models.QuotationItem{item(1, 1, 18)},
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCreateQuotationSnapshotsVisibleParty(t *testing.T) {
	svc, st := newQuotationService(t)
	ctx := context.Background()
	party := &models.Party{Name: "Sharma Traders", Phone: "9000000001", Address: "Katra", State: models.DefaultPartyState, Type: models.PartyCustomer, CreatedBy: alice.ID}
	require.NoError(t, st.CreateParty(ctx, party))
	pid := party.ID

	q, err := svc.Create(ctx, alice, CreateQuotationInput{
		CustomerDetails: models.CustomerDetails{ID: &pid, Name: "typo"},
		Items:           []models.QuotationItem{item(1, 1, 18)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", q.CustomerDetails.Name)
	assert.Equal(t, "Katra", q.CustomerDetails.Address)

	// Later party edits do not reach the stored snapshot.
	party.Name = "Sharma & Sons"
	require.NoError(t, st.UpdateParty(ctx, party))
	got, err := svc.Get(ctx, alice, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", got.CustomerDetails.Name)

	// Bob cannot see Alice's party, so his snapshot is kept as sent.
	q2, err := svc.Create(ctx, bob, CreateQuotationInput{
		CustomerDetails: models.CustomerDetails{ID: &pid, Name: "Walk-in"},
		Items:           []models.QuotationItem{item(1, 1, 18)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", q2.CustomerDetails.Name)
}

func TestReviseExample(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)
	orig, err := svc.UpdateStatus(ctx, alice, orig.ID, models.StatusSent)
	require.NoError(t, err)
	before := orig.Clone()

	rev, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{
		Items:  []models.QuotationItem{item(150, 2, 18)},
		Totals: &models.Totals{Subtotal: 300, TotalGst: 54, GrandTotal: 354},
		Status: models.StatusAccepted,
	})
	require.NoError(t, err)

	require.NotNil(t, rev.RevisionNumber)
	assert.Equal(t, 1, *rev.RevisionNumber)
	assert.Equal(t, models.StatusDraft, rev.Status)
	assert.Equal(t, orig.QuotationNumber+"_R1", rev.QuotationNumber)
	assert.True(t, strings.HasSuffix(rev.QuotationNumber, "_R1"))
	require.NotNil(t, rev.OriginalQuotationID)
	assert.Equal(t, orig.ID, *rev.OriginalQuotationID)
	assert.Equal(t, 354.0, rev.Totals.GrandTotal)
	assert.Equal(t, 150.0, rev.Items[0].SellingPrice)
	assert.Equal(t, orig.CustomerDetails, rev.CustomerDetails)
	assert.Equal(t, fixedNow.Add(models.DefaultExpiry), rev.ExpiryDate)

	after, err := svc.Get(ctx, alice, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, 236.0, after.Totals.GrandTotal)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Totals, after.Totals)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.QuotationNumber, after.QuotationNumber)
	assert.Nil(t, after.RevisionNumber)
}

func TestRevisionNumbersAreDense(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)

	src := orig.ID
	for i := 1; i <= 4; i++ {
		rev, err := svc.Revise(ctx, alice, src, ReviseInput{})
		require.NoError(t, err)
		assert.Equal(t, i, *rev.RevisionNumber)
		assert.Equal(t, fmt.Sprintf("%s_R%d", orig.QuotationNumber, i), rev.QuotationNumber)
		// Revising a revision extends the same chain.
		src = rev.ID
	}
}

func TestRevisionsChainFromAnyMember(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)
	r1, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
	require.NoError(t, err)
	r2, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
	require.NoError(t, err)

	numbers := func(qs []models.Quotation) []string {
		out := make([]string, len(qs))
		for i, q := range qs {
			out[i] = q.QuotationNumber
		}
		return out
	}
	want := []string{orig.QuotationNumber, r1.QuotationNumber, r2.QuotationNumber}

	for _, id := range []primitive.ObjectID{orig.ID, r1.ID, r2.ID} {
		chain, err := svc.Revisions(ctx, alice, id)
		require.NoError(t, err)
		assert.Equal(t, want, numbers(chain))
		assert.Nil(t, chain[0].RevisionNumber)
	}
}

func TestConcurrentRevisionsGetDistinctNumbers(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)

	const workers = 24
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rev, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[*rev.RevisionNumber], "revision %d allocated twice", *rev.RevisionNumber)
			seen[*rev.RevisionNumber] = true
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers)
	for n := 1; n <= workers; n++ {
		assert.True(t, seen[n], "missing revision %d", n)
	}
}

// failingInserts rejects revision inserts while fail is set.
type failingInserts struct {
	*memory.Store
	fail bool
}

func (f *failingInserts) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	if f.fail && q.IsRevision() {
		return errors.New("write concern timeout")
	}
	return f.Store.CreateQuotation(ctx, q)
}

func TestReviseReleasesNumberOnFailedInsert(t *testing.T) {
	svc, st := newQuotationService(t)
	ctx := context.Background()
	repo := &failingInserts{Store: st}
	svc.Repo = repo
	svc.Numbers.Quotations = repo

	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)

	repo.fail = true
	_, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
	require.Error(t, err)
	n, err := st.CountRevisions(ctx, orig.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	repo.fail = false
	rev, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, *rev.RevisionNumber)
}

func TestRevisionKeepsOriginalOwner(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)

	rev, err := svc.Revise(ctx, admin, orig.ID, ReviseInput{})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, rev.CreatedBy)

	_, err = svc.Get(ctx, alice, rev.ID)
	assert.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	q := createQuotation(t, svc, alice, "Rahul Computers", 236)

	_, err := svc.UpdateStatus(ctx, alice, q.ID, "cancelled")
	assert.ErrorIs(t, err, ErrValidation)
	got, err := svc.Get(ctx, alice, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)

	// Any status may follow any other.
	for _, st := range []models.QuotationStatus{models.StatusInvoiced, models.StatusDraft, models.StatusExpired} {
		got, err = svc.UpdateStatus(ctx, alice, q.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestUpdateKeepsNumberAndAppliesPartialFields(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	q := createQuotation(t, svc, alice, "Rahul Computers", 236)

	notes := "Delivery in 3 days"
	got, err := svc.Update(ctx, alice, q.ID, UpdateQuotationInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)
	assert.Equal(t, q.QuotationNumber, got.QuotationNumber)
	assert.Equal(t, q.Items, got.Items)
	assert.Equal(t, q.Totals, got.Totals)
}

func TestOwnershipOnSingleRecords(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	q := createQuotation(t, svc, alice, "Rahul Computers", 236)

	_, err := svc.Get(ctx, bob, q.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Revise(ctx, bob, q.ID, ReviseInput{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateStatus(ctx, bob, q.ID, models.StatusSent)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, q.ID), ErrForbidden)

	_, err = svc.Get(ctx, bob, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Get(ctx, admin, q.ID)
	assert.NoError(t, err)
}

func TestListNarrowsToOwner(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	createQuotation(t, svc, alice, "Rahul Computers", 100)
	createQuotation(t, svc, alice, "Sharma Traders", 200)
	createQuotation(t, svc, bob, "Gupta Electronics", 300)

	page, err := svc.List(ctx, alice, ListQuotationsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)
	for _, q := range page.Quotations {
		assert.Equal(t, alice.ID, q.CreatedBy)
	}

	page, err = svc.List(ctx, admin, ListQuotationsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Pagination.Total)

	page, err = svc.List(ctx, admin, ListQuotationsInput{Customer: "gupta"})
	require.NoError(t, err)
	require.Len(t, page.Quotations, 1)
	assert.Equal(t, "Gupta Electronics", page.Quotations[0].CustomerDetails.Name)

	_, err = svc.List(ctx, admin, ListQuotationsInput{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListPagination(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	for range 5 {
		createQuotation(t, svc, alice, "Rahul Computers", 100)
	}

	page, err := svc.List(ctx, alice, ListQuotationsInput{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Quotations, 2)
	assert.Equal(t, Pagination{Total: 5, Page: 2, Limit: 2, Pages: 3}, page.Pagination)
}

func TestDeleteOriginalWithRevisionsConflicts(t *testing.T) {
	svc, _ := newQuotationService(t)
	ctx := context.Background()
	orig := createQuotation(t, svc, alice, "Rahul Computers", 236)
	rev, err := svc.Revise(ctx, alice, orig.ID, ReviseInput{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, alice, orig.ID), repository.ErrConflict)
	require.NoError(t, svc.Delete(ctx, alice, rev.ID))
	require.NoError(t, svc.Delete(ctx, alice, orig.ID))

	_, err = svc.Get(ctx, alice, orig.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
