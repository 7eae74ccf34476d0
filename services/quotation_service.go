package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empresspc/auth"
	"empresspc/metrics"
	"empresspc/models"
	"empresspc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type QuotationService struct {
	Repo    repository.QuotationRepository
	Parties repository.PartyRepository
	Initial repository.InitialRepository
	Numbers *NumberAllocator
	Metrics *metrics.Metrics
	Log     *zap.Logger
	now     func() time.Time
}

func NewQuotationService(
	repo repository.QuotationRepository,
	counters repository.CounterRepository,
	parties repository.PartyRepository,
	initial repository.InitialRepository,
	m *metrics.Metrics,
	log *zap.Logger,
) *QuotationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuotationService{
		Repo:    repo,
		Parties: parties,
		Initial: initial,
		Numbers: NewNumberAllocator(counters, repo),
		Metrics: m,
		Log:     log.Named("quotations"),
		now:     time.Now,
	}
}

// load fetches a quotation and checks the caller may act on it.
func (s *QuotationService) load(ctx context.Context, id auth.Identity, qid primitive.ObjectID) (*models.Quotation, error) {
	q, err := s.Repo.GetQuotation(ctx, qid)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if !auth.ScopeFor(id).Allows(q.CreatedBy) {
		return nil, fmt.Errorf("quotation %s: %w", qid.Hex(), ErrForbidden)
	}
	return q, nil
}

// resolveCustomer refreshes the snapshot from the referenced party when the
// caller can see it. Otherwise the snapshot is kept as sent.
func (s *QuotationService) resolveCustomer(ctx context.Context, id auth.Identity, cd models.CustomerDetails) (models.CustomerDetails, error) {
	if cd.ID == nil || cd.ID.IsZero() {
		cd.ID = nil
		return cd, nil
	}
	p, err := s.Parties.GetParty(ctx, *cd.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return cd, nil
	case err != nil:
		return cd, fmt.Errorf("get party: %w", err)
	}
	if !auth.ScopeFor(id).Allows(p.CreatedBy) {
		return cd, nil
	}
	return p.Snapshot(), nil
}

func (s *QuotationService) defaultBusiness(ctx context.Context) (models.BusinessDetails, error) {
	profile, err := s.Initial.GetInitial(ctx)
	if err != nil {
		return models.BusinessDetails{}, fmt.Errorf("get business profile: %w", err)
	}
	if profile == nil {
		return models.BusinessDetails{}, nil
	}
	return profile.BusinessDetails(), nil
}

func (s *QuotationService) Create(ctx context.Context, id auth.Identity, in CreateQuotationInput) (*models.Quotation, error) {
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	now := s.now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}
	expiry := date.Add(models.DefaultExpiry)
	if in.ExpiryDate != nil && !in.ExpiryDate.IsZero() {
		expiry = in.ExpiryDate.UTC()
	}
	if expiry.Before(date) {
		return nil, invalid("expiryDate is before date")
	}

	customer, err := s.resolveCustomer(ctx, id, in.CustomerDetails)
	if err != nil {
		return nil, err
	}

	var business models.BusinessDetails
	if in.BusinessDetails != nil {
		business = *in.BusinessDetails
	} else if business, err = s.defaultBusiness(ctx); err != nil {
		return nil, err
	}
	if business.CompanyName == "" {
		return nil, invalid("businessDetails.companyName is required")
	}

	q := &models.Quotation{
		QuotationNumber: in.QuotationNumber,
		Date:            date,
		ExpiryDate:      expiry,
		CustomerDetails: customer,
		BusinessDetails: business,
		Items:           in.Items,
		Totals:          in.Totals,
		Status:          status,
		Notes:           in.Notes,
		CreatedBy:       id.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.insertOriginal(ctx, q); err != nil {
		return nil, err
	}
	s.Metrics.QuotationCreated(metrics.KindOriginal)
	s.Log.Info("quotation created",
		zap.String("id", q.ID.Hex()),
		zap.String("number", q.QuotationNumber),
		zap.String("created_by", id.ID.Hex()),
	)
	return q, nil
}

// insertOriginal stores q. A caller-chosen number is tried once; a generated
// number is redrawn when it collides.
func (s *QuotationService) insertOriginal(ctx context.Context, q *models.Quotation) error {
	if q.QuotationNumber != "" {
		if err := s.Repo.CreateQuotation(ctx, q); err != nil {
			return fmt.Errorf("create quotation %s: %w", q.QuotationNumber, err)
		}
		return nil
	}

	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		q.ID = primitive.NilObjectID
		q.QuotationNumber = s.Numbers.Fresh(q.CustomerDetails.Name)
		err = s.Repo.CreateQuotation(ctx, q)
		if !errors.Is(err, repository.ErrConflict) {
			break
		}
		s.Metrics.NumberConflict()
		s.Log.Warn("generated quotation number taken", zap.String("number", q.QuotationNumber), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		q.QuotationNumber = ""
		return fmt.Errorf("create quotation: %w", err)
	}
	return nil
}

func (s *QuotationService) Get(ctx context.Context, id auth.Identity, qid primitive.ObjectID) (*models.Quotation, error) {
	return s.load(ctx, id, qid)
}

func (s *QuotationService) List(ctx context.Context, id auth.Identity, in ListQuotationsInput) (*QuotationPage, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, invalid("unknown status %q", in.Status)
	}
	page := max(in.Page, 1)
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)

	f := repository.QuotationFilter{
		Owner:  auth.ScopeFor(id).Owner(),
		Status: in.Status,
		Search: in.Search,
		From:   in.StartDate,
		To:     in.EndDate,
		Skip:   int64((page - 1) * limit),
		Limit:  int64(limit),
	}
	if in.Customer != "" {
		if cid, err := primitive.ObjectIDFromHex(in.Customer); err == nil {
			f.CustomerID = &cid
		} else {
			f.Customer = in.Customer
		}
	}

	qs, total, err := s.Repo.ListQuotations(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	return &QuotationPage{
		Quotations: qs,
		Pagination: Pagination{Total: total, Page: page, Limit: limit, Pages: pages},
	}, nil
}

func (s *QuotationService) Update(ctx context.Context, id auth.Identity, qid primitive.ObjectID, in UpdateQuotationInput) (*models.Quotation, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("unknown status %q", *in.Status)
	}
	q, err := s.load(ctx, id, qid)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		q.Date = in.Date.UTC()
	}
	if in.ExpiryDate != nil {
		q.ExpiryDate = in.ExpiryDate.UTC()
	}
	if q.ExpiryDate.Before(q.Date) {
		return nil, invalid("expiryDate is before date")
	}
	if in.CustomerDetails != nil {
		if q.CustomerDetails, err = s.resolveCustomer(ctx, id, *in.CustomerDetails); err != nil {
			return nil, err
		}
	}
	if in.BusinessDetails != nil {
		if in.BusinessDetails.CompanyName == "" {
			return nil, invalid("businessDetails.companyName is required")
		}
		q.BusinessDetails = *in.BusinessDetails
	}
	if in.Items != nil {
		q.Items = in.Items
	}
	if in.Totals != nil {
		q.Totals = *in.Totals
	}
	if in.Status != nil {
		q.Status = *in.Status
	}
	if in.Notes != nil {
		q.Notes = *in.Notes
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.Repo.UpdateQuotation(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return q, nil
}

// UpdateStatus accepts any status of the enumerated set from any other.
func (s *QuotationService) UpdateStatus(ctx context.Context, id auth.Identity, qid primitive.ObjectID, status models.QuotationStatus) (*models.Quotation, error) {
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	return s.Update(ctx, id, qid, UpdateQuotationInput{Status: &status})
}

// Delete removes a quotation. An original that still has revisions is kept so
// the chain never loses its root.
func (s *QuotationService) Delete(ctx context.Context, id auth.Identity, qid primitive.ObjectID) error {
	q, err := s.load(ctx, id, qid)
	if err != nil {
		return err
	}
	if !q.IsRevision() {
		n, err := s.Repo.CountRevisions(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("count revisions: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("quotation %s has %d revisions: %w", q.QuotationNumber, n, repository.ErrConflict)
		}
	}
	if err := s.Repo.DeleteQuotation(ctx, q.ID); err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}

func (s *QuotationService) root(ctx context.Context, q *models.Quotation) (*models.Quotation, error) {
	if !q.IsRevision() {
		return q, nil
	}
	root, err := s.Repo.GetQuotation(ctx, *q.OriginalQuotationID)
	if err != nil {
		return nil, fmt.Errorf("get original quotation: %w", err)
	}
	return root, nil
}

// Revise copies the quotation qid into a new draft revision of its chain.
// Neither qid nor the original are modified.
func (s *QuotationService) Revise(ctx context.Context, id auth.Identity, qid primitive.ObjectID, in ReviseInput) (*models.Quotation, error) {
	src, err := s.load(ctx, id, qid)
	if err != nil {
		return nil, err
	}
	root, err := s.root(ctx, src)
	if err != nil {
		return nil, err
	}
	if in.BusinessDetails != nil && in.BusinessDetails.CompanyName == "" {
		return nil, invalid("businessDetails.companyName is required")
	}

	n, number, err := s.Numbers.NextRevision(ctx, root)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rootID := root.ID
	rev := src.Clone()
	rev.ID = primitive.NilObjectID
	rev.QuotationNumber = number
	rev.Status = models.StatusDraft
	rev.OriginalQuotationID = &rootID
	rev.RevisionNumber = &n
	rev.Date = now
	rev.ExpiryDate = now.Add(models.DefaultExpiry)
	rev.PdfURL = ""
	rev.PdfCreatedAt = nil
	rev.CreatedBy = root.CreatedBy
	rev.CreatedAt = now
	rev.UpdatedAt = now

	if in.Items != nil {
		rev.Items = in.Items
	}
	if in.Totals != nil {
		rev.Totals = *in.Totals
	}
	if in.BusinessDetails != nil {
		rev.BusinessDetails = *in.BusinessDetails
	}
	if in.Notes != nil {
		rev.Notes = *in.Notes
	}

	if err := s.Repo.CreateQuotation(ctx, rev); err != nil {
		if rerr := s.Numbers.ReleaseRevision(ctx, rootID, n); rerr != nil {
			s.Log.Error("release revision number", zap.String("original", rootID.Hex()), zap.Int("revision", n), zap.Error(rerr))
		}
		return nil, fmt.Errorf("create revision %s: %w", number, err)
	}
	s.Metrics.QuotationCreated(metrics.KindRevision)
	s.Log.Info("quotation revised",
		zap.String("original", rootID.Hex()),
		zap.String("number", number),
		zap.Int("revision", n),
	)
	return rev, nil
}

// Revisions returns the chain qid belongs to: the original first, then its
// revisions by ascending revision number.
func (s *QuotationService) Revisions(ctx context.Context, id auth.Identity, qid primitive.ObjectID) ([]models.Quotation, error) {
	q, err := s.load(ctx, id, qid)
	if err != nil {
		return nil, err
	}
	root, err := s.root(ctx, q)
	if err != nil {
		return nil, err
	}
	revs, err := s.Repo.ListRevisions(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return append([]models.Quotation{*root}, revs...), nil
}
