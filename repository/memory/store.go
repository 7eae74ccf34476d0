// Package memory holds an in-process implementation of every repository
// interface. It backs DB_TYPE=memory and the service tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"empresspc/db"
	"empresspc/models"
	"empresspc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu         sync.Mutex
	quotations map[primitive.ObjectID]*models.Quotation
	parties    map[primitive.ObjectID]models.Party
	components map[primitive.ObjectID]models.Component
	users      map[primitive.ObjectID]models.AppUser
	initials   []models.InitialSetup
	counters   map[string]int64
}

var (
	_ repository.QuotationRepository = (*Store)(nil)
	_ repository.CounterRepository   = (*Store)(nil)
	_ repository.PartyRepository     = (*Store)(nil)
	_ repository.ComponentRepository = (*Store)(nil)
	_ repository.UserRepository      = (*Store)(nil)
	_ repository.InitialRepository   = (*Store)(nil)
	_ db.DB                          = (*Store)(nil)
)

func New() *Store {
	return &Store{
		quotations: map[primitive.ObjectID]*models.Quotation{},
		parties:    map[primitive.ObjectID]models.Party{},
		components: map[primitive.ObjectID]models.Component{},
		users:      map[primitive.ObjectID]models.AppUser{},
		counters:   map[string]int64{},
	}
}

// Connect, Ping and Disconnect let the store stand in as a backend.
func (s *Store) Connect(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error    { return nil }
func (s *Store) Disconnect() error             { return nil }

func notFound(op string) error { return fmt.Errorf("%s: %w", op, repository.ErrNotFound) }
func conflict(op string) error { return fmt.Errorf("%s: %w", op, repository.ErrConflict) }

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func stamp(id *primitive.ObjectID, created, updated *time.Time) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if created.IsZero() {
		*created = time.Now().UTC()
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// Quotations

func (s *Store) numberTaken(number string, except primitive.ObjectID) bool {
	for id, q := range s.quotations {
		if id != except && q.QuotationNumber == number {
			return true
		}
	}
	return false
}

func (s *Store) CreateQuotation(_ context.Context, q *models.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numberTaken(q.QuotationNumber, primitive.NilObjectID) {
		return conflict("insert quotation")
	}
	stamp(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if _, ok := s.quotations[q.ID]; ok {
		return conflict("insert quotation")
	}
	s.quotations[q.ID] = q.Clone()
	return nil
}

func (s *Store) GetQuotation(_ context.Context, id primitive.ObjectID) (*models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	if !ok {
		return nil, notFound("find quotation")
	}
	return q.Clone(), nil
}

func matchQuotation(q *models.Quotation, f repository.QuotationFilter) bool {
	if f.Owner != nil && q.CreatedBy != *f.Owner {
		return false
	}
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.CustomerID != nil && (q.CustomerDetails.ID == nil || *q.CustomerDetails.ID != *f.CustomerID) {
		return false
	}
	if f.Customer != "" && !contains(q.CustomerDetails.Name, f.Customer) {
		return false
	}
	if f.Search != "" {
		hit := contains(q.QuotationNumber, f.Search) ||
			contains(q.CustomerDetails.Name, f.Search) ||
			contains(q.CustomerDetails.Phone, f.Search)
		for _, it := range q.Items {
			hit = hit || contains(it.Component, f.Search)
		}
		if !hit {
			return false
		}
	}
	if f.From != nil && q.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && q.Date.After(*f.To) {
		return false
	}
	return true
}

func (s *Store) ListQuotations(_ context.Context, f repository.QuotationFilter) ([]models.Quotation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Quotation{}
	for _, q := range s.quotations {
		if matchQuotation(q, f) {
			out = append(out, *q.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	total := int64(len(out))
	if f.Skip > 0 {
		out = out[min(f.Skip, total):]
	}
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *Store) UpdateQuotation(_ context.Context, q *models.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotations[q.ID]; !ok {
		return notFound("replace quotation")
	}
	if s.numberTaken(q.QuotationNumber, q.ID) {
		return conflict("replace quotation")
	}
	s.quotations[q.ID] = q.Clone()
	return nil
}

func (s *Store) DeleteQuotation(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotations[id]; !ok {
		return notFound("delete quotation")
	}
	delete(s.quotations, id)
	return nil
}

func (s *Store) revisionsOf(rootID primitive.ObjectID) []models.Quotation {
	out := []models.Quotation{}
	for _, q := range s.quotations {
		if q.OriginalQuotationID != nil && *q.OriginalQuotationID == rootID {
			out = append(out, *q.Clone())
		}
	}
	return out
}

func (s *Store) ListRevisions(_ context.Context, rootID primitive.ObjectID) ([]models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.revisionsOf(rootID)
	sort.Slice(out, func(i, j int) bool {
		return revisionOf(out[i]) < revisionOf(out[j])
	})
	return out, nil
}

func revisionOf(q models.Quotation) int {
	if q.RevisionNumber == nil {
		return 0
	}
	return *q.RevisionNumber
}

func (s *Store) CountRevisions(_ context.Context, rootID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.revisionsOf(rootID))), nil
}

func (s *Store) UpdatePDF(_ context.Context, id primitive.ObjectID, url string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	if !ok {
		return notFound("update quotation pdf")
	}
	q.PdfURL = url
	q.PdfCreatedAt = &t
	q.UpdatedAt = t
	return nil
}

// Counters

func (s *Store) Next(_ context.Context, key string, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] = max(s.counters[key], floor) + 1
	return s.counters[key], nil
}

func (s *Store) Release(_ context.Context, key string, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters[key] == n {
		s.counters[key]--
	}
	return nil
}

// Parties

func (s *Store) CreateParty(_ context.Context, p *models.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	s.parties[p.ID] = *p
	return nil
}

func (s *Store) GetParty(_ context.Context, id primitive.ObjectID) (*models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parties[id]
	if !ok {
		return nil, notFound("find party")
	}
	return &p, nil
}

func (s *Store) ListParties(_ context.Context, f repository.PartyFilter) ([]models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Party{}
	for _, p := range s.parties {
		if f.Owner != nil && p.CreatedBy != *f.Owner {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Search != "" && !(contains(p.Name, f.Search) || contains(p.Phone, f.Search) ||
			contains(p.Email, f.Search) || contains(p.GSTIN, f.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	return out, nil
}

func (s *Store) UpdateParty(_ context.Context, p *models.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parties[p.ID]; !ok {
		return notFound("replace party")
	}
	s.parties[p.ID] = *p
	return nil
}

func (s *Store) DeleteParty(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parties[id]; !ok {
		return notFound("delete party")
	}
	delete(s.parties, id)
	return nil
}

// Components

func (s *Store) componentByName(name string) (models.Component, bool) {
	for _, c := range s.components {
		if c.Name == name {
			return c, true
		}
	}
	return models.Component{}, false
}

func (s *Store) CreateComponent(_ context.Context, c *models.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.componentByName(c.Name); ok {
		return conflict("insert component")
	}
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.components[c.ID] = *c
	return nil
}

func (s *Store) GetComponent(_ context.Context, id primitive.ObjectID) (*models.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.components[id]
	if !ok {
		return nil, notFound("find component")
	}
	return &c, nil
}

func (s *Store) ListComponents(_ context.Context, includeInactive bool) ([]models.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Component{}
	for _, c := range s.components {
		if includeInactive || c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) UpdateComponent(_ context.Context, c *models.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.components[c.ID]; !ok {
		return notFound("replace component")
	}
	if other, ok := s.componentByName(c.Name); ok && other.ID != c.ID {
		return conflict("replace component")
	}
	s.components[c.ID] = *c
	return nil
}

func (s *Store) UpsertComponent(_ context.Context, c *models.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := s.componentByName(c.Name); ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = primitive.NewObjectID()
		c.CreatedAt = now
	}
	c.IsActive = true
	c.UpdatedAt = now
	s.components[c.ID] = *c
	return nil
}

func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, c := range s.components {
		if c.IsActive && c.Category != "" && !slices.Contains(out, c.Category) {
			out = append(out, c.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Users

func (s *Store) userTaken(u *models.AppUser) bool {
	for id, other := range s.users {
		if id != u.ID && (other.Username == u.Username || strings.EqualFold(other.Email, u.Email)) {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(_ context.Context, u *models.AppUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userTaken(u) {
		return conflict("insert user")
	}
	stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) findUser(match func(models.AppUser) bool) (*models.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, notFound("find user")
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.AppUser, error) {
	return s.findUser(func(u models.AppUser) bool { return u.ID == id })
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.AppUser, error) {
	return s.findUser(func(u models.AppUser) bool { return u.Username == username })
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.AppUser, error) {
	return s.findUser(func(u models.AppUser) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) ListUsers(_ context.Context) ([]models.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AppUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, u *models.AppUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return notFound("replace user")
	}
	if s.userTaken(u) {
		return conflict("replace user")
	}
	s.users[u.ID] = *u
	return nil
}

// Business profile

func (s *Store) SaveInitial(_ context.Context, initial *models.InitialSetup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if initial.ID.IsZero() {
		initial.ID = primitive.NewObjectID()
	}
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = time.Now().UTC()
	}
	cp := *initial
	cp.Mobile = slices.Clone(initial.Mobile)
	s.initials = append(s.initials, cp)
	return nil
}

func (s *Store) GetInitial(_ context.Context) (*models.InitialSetup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.initials) == 0 {
		return nil, nil
	}
	latest := s.initials[0]
	for _, i := range s.initials[1:] {
		if !i.CreatedAt.Before(latest.CreatedAt) {
			latest = i
		}
	}
	latest.Mobile = slices.Clone(latest.Mobile)
	return &latest, nil
}
