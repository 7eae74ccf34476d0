package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"empresspc/models"
	"empresspc/repository"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	customerFragmentLen = 6
	// maxNumberAttempts bounds how often a generated number is redrawn after
	// the store rejects it as a duplicate.
	maxNumberAttempts = 5
)

var revisionSuffix = regexp.MustCompile(`_R\d+$`)

// BaseNumber strips a trailing revision suffix such as "_R3".
func BaseNumber(number string) string {
	return revisionSuffix.ReplaceAllString(number, "")
}

func RevisionNumberFor(base string, n int) string {
	return fmt.Sprintf("%s_R%d", base, n)
}

func customerFragment(name string) string {
	s := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, slug.Make(name))
	if len(s) > customerFragmentLen {
		s = s[:customerFragmentLen]
	}
	return strings.ToUpper(s)
}

func revisionCounterKey(rootID primitive.ObjectID) string {
	return "quotation_revision:" + rootID.Hex()
}

// NumberAllocator produces quotation numbers. Fresh numbers are random and
// checked by the unique index on insert; revision numbers come from an atomic
// per-original counter.
type NumberAllocator struct {
	Counters   repository.CounterRepository
	Quotations repository.QuotationRepository
	now        func() time.Time
	intn       func(n int) int
}

func NewNumberAllocator(counters repository.CounterRepository, quotations repository.QuotationRepository) *NumberAllocator {
	return &NumberAllocator{
		Counters:   counters,
		Quotations: quotations,
		now:        time.Now,
		intn:       rand.IntN,
	}
}

// Fresh returns e.g. "Q261015-RAHULC-0427" for customer "Rahul Computers".
func (a *NumberAllocator) Fresh(customerName string) string {
	var b strings.Builder
	b.WriteString("Q")
	b.WriteString(a.now().Format("060102"))
	b.WriteString("-")
	if frag := customerFragment(customerName); frag != "" {
		b.WriteString(frag)
		b.WriteString("-")
	}
	fmt.Fprintf(&b, "%04d", a.intn(10000))
	return b.String()
}

// NextRevision reserves the next revision number of root. The counter is
// floored at the number of revisions already stored so chains created before
// the counter existed continue densely.
func (a *NumberAllocator) NextRevision(ctx context.Context, root *models.Quotation) (int, string, error) {
	existing, err := a.Quotations.CountRevisions(ctx, root.ID)
	if err != nil {
		return 0, "", fmt.Errorf("count revisions: %w", err)
	}
	n, err := a.Counters.Next(ctx, revisionCounterKey(root.ID), existing)
	if err != nil {
		return 0, "", fmt.Errorf("allocate revision number: %w", err)
	}
	return int(n), RevisionNumberFor(BaseNumber(root.QuotationNumber), int(n)), nil
}

// ReleaseRevision returns n to the counter when its revision was not stored.
func (a *NumberAllocator) ReleaseRevision(ctx context.Context, rootID primitive.ObjectID, n int) error {
	return a.Counters.Release(ctx, revisionCounterKey(rootID), int64(n))
}
