package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"empresspc/auth"
	"empresspc/models"
	"empresspc/repository"

	"github.com/shopspring/decimal"
)

const defaultTopCustomers = 10

type StatsInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// StatsWindow returns the default statistics window: from the first day of
// the previous calendar month up to now.
func StatsWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	return start, now
}

// Summary aggregates the quotations visible to the caller whose date falls in
// the window. Every view is computed from a single scan.
func (s *QuotationService) Summary(ctx context.Context, id auth.Identity, in StatsInput) (*models.QuotationSummary, error) {
	start, end := StatsWindow(s.now())
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		end = in.EndDate.UTC()
	}
	if end.Before(start) {
		return nil, invalid("endDate is before startDate")
	}

	qs, _, err := s.Repo.ListQuotations(ctx, repository.QuotationFilter{
		Owner: auth.ScopeFor(id).Owner(),
		From:  &start,
		To:    &end,
	})
	if err != nil {
		return nil, fmt.Errorf("scan quotations: %w", err)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultTopCustomers
	}
	return Summarize(qs, limit), nil
}

type monthKey struct{ year, month int }

type bucket struct {
	name   string
	count  int
	amount decimal.Decimal
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Summarize computes every statistics view over qs. An empty slice gives
// zero totals and empty lists.
func Summarize(qs []models.Quotation, topCustomers int) *models.QuotationSummary {
	var (
		total, profit         decimal.Decimal
		origAmount, revAmount decimal.Decimal
		origCount, revCount   int
		customerOrder         []string
	)
	months := map[monthKey]*bucket{}
	customers := map[string]*bucket{}
	statusCounts := make(map[models.QuotationStatus]int, len(models.QuotationStatuses))
	for _, st := range models.QuotationStatuses {
		statusCounts[st] = 0
	}

	for i := range qs {
		q := &qs[i]
		grand := decimal.NewFromFloat(q.Totals.GrandTotal)
		total = total.Add(grand)
		profit = profit.Add(decimal.NewFromFloat(q.Totals.TotalProfit))
		statusCounts[q.Status]++

		if q.IsRevision() {
			revCount++
			revAmount = revAmount.Add(grand)
		} else {
			origCount++
			origAmount = origAmount.Add(grand)
		}

		d := q.Date.UTC()
		mk := monthKey{d.Year(), int(d.Month())}
		mb, ok := months[mk]
		if !ok {
			mb = &bucket{}
			months[mk] = mb
		}
		mb.count++
		mb.amount = mb.amount.Add(grand)

		key := customerKey(q.CustomerDetails)
		cb, ok := customers[key]
		if !ok {
			cb = &bucket{name: q.CustomerDetails.Name}
			customers[key] = cb
			customerOrder = append(customerOrder, key)
		}
		cb.count++
		cb.amount = cb.amount.Add(grand)
	}

	out := &models.QuotationSummary{
		TotalStats: models.TotalStats{
			Count:       len(qs),
			TotalAmount: money(total),
			TotalProfit: money(profit),
		},
		StatusCounts:  statusCounts,
		MonthlyStats:  []models.MonthlyStat{},
		CustomerStats: []models.CustomerStat{},
		RevisionStats: models.RevisionStats{
			Originals: models.CountAmount{Count: origCount, TotalAmount: money(origAmount)},
			Revisions: models.CountAmount{Count: revCount, TotalAmount: money(revAmount)},
		},
	}

	for mk, mb := range months {
		out.MonthlyStats = append(out.MonthlyStats, models.MonthlyStat{
			Year: mk.year, Month: mk.month, Count: mb.count, TotalAmount: money(mb.amount),
		})
	}
	sort.Slice(out.MonthlyStats, func(i, j int) bool {
		a, b := out.MonthlyStats[i], out.MonthlyStats[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	ranked := make([]string, len(customerOrder))
	copy(ranked, customerOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return customers[ranked[i]].amount.GreaterThan(customers[ranked[j]].amount)
	})
	if len(ranked) > topCustomers {
		ranked = ranked[:topCustomers]
	}
	for _, key := range ranked {
		cb := customers[key]
		stat := models.CustomerStat{CustomerName: cb.name, Count: cb.count, TotalAmount: money(cb.amount)}
		if id, ok := strings.CutPrefix(key, "id:"); ok {
			stat.CustomerID = id
		}
		out.CustomerStats = append(out.CustomerStats, stat)
	}
	return out
}

// customerKey groups by party id when the snapshot has one, else by name.
func customerKey(cd models.CustomerDetails) string {
	if cd.ID != nil && !cd.ID.IsZero() {
		return "id:" + cd.ID.Hex()
	}
	return "name:" + strings.ToLower(strings.TrimSpace(cd.Name))
}
