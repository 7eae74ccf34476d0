package models

type TotalStats struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	TotalProfit float64 `json:"totalProfit"`
}

type MonthlyStat struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type CustomerStat struct {
	CustomerID   string  `json:"customerId,omitempty"`
	CustomerName string  `json:"customerName"`
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"totalAmount"`
}

type CountAmount struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type RevisionStats struct {
	Originals CountAmount `json:"originals"`
	Revisions CountAmount `json:"revisions"`
}

type QuotationSummary struct {
	TotalStats    TotalStats              `json:"totalStats"`
	StatusCounts  map[QuotationStatus]int `json:"statusCounts"`
	MonthlyStats  []MonthlyStat           `json:"monthlyStats"`
	CustomerStats []CustomerStat          `json:"customerStats"`
	RevisionStats RevisionStats           `json:"revisionStats"`
}
