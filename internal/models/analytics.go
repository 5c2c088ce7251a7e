package models

// TimeRange selects the bucketing of the revenue series
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
	RangeYearly  TimeRange = "yearly"
)

// SalesSummary aggregates all orders
type SalesSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// ItemSales is the aggregate of every order line sharing an item name
type ItemSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// RevenueBucket is one point of the revenue series
type RevenueBucket struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// AnalyticsReport is what the admin analytics view renders
type AnalyticsReport struct {
	Summary   SalesSummary    `json:"summary"`
	Range     TimeRange       `json:"range"`
	Series    []RevenueBucket `json:"series"`
	TopItems  []ItemSales     `json:"topItems"`
	ItemShare []ItemSales     `json:"itemShare"`
}
