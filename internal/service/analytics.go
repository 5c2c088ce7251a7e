package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

const (
	topItemsLimit  = 5
	itemShareLimit = 8
)

// Analytics builds the admin analytics report over all orders
func (s *Storefront) Analytics(ctx context.Context, r models.TimeRange) (*models.AnalyticsReport, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.Analytics")
	defer span.End()

	orders, err := s.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	series, err := RevenueSeries(orders, r, s.now())
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsReport{
		Summary:   Summary(orders),
		Range:     r,
		Series:    series,
		TopItems:  TopItems(orders, topItemsLimit),
		ItemShare: ItemShare(orders, itemShareLimit),
	}, nil
}

// Summary totals revenue and order count
func Summary(orders []models.Order) models.SalesSummary {
	var sum models.SalesSummary
	for _, o := range orders {
		sum.TotalRevenue += o.Total
	}
	sum.TotalOrders = len(orders)
	if sum.TotalOrders > 0 {
		sum.AverageOrderValue = sum.TotalRevenue / float64(sum.TotalOrders)
	}
	return sum
}

// TopItems returns up to n items ordered by revenue, highest first
func TopItems(orders []models.Order, n int) []models.ItemSales {
	items := aggregateItems(orders)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Revenue > items[j].Revenue })
	return limit(items, n)
}

// ItemShare returns up to n items ordered by quantity sold, highest first
func ItemShare(orders []models.Order, n int) []models.ItemSales {
	items := aggregateItems(orders)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity > items[j].Quantity })
	return limit(items, n)
}

// aggregateItems groups order lines by item name in first-seen order
func aggregateItems(orders []models.Order) []models.ItemSales {
	index := make(map[string]int)
	out := make([]models.ItemSales, 0)

	for _, o := range orders {
		for _, item := range o.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(out)
				index[item.Name] = i
				out = append(out, models.ItemSales{Name: item.Name})
			}
			out[i].Quantity += item.Quantity
			out[i].Revenue += item.Price * float64(item.Quantity)
		}
	}
	return out
}

func limit(items []models.ItemSales, n int) []models.ItemSales {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// RevenueSeries buckets orders by creation time ending at now, in now's location:
// 7 days, 4 Sunday-based weeks, 6 months or 5 years.
func RevenueSeries(orders []models.Order, r models.TimeRange, now time.Time) ([]models.RevenueBucket, error) {
	var buckets []models.RevenueBucket
	loc := now.Location()
	y, m, d := now.Date()

	switch r {
	case models.RangeDaily:
		for i := 6; i >= 0; i-- {
			start := time.Date(y, m, d-i, 0, 0, 0, 0, loc)
			end := time.Date(y, m, d-i+1, 0, 0, 0, 0, loc)
			buckets = append(buckets, bucket(orders, start, end, start.Format("Mon"), start.Format("2006-01-02")))
		}
	case models.RangeWeekly:
		weekStart := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		for i := 3; i >= 0; i-- {
			start := weekStart.AddDate(0, 0, -7*i)
			end := weekStart.AddDate(0, 0, -7*(i-1))
			buckets = append(buckets, bucket(orders, start, end, fmt.Sprintf("Week %d", 4-i), start.Format("2006-01-02")))
		}
	case models.RangeMonthly:
		for i := 5; i >= 0; i-- {
			start := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, loc)
			end := time.Date(y, m-time.Month(i-1), 1, 0, 0, 0, 0, loc)
			buckets = append(buckets, bucket(orders, start, end, start.Format("Jan"), start.Format("2006-01")))
		}
	case models.RangeYearly:
		for i := 4; i >= 0; i-- {
			year := y - i
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
			end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
			label := strconv.Itoa(year)
			buckets = append(buckets, bucket(orders, start, end, label, label))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, r)
	}

	return buckets, nil
}

func bucket(orders []models.Order, start, end time.Time, name, date string) models.RevenueBucket {
	b := models.RevenueBucket{Name: name, Date: date}
	for _, o := range orders {
		if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			b.Revenue += o.Total
			b.Orders++
		}
	}
	return b
}
