package aggregator

import (
	"sort"
	"time"

	"crm_backend/platform/apperr"
)

// Trend ranges accepted by RevenueTrends.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
	RangeYTD = "ytd"
)

const dayFormat = "2006-01-02"

type TrendPoint struct {
	Date         string `json:"date"`
	RevenueCents int64  `json:"revenueCents"`
	OrderCount   int    `json:"orderCount"`
}

// RevenueTrends buckets orders by calendar day over the requested window.
// With zeroFill the series is contiguous from the window start to now,
// empty days reported as zero; without it only days that saw orders
// appear. Either way the series is ascending by date.
func RevenueTrends(s Snapshot, rng string, zeroFill bool) ([]TrendPoint, error) {
	start, err := windowStart(s.Now, rng)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*TrendPoint{}
	for _, order := range s.Orders {
		if order.CreatedAt.Before(start) || order.CreatedAt.After(s.Now) {
			continue
		}
		day := order.CreatedAt.Format(dayFormat)
		point, ok := buckets[day]
		if !ok {
			point = &TrendPoint{Date: day}
			buckets[day] = point
		}
		point.RevenueCents += order.TotalCents
		point.OrderCount++
	}

	series := make([]TrendPoint, 0, len(buckets))
	if zeroFill {
		for day := startOfDay(start); !day.After(s.Now); day = day.AddDate(0, 0, 1) {
			key := day.Format(dayFormat)
			if point, ok := buckets[key]; ok {
				series = append(series, *point)
			} else {
				series = append(series, TrendPoint{Date: key})
			}
		}
		return series, nil
	}

	for _, point := range buckets {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

func windowStart(now time.Time, rng string) (time.Time, error) {
	switch rng {
	case Range7d:
		return now.AddDate(0, 0, -7), nil
	case Range30d:
		return now.AddDate(0, 0, -30), nil
	case Range90d:
		return now.AddDate(0, 0, -90), nil
	case RangeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, apperr.Validation("invalid range: " + rng)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
