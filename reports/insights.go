// Package reports computes read-only views over entity store snapshots.
// Every function is pure: identical snapshots always produce identical
// output, so nothing here caches or invalidates.
package reports

import (
	"math"
	"sort"
	"time"

	"laptoppos/database"
)

// Customer tier thresholds by lifetime spend.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"

	silverThreshold   = 2000
	goldThreshold     = 5000
	platinumThreshold = 10000

	// A customer counts as active with a purchase in the trailing 90 days.
	activeWindow = 90 * 24 * time.Hour
)

// Tier maps lifetime spend to a segmentation label. Monotonic: more spend
// never yields a lower tier.
func Tier(totalSpent float64) string {
	switch {
	case totalSpent >= platinumThreshold:
		return TierPlatinum
	case totalSpent >= goldThreshold:
		return TierGold
	case totalSpent >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// CustomerInsight is the derived, never-stored view of one customer.
type CustomerInsight struct {
	Customer        database.Customer `json:"customer"`
	TotalPurchases  int               `json:"total_purchases"`
	TotalSpent      float64           `json:"total_spent"`
	Tier            string            `json:"tier"`
	LastPurchase    *time.Time        `json:"last_purchase,omitempty"`
	PreferredBrands []string          `json:"preferred_brands"`
	Active          bool              `json:"active"`
}

// CustomerInsights recomputes the derived view for every customer from a
// fresh snapshot read of customers, sales and laptops.
func CustomerInsights(customers []database.Customer, sales []database.Sale, laptops []database.Laptop, now time.Time) []CustomerInsight {
	laptopByID := make(map[uint]database.Laptop, len(laptops))
	for _, l := range laptops {
		laptopByID[l.ID] = l
	}

	out := make([]CustomerInsight, 0, len(customers))
	for _, c := range customers {
		insight := CustomerInsight{Customer: c, Tier: TierBronze, PreferredBrands: []string{}}
		brandCounts := map[string]int{}

		for _, s := range sales {
			if s.CustomerID != c.ID || s.Status != database.SaleStatusCompleted {
				continue
			}
			insight.TotalPurchases += s.Quantity
			insight.TotalSpent += s.TotalAmount
			if insight.LastPurchase == nil || s.SaleDate.After(*insight.LastPurchase) {
				saleDate := s.SaleDate
				insight.LastPurchase = &saleDate
			}
			if l, ok := laptopByID[s.LaptopID]; ok {
				brandCounts[l.Brand] += s.Quantity
			}
		}

		insight.TotalSpent = math.Round(insight.TotalSpent*100) / 100
		insight.Tier = Tier(insight.TotalSpent)
		insight.PreferredBrands = topBrands(brandCounts, 3)
		if insight.LastPurchase != nil {
			insight.Active = now.Sub(*insight.LastPurchase) <= activeWindow
		}
		out = append(out, insight)
	}
	return out
}

// topBrands returns up to n brands by purchase count, ties broken
// alphabetically so the output is deterministic.
func topBrands(counts map[string]int, n int) []string {
	brands := make([]string, 0, len(counts))
	for b := range counts {
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool {
		if counts[brands[i]] != counts[brands[j]] {
			return counts[brands[i]] > counts[brands[j]]
		}
		return brands[i] < brands[j]
	})
	if len(brands) > n {
		brands = brands[:n]
	}
	return brands
}

// SaleProfit pairs a sale with its computed margin.
type SaleProfit struct {
	Sale   database.Sale `json:"sale"`
	Profit float64       `json:"profit"`
}

// SaleProfits computes (unit price - laptop cost) * quantity per sale.
// Sales referencing an unknown laptop contribute zero profit rather than
// failing.
func SaleProfits(sales []database.Sale, laptops []database.Laptop) []SaleProfit {
	laptopByID := make(map[uint]database.Laptop, len(laptops))
	for _, l := range laptops {
		laptopByID[l.ID] = l
	}
	out := make([]SaleProfit, 0, len(sales))
	for _, s := range sales {
		profit := 0.0
		if l, ok := laptopByID[s.LaptopID]; ok {
			profit = math.Round((s.UnitPrice-l.Cost)*float64(s.Quantity)*100) / 100
		}
		out = append(out, SaleProfit{Sale: s, Profit: profit})
	}
	return out
}

// StockAlerts returns laptops at or below their low-stock threshold.
func StockAlerts(laptops []database.Laptop) []database.Laptop {
	out := []database.Laptop{}
	for _, l := range laptops {
		if l.Quantity <= l.LowStockThreshold {
			out = append(out, l)
		}
	}
	return out
}

// Summary aggregates completed sales for a dashboard view.
type Summary struct {
	SaleCount    int     `json:"sale_count"`
	UnitsSold    int     `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	LowStock     int     `json:"low_stock"`
	ActiveBuyers int     `json:"active_buyers"`
}

// BuildSummary computes the dashboard totals from one snapshot read.
func BuildSummary(customers []database.Customer, sales []database.Sale, laptops []database.Laptop, now time.Time) Summary {
	summary := Summary{}
	for _, sp := range SaleProfits(sales, laptops) {
		if sp.Sale.Status != database.SaleStatusCompleted {
			continue
		}
		summary.SaleCount++
		summary.UnitsSold += sp.Sale.Quantity
		summary.Revenue += sp.Sale.TotalAmount
		summary.Profit += sp.Profit
	}
	summary.Revenue = math.Round(summary.Revenue*100) / 100
	summary.Profit = math.Round(summary.Profit*100) / 100
	summary.LowStock = len(StockAlerts(laptops))
	for _, ci := range CustomerInsights(customers, sales, laptops, now) {
		if ci.Active {
			summary.ActiveBuyers++
		}
	}
	return summary
}
