// Package aggregating calcula as métricas derivadas de um conjunto de chamadas
package aggregating

import (
	"fmt"
	"sort"

	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

// VendorColors é a paleta fixa usada nas barras empilhadas por vendedor
var VendorColors = []string{
	"#ff7300",
	"#387908",
	"#0088FE",
	"#d0ed57",
	"#a28dd0",
	"#d04747",
	"#47d0b2",
}

// Summarize calcula vendas fechadas e abertas de todas as chamadas
func Summarize(records []*domain.CallRecord) domain.SalesSummary {
	closed := 0
	for _, record := range records {
		if record.SaleClosed {
			closed++
		}
	}

	summary := domain.SalesSummary{
		TotalCalls:  len(records),
		ClosedSales: closed,
		OpenSales:   len(records) - closed,
	}

	// Sem chamadas a taxa de conversão não é calculada
	if summary.TotalCalls > 0 {
		summary.ConversionRate = utils.Percentage(closed, summary.TotalCalls)
	}

	return summary
}

// ByVendor agrupa as chamadas por vendedor (comparação exata, sem trim)
func ByVendor(records []*domain.CallRecord) []*domain.VendorAggregate {
	byVendor := make(map[string]*domain.VendorAggregate)
	for _, record := range records {
		aggregate, exists := byVendor[record.Vendor]
		if !exists {
			aggregate = &domain.VendorAggregate{Vendor: record.Vendor}
			byVendor[record.Vendor] = aggregate
		}

		aggregate.Total++
		if record.SaleClosed {
			aggregate.Closed++
		}
	}

	vendors := make([]*domain.VendorAggregate, 0, len(byVendor))
	for _, aggregate := range byVendor {
		aggregate.ConversionRate = utils.Percentage(aggregate.Closed, aggregate.Total)
		aggregate.TotalLabel = fmt.Sprintf("%d sales  out of %d calls", aggregate.Closed, aggregate.Total)
		vendors = append(vendors, aggregate)
	}

	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].Vendor < vendors[j].Vendor
	})

	return vendors
}

// ByMonth soma as vendas fechadas por mês e por vendedor
func ByMonth(records []*domain.CallRecord) *domain.MonthlySales {
	byKey := make(map[string]*domain.MonthAggregate)
	vendorSet := make(map[string]struct{})

	for _, record := range records {
		if !record.SaleClosed || !record.HasDate() {
			continue
		}

		key := utils.MonthKey(record.Date)
		month, exists := byKey[key]
		if !exists {
			month = &domain.MonthAggregate{
				Key:     key,
				Month:   utils.MonthLabel(record.Date),
				Vendors: make(map[string]int),
			}
			byKey[key] = month
		}

		month.Total++
		month.Vendors[record.Vendor]++
		vendorSet[record.Vendor] = struct{}{}
	}

	months := make([]*domain.MonthAggregate, 0, len(byKey))
	for _, month := range byKey {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Key < months[j].Key
	})

	vendors := make([]string, 0, len(vendorSet))
	for vendor := range vendorSet {
		vendors = append(vendors, vendor)
	}
	sort.Strings(vendors)

	return &domain.MonthlySales{
		Months:  months,
		Vendors: vendors,
		Colors:  AssignColors(vendors),
	}
}

// AssignColors associa uma cor a cada vendedor pela posição na lista ordenada
func AssignColors(sortedVendors []string) map[string]string {
	colors := make(map[string]string, len(sortedVendors))
	for i, vendor := range sortedVendors {
		colors[vendor] = VendorColors[i%len(VendorColors)]
	}
	return colors
}
