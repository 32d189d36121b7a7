package aggregating

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/call-dashboard/internal/domain"
)

func call(vendor string, closed bool, date time.Time) *domain.CallRecord {
	return &domain.CallRecord{Vendor: vendor, SaleClosed: closed, Date: date}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []*domain.CallRecord {
	return []*domain.CallRecord{
		call("VendorA", true, day(2024, 3, 1)),
		call("VendorA", false, day(2024, 3, 2)),
		call("VendorB", true, day(2024, 3, 15)),
		call("VendorB", true, day(2024, 1, 20)),
		call("vendorb", false, day(2024, 2, 3)),
		call("VendorC", false, day(2024, 4, 8)),
		call("VendorA", true, day(2024, 4, 30)),
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleRecords())

	assert.Equal(t, 7, summary.TotalCalls)
	assert.Equal(t, 4, summary.ClosedSales)
	assert.Equal(t, 3, summary.OpenSales)
	assert.Equal(t, summary.TotalCalls, summary.ClosedSales+summary.OpenSales)
	assert.Equal(t, 57.14, summary.ConversionRate)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.True(t, summary.IsEmpty())
	assert.Zero(t, summary.ClosedSales)
	assert.Zero(t, summary.OpenSales)
	assert.Zero(t, summary.ConversionRate)
}

func TestByVendor(t *testing.T) {
	records := sampleRecords()
	vendors := ByVendor(records)

	require.Len(t, vendors, 4)
	assert.Equal(t, []string{"VendorA", "VendorB", "VendorC", "vendorb"}, vendorNames(vendors))

	vendorA := vendors[0]
	assert.Equal(t, 3, vendorA.Total)
	assert.Equal(t, 2, vendorA.Closed)
	assert.Equal(t, 66.67, vendorA.ConversionRate)
	assert.Equal(t, "2 sales  out of 3 calls", vendorA.TotalLabel)

	assert.Equal(t, 100.0, vendors[1].ConversionRate)
	assert.Equal(t, 0.0, vendors[2].ConversionRate)

	// Somatórios batem com o resumo global
	summary := Summarize(records)
	total, closed := 0, 0
	for _, vendor := range vendors {
		total += vendor.Total
		closed += vendor.Closed
	}
	assert.Equal(t, len(records), total)
	assert.Equal(t, summary.ClosedSales, closed)
}

func TestByVendor_NoTrim(t *testing.T) {
	vendors := ByVendor([]*domain.CallRecord{
		call("Vendor", true, time.Time{}),
		call("Vendor ", true, time.Time{}),
	})
	assert.Len(t, vendors, 2)
}

func TestByVendor_Empty(t *testing.T) {
	assert.Empty(t, ByVendor(nil))
}

func TestByMonth(t *testing.T) {
	records := sampleRecords()
	monthly := ByMonth(records)

	require.Len(t, monthly.Months, 3)
	assert.Equal(t, "2024-01", monthly.Months[0].Key)
	assert.Equal(t, "Jan 2024", monthly.Months[0].Month)
	assert.Equal(t, "2024-03", monthly.Months[1].Key)
	assert.Equal(t, "2024-04", monthly.Months[2].Key)

	march := monthly.Months[1]
	assert.Equal(t, 2, march.Total)
	assert.Equal(t, map[string]int{"VendorA": 1, "VendorB": 1}, march.Vendors)

	// Vendedores sem venda fechada não aparecem
	assert.Equal(t, []string{"VendorA", "VendorB"}, monthly.Vendors)
	assert.Equal(t, "#ff7300", monthly.Colors["VendorA"])
	assert.Equal(t, "#387908", monthly.Colors["VendorB"])

	total := 0
	for _, month := range monthly.Months {
		total += month.Total
	}
	assert.Equal(t, Summarize(records).ClosedSales, total)
}

func TestByMonth_SkipsUndatedRecords(t *testing.T) {
	monthly := ByMonth([]*domain.CallRecord{call("", true, time.Time{})})

	assert.Empty(t, monthly.Months)
	assert.Empty(t, monthly.Vendors)
}

func TestAssignColors_WrapsAroundPalette(t *testing.T) {
	vendors := make([]string, 0)
	for i := 0; i < len(VendorColors)+2; i++ {
		vendors = append(vendors, strings.Repeat("v", i+1))
	}

	colors := AssignColors(vendors)
	assert.Equal(t, VendorColors[0], colors[vendors[len(VendorColors)]])
	assert.Equal(t, VendorColors[1], colors[vendors[len(VendorColors)+1]])
}

// Cenário: uma única linha no schema estendido
func TestSingleExtendedRecordScenario(t *testing.T) {
	records := []*domain.CallRecord{{
		ID: "call-1", Name: "Name", Email: "Email", Phone: "Phone",
		Date: day(2024, 3, 1), Vendor: "VendorA", SaleClosed: true, Transcript: "hi",
	}}

	vendors := ByVendor(records)
	require.Len(t, vendors, 1)
	assert.Equal(t, "VendorA", vendors[0].Vendor)
	assert.Equal(t, 1, vendors[0].Total)
	assert.Equal(t, 1, vendors[0].Closed)
	assert.Equal(t, 100.0, vendors[0].ConversionRate)

	monthly := ByMonth(records)
	require.Len(t, monthly.Months, 1)
	assert.Equal(t, "2024-03", monthly.Months[0].Key)
	assert.Equal(t, 1, monthly.Months[0].Total)
	assert.Equal(t, 1, monthly.Months[0].Vendors["VendorA"])
}

func vendorNames(vendors []*domain.VendorAggregate) []string {
	names := make([]string, 0, len(vendors))
	for _, vendor := range vendors {
		names = append(names, vendor.Vendor)
	}
	return names
}
