package domain

// VendorAggregate representa a conversão de um vendedor
type VendorAggregate struct {
	Vendor         string  `json:"vendor"`
	Total          int     `json:"total"`
	Closed         int     `json:"closed"`
	ConversionRate float64 `json:"conversion_rate"`
	TotalLabel     string  `json:"total_label"`
}
