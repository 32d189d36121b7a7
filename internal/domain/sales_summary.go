package domain

// SalesSummary representa o resumo global de vendas fechadas e abertas
type SalesSummary struct {
	TotalCalls     int     `json:"total_calls"`
	ClosedSales    int     `json:"closed_sales"`
	OpenSales      int     `json:"open_sales"`
	ConversionRate float64 `json:"conversion_rate"`
}

func (s SalesSummary) IsEmpty() bool {
	return s.TotalCalls == 0
}
