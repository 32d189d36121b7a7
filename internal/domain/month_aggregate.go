package domain

// MonthAggregate representa as vendas fechadas de um mês
type MonthAggregate struct {
	Key     string         `json:"key"`   // Formato yyyy-mm (ex: 2024-03)
	Month   string         `json:"month"` // Rótulo de exibição (ex: Mar 2024)
	Total   int            `json:"total"`
	Vendors map[string]int `json:"vendors"`
}

// MonthlySales agrupa os meses e a lista ordenada de vendedores com suas cores
type MonthlySales struct {
	Months  []*MonthAggregate `json:"months"`
	Vendors []string          `json:"vendors"`
	Colors  map[string]string `json:"colors"`
}
