package domain

// Dashboard é o estado derivado de um dataset, calculado uma única vez por upload
type Dashboard struct {
	Dataset    DatasetInfo        `json:"dataset"`
	Summary    SalesSummary       `json:"summary"`
	Vendors    []*VendorAggregate `json:"vendors"`
	Monthly    *MonthlySales      `json:"monthly"`
	Calls      []*CallRow         `json:"calls"`
	Rejections []*RowRejection    `json:"rejections"`
}

// HasData indica se existem registros para exibir
func (d *Dashboard) HasData() bool {
	return d != nil && d.Summary.TotalCalls > 0
}
