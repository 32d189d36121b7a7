package domain

import "time"

// CallRecord representa uma linha válida do CSV de chamadas
type CallRecord struct {
	ID          string    `json:"id"`
	Transcript  string    `json:"transcript"`
	SaleClosed  bool      `json:"sale_closed"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Date        time.Time `json:"date"`
	DisplayDate string    `json:"display_date"`
	Vendor      string    `json:"vendor"`
}

// HasDate indica se o registro veio de um schema com coluna de data
func (c *CallRecord) HasDate() bool {
	return !c.Date.IsZero()
}

// CallRow é a linha da tabela de detalhes exibida no dashboard
type CallRow struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Vendor     string `json:"vendor"`
	SaleClosed string `json:"sale_closed"`
	Transcript string `json:"transcript"`
}
