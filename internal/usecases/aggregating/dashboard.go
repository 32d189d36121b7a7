package aggregating

import (
	"sync"

	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

const DefaultTranscriptPreview = 100

// Build calcula todo o estado derivado de um dataset
func Build(dataset *domain.Dataset, transcriptPreview int) *domain.Dashboard {
	records := dataset.Records

	calls := make([]*domain.CallRow, 0, len(records))
	for _, record := range records {
		closed := "No"
		if record.SaleClosed {
			closed = "Yes"
		}

		calls = append(calls, &domain.CallRow{
			ID:         record.ID,
			Date:       record.DisplayDate,
			Name:       record.Name,
			Phone:      record.Phone,
			Email:      record.Email,
			Vendor:     record.Vendor,
			SaleClosed: closed,
			Transcript: utils.Truncate(record.Transcript, transcriptPreview),
		})
	}

	return &domain.Dashboard{
		Dataset:    dataset.Info(),
		Summary:    Summarize(records),
		Vendors:    ByVendor(records),
		Monthly:    ByMonth(records),
		Calls:      calls,
		Rejections: dataset.Rejections,
	}
}

// Memo guarda o dashboard do último dataset, recalculando apenas quando o dataset muda
type Memo struct {
	mu                sync.Mutex
	datasetID         string
	dashboard         *domain.Dashboard
	transcriptPreview int
}

func NewMemo(transcriptPreview int) *Memo {
	if transcriptPreview <= 0 {
		transcriptPreview = DefaultTranscriptPreview
	}
	return &Memo{transcriptPreview: transcriptPreview}
}

// Get retorna o dashboard do dataset, calculado uma vez por identidade do dataset
func (m *Memo) Get(dataset *domain.Dataset) *domain.Dashboard {
	if dataset == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dashboard != nil && m.datasetID == dataset.ID {
		return m.dashboard
	}

	m.dashboard = Build(dataset, m.transcriptPreview)
	m.datasetID = dataset.ID
	return m.dashboard
}

func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboard = nil
	m.datasetID = ""
}
