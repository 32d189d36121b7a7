// Package uploading mantém o dataset atual e controla os uploads de CSV
package uploading

//go:generate mockgen -source=service.go -destination=mocks/mock_uploader.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/call-dashboard/internal/usecases/parsing"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

// Uploader define as operações do dashboard sobre o dataset carregado
type Uploader interface {
	// Upload interpreta o CSV e substitui o dataset atual
	Upload(ctx context.Context, source string, r io.Reader, schemaName string) (*domain.Dashboard, error)

	// UploadFile carrega um CSV do disco (inbox)
	UploadFile(ctx context.Context, path string, schemaName string) (*domain.Dashboard, error)

	// Current retorna o dashboard do dataset atual ou nil
	Current() *domain.Dashboard

	// Reset descarta o dataset atual
	Reset()

	// Schemas lista os formatos de CSV aceitos
	Schemas() []domain.SchemaInfo
}

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Service implementa Uploader com um único slot de upload: um novo upload cancela o anterior
type Service struct {
	registry   *parsing.Registry
	memo       *aggregating.Memo
	now        func() time.Time
	mu         sync.Mutex
	generation uint64
	pending    *inflight
	dataset    *domain.Dataset
}

func NewService(registry *parsing.Registry, memo *aggregating.Memo) *Service {
	return &Service{
		registry: registry,
		memo:     memo,
		now:      time.Now,
	}
}

func (s *Service) Upload(ctx context.Context, source string, r io.Reader, schemaName string) (*domain.Dashboard, error) {
	schema, err := s.registry.Get(schemaName)
	if err != nil {
		return nil, NewUploadError(err, apiErrors.ErrInvalidRequest, source)
	}

	parseCtx, generation := s.begin(ctx)
	defer s.finish(generation)

	logger := logrus.WithFields(logrus.Fields{
		"source":     source,
		"schema":     schema.Name,
		"generation": generation,
	})
	logger.Info("uploading: iniciando processamento do CSV")

	result, err := parsing.ParseCSV(parseCtx, r, schema)
	if err != nil {
		if s.superseded(generation) {
			logger.Warn("uploading: upload substituído por um mais recente")
			return nil, NewUploadError(ErrSuperseded, apiErrors.ErrUploadSuperseded, source)
		}
		if errors.Is(err, parsing.ErrMalformedCSV) {
			logger.WithError(err).Error("uploading: erro ao interpretar CSV")
			return nil, NewUploadError(err, apiErrors.ErrInvalidFormat, source)
		}
		return nil, NewUploadError(err, apiErrors.ErrInternalServer, source)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewUploadError(err, apiErrors.ErrInternalServer, source)
	}

	dataset := &domain.Dataset{
		ID:         id,
		Source:     source,
		Schema:     schema.Name,
		Records:    result.Records,
		Rejections: result.Rejections,
		TotalRows:  result.TotalRows,
		LoadedAt:   s.now(),
	}

	if !s.commit(generation, dataset) {
		logger.Warn("uploading: upload substituído por um mais recente")
		return nil, NewUploadError(ErrSuperseded, apiErrors.ErrUploadSuperseded, source)
	}

	logger.WithFields(logrus.Fields{
		"dataset_id": dataset.ID,
		"records":    len(dataset.Records),
		"rejected":   len(dataset.Rejections),
	}).Info("uploading: dataset carregado com sucesso")

	return s.memo.Get(dataset), nil
}

func (s *Service) UploadFile(ctx context.Context, path string, schemaName string) (*domain.Dashboard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewUploadError(errors.Join(ErrReadFile, err), apiErrors.ErrInternalServer, path)
	}
	defer file.Close()

	return s.Upload(ctx, filepath.Base(path), file, schemaName)
}

func (s *Service) Current() *domain.Dashboard {
	s.mu.Lock()
	dataset := s.dataset
	s.mu.Unlock()

	return s.memo.Get(dataset)
}

func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.cancel()
		s.pending = nil
	}
	s.generation++
	s.dataset = nil
	s.memo.Reset()

	logrus.Info("uploading: dataset descartado")
}

func (s *Service) Schemas() []domain.SchemaInfo {
	schemas := s.registry.List()
	infos := make([]domain.SchemaInfo, 0, len(schemas))
	for _, schema := range schemas {
		infos = append(infos, schema.Info())
	}
	return infos
}

// begin abre uma nova geração e cancela o parse em andamento, se houver
func (s *Service) begin(ctx context.Context) (context.Context, uint64) {
	parseCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.cancel()
	}

	s.generation++
	s.pending = &inflight{generation: s.generation, cancel: cancel}
	return parseCtx, s.generation
}

func (s *Service) finish(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil && s.pending.generation == generation {
		s.pending.cancel()
		s.pending = nil
	}
}

// commit só publica o dataset se nenhuma geração mais nova começou
func (s *Service) commit(generation uint64, dataset *domain.Dataset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	s.dataset = dataset
	return true
}

func (s *Service) superseded(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generation != s.generation
}
