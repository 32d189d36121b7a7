// Package scheduler contém os serviços agendados que alimentam o dashboard
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/internal/config"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

var ErrInboxNotConfigured = errors.New("inbox directory not configured")

type InboxSweepConfig struct {
	Dir          string
	CronSchedule string
	SyncEnabled  bool
	Schema       string
}

// InboxSweepService carrega periodicamente o CSV mais recente da caixa de entrada
type InboxSweepService struct {
	scheduler           *gocron.Scheduler
	uploader            uploading.Uploader
	config              InboxSweepConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastLoadedFile      string
	lastLoadedModTime   time.Time
	lastError           string
}

func NewInboxSweepService(uploader uploading.Uploader, cfg *config.Config) *InboxSweepService {
	sweepConfig := InboxSweepConfig{
		Dir:          cfg.Inbox.Dir,
		CronSchedule: cfg.Inbox.SweepCron,    // Default: a cada 5 minutos
		SyncEnabled:  cfg.Inbox.SweepEnabled, // Default: desabilitado
		Schema:       cfg.Upload.DefaultSchema,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"inbox_dir":     sweepConfig.Dir,
	}).Info("Configuração do agendador da caixa de entrada carregada")

	return &InboxSweepService{
		scheduler: gocron.NewScheduler(time.Local),
		uploader:  uploader,
		config:    sweepConfig,
	}
}

func (s *InboxSweepService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Varredura da caixa de entrada desabilitada por configuração")
		return nil
	}

	if s.config.Dir == "" {
		return ErrInboxNotConfigured
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando varredura agendada da caixa de entrada")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Sweep(ctx); err != nil {
			logrus.WithError(err).Error("Erro na varredura da caixa de entrada")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura da caixa de entrada: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando varredura da caixa de entrada")
		s.scheduler.Stop()
	}()

	return nil
}

// Sweep carrega o CSV modificado mais recentemente, se ele for mais novo que o último carregado.
// Retorna true quando um arquivo foi carregado.
func (s *InboxSweepService) Sweep(ctx context.Context) (bool, error) {
	if s.config.Dir == "" {
		return false, ErrInboxNotConfigured
	}

	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Varredura da caixa de entrada já está em execução")
		return false, nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	lastModTime := s.lastLoadedModTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	path, modTime, err := newestCSV(s.config.Dir)
	if err != nil {
		s.recordError(err)
		return false, err
	}

	if path == "" || !modTime.After(lastModTime) {
		logrus.Debug("Nenhum CSV novo na caixa de entrada")
		return false, nil
	}

	if err := s.load(ctx, path, modTime); err != nil {
		return false, err
	}

	return true, nil
}

// LoadFile carrega um arquivo específico da caixa de entrada (usado pelo watcher)
func (s *InboxSweepService) LoadFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		s.recordError(err)
		return errors.Wrap(err, "stat inbox file")
	}

	return s.load(ctx, path, info.ModTime())
}

func (s *InboxSweepService) load(ctx context.Context, path string, modTime time.Time) error {
	logger := logrus.WithFields(logrus.Fields{
		"source": filepath.Base(path),
		"schema": s.config.Schema,
	})
	logger.Info("Carregando CSV da caixa de entrada")

	if _, err := s.uploader.UploadFile(ctx, path, s.config.Schema); err != nil {
		logger.WithError(err).Error("Erro ao carregar CSV da caixa de entrada")
		s.recordError(err)
		return err
	}

	s.syncMutex.Lock()
	s.lastLoadedFile = path
	if modTime.After(s.lastLoadedModTime) {
		s.lastLoadedModTime = modTime
	}
	s.lastError = ""
	s.syncMutex.Unlock()

	return nil
}

func (s *InboxSweepService) recordError(err error) {
	s.syncMutex.Lock()
	s.lastError = err.Error()
	s.syncMutex.Unlock()
}

// TriggerManualSync dispara a varredura manualmente
func (s *InboxSweepService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Varredura da caixa de entrada já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando varredura manual da caixa de entrada")
	go func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na varredura manual da caixa de entrada")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *InboxSweepService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"inbox_dir":              s.config.Dir,
		"schema":                 s.config.Schema,
		"last_loaded_file":       s.lastLoadedFile,
		"last_error":             s.lastError,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}

func newestCSV(dir string) (string, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "reading inbox")
	}

	var (
		newestPath    string
		newestModTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !utils.IsCSV(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if newestPath == "" || info.ModTime().After(newestModTime) {
			newestPath = filepath.Join(dir, entry.Name())
			newestModTime = info.ModTime()
		}
	}

	return newestPath, newestModTime, nil
}
