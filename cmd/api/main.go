package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/internal/api"
	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/config"
	"github.com/vfg2006/call-dashboard/internal/scheduler"
	"github.com/vfg2006/call-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/call-dashboard/internal/usecases/parsing"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/internal/watch"
	"github.com/vfg2006/call-dashboard/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define formato e nível de log com base na configuração
	if err := log.Configure(cfg.App.LogLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := newRegistry(cfg.Upload)

	memo := aggregating.NewMemo(cfg.Dashboard.TranscriptPreview)
	uploader := uploading.NewService(registry, memo)
	renderer := charts.NewRenderer(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight)

	// Caixa de entrada: varredura agendada e watcher compartilham o mesmo carregador
	inboxSweepService := scheduler.NewInboxSweepService(uploader, cfg)
	if err := inboxSweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador da caixa de entrada")
	} else {
		logrus.Info("Agendador da caixa de entrada iniciado com sucesso")
	}

	watcher := watch.New(cfg.Inbox.Dir, cfg.Inbox.WatchEnabled, inboxSweepService)
	if err := watcher.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o watcher da caixa de entrada")
	}

	server, err := api.New(cfg, uploader, renderer, inboxSweepService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// newRegistry monta os schemas embutidos e os declarados em SCHEMA_FILE
func newRegistry(cfg config.Upload) *parsing.Registry {
	registry := parsing.NewRegistry(cfg.DefaultSchema)

	if cfg.SchemaFile != "" {
		count, err := registry.LoadFile(cfg.SchemaFile)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao carregar arquivo de schemas")
		}
		logrus.WithField("schemas", count).Info("Schemas adicionais carregados")
	}

	if _, err := registry.Get(""); err != nil {
		logrus.WithError(err).Fatalf("Schema padrão inválido: %s", cfg.DefaultSchema)
	}

	return registry
}
