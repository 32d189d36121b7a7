package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/call-dashboard/internal/usecases/parsing"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/log"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

type options struct {
	file       string
	schema     string
	schemaFile string
	chartsDir  string
	preview    int
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Gera o dashboard de vendas a partir de um CSV de chamadas",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "arquivo CSV de chamadas")
	flags.StringVarP(&opts.schema, "schema", "s", "extended", "schema do CSV")
	flags.StringVar(&opts.schemaFile, "schema-file", "", "arquivo YAML com schemas adicionais")
	flags.StringVar(&opts.chartsDir, "charts", "", "diretório onde salvar os gráficos PNG")
	flags.IntVar(&opts.preview, "preview", 100, "tamanho do preview da transcrição")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "nível de log")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	if err := log.Configure(opts.logLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", opts.logLevel)
	}
	logrus.SetOutput(cmd.ErrOrStderr())

	if !utils.IsCSV(opts.file) {
		return fmt.Errorf("arquivo %s não é um CSV", opts.file)
	}

	registry := parsing.NewRegistry(opts.schema)
	if opts.schemaFile != "" {
		if _, err := registry.LoadFile(opts.schemaFile); err != nil {
			return err
		}
	}

	service := uploading.NewService(registry, aggregating.NewMemo(opts.preview))
	dashboard, err := service.UploadFile(ctx, opts.file, opts.schema)
	if err != nil {
		return err
	}
	if dashboard == nil {
		return uploading.ErrNoDataset
	}

	if opts.chartsDir != "" {
		if err := writeCharts(opts.chartsDir, dashboard); err != nil {
			return err
		}
	}

	out, err := utils.PrettyJson(dashboard)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// writeCharts salva os gráficos do dashboard; sem registros nenhum arquivo é gerado
func writeCharts(dir string, dashboard *domain.Dashboard) error {
	if !dashboard.HasData() {
		logrus.Warn("report: dataset vazio, gráficos não gerados")
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	renderer := charts.NewRenderer(charts.DefaultWidth, charts.DefaultHeight)
	for _, name := range charts.Names() {
		if err := writeChart(renderer, filepath.Join(dir, name), name, dashboard); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(renderer *charts.Renderer, path, name string, dashboard *domain.Dashboard) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := renderer.Render(name, dashboard, file); err != nil {
		return fmt.Errorf("erro ao gerar %s: %w", name, err)
	}
	logrus.WithField("path", path).Info("report: gráfico salvo")
	return nil
}
