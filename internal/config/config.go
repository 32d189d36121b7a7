package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Upload    Upload    `mapstructure:",squash"`
	Inbox     Inbox     `mapstructure:",squash"`
	Dashboard Dashboard `mapstructure:",squash"`
	Cors      Cors      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Upload struct {
	MaxBytes      int64  `mapstructure:"upload_max_bytes"`
	DefaultSchema string `mapstructure:"upload_default_schema"`
	SchemaFile    string `mapstructure:"schema_file"`
}

type Inbox struct {
	Dir          string `mapstructure:"inbox_dir"`
	WatchEnabled bool   `mapstructure:"inbox_watch_enabled"`
	SweepCron    string `mapstructure:"inbox_sweep_cron"`
	SweepEnabled bool   `mapstructure:"inbox_sweep_enabled"`
}

type Dashboard struct {
	TranscriptPreview int `mapstructure:"dashboard_transcript_preview"`
	ChartWidth        int `mapstructure:"chart_width"`
	ChartHeight       int `mapstructure:"chart_height"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)          // 10 MiB por arquivo
	viper.SetDefault("UPLOAD_DEFAULT_SCHEMA", "extended") // Layout com Vendor e Date
	viper.SetDefault("SCHEMA_FILE", "")                   // Schemas extras em YAML (opcional)

	// Defaults para a caixa de entrada de arquivos
	viper.SetDefault("INBOX_DIR", "")
	viper.SetDefault("INBOX_WATCH_ENABLED", false)
	viper.SetDefault("INBOX_SWEEP_CRON", "*/5 * * * *") // A cada 5 minutos
	viper.SetDefault("INBOX_SWEEP_ENABLED", false)

	viper.SetDefault("DASHBOARD_TRANSCRIPT_PREVIEW", 100)
	viper.SetDefault("CHART_WIDTH", 800)
	viper.SetDefault("CHART_HEIGHT", 400)

	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Dashboard.TranscriptPreview <= 0 {
		config.Dashboard.TranscriptPreview = 100
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
