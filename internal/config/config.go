package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                 App                 `mapstructure:",squash"`
	Server              Server              `mapstructure:",squash"`
	Database            Database            `mapstructure:",squash"`
	Cart                Cart                `mapstructure:",squash"`
	Storefront          Storefront          `mapstructure:",squash"`
	Dashboard           Dashboard           `mapstructure:",squash"`
	MonthlySnapshotSync MonthlySnapshotSync `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Cart define onde o carrinho é persistido ("memory" ou "postgres")
type Cart struct {
	Storage       string `mapstructure:"cart_storage"`
	KeyPrefix     string `mapstructure:"cart_key_prefix"`
	NotifyChannel string `mapstructure:"cart_notify_channel"`
}

// Storefront aponta para o backend REST da loja (pedidos, clientes, catálogo, pagamento)
type Storefront struct {
	URL            string        `mapstructure:"storefront_url"`
	Timeout        time.Duration `mapstructure:"storefront_timeout"`
	PaymentURLPath string        `mapstructure:"storefront_payment_url_path"`
}

type Dashboard struct {
	ChartMonths       int `mapstructure:"dashboard_chart_months"`
	RecentSalesLimit  int `mapstructure:"dashboard_recent_sales_limit"`
	DefaultRangeMonth int `mapstructure:"dashboard_default_range_months"`
}

type MonthlySnapshotSync struct {
	CronSchedule  string `mapstructure:"monthly_snapshot_sync_cron"`
	Enabled       bool   `mapstructure:"monthly_snapshot_sync_enabled"`
	MonthLookBack int    `mapstructure:"monthly_snapshot_sync_month_lookback"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/storefront?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("CART_STORAGE", "memory")
	viper.SetDefault("CART_KEY_PREFIX", "cart")
	viper.SetDefault("CART_NOTIFY_CHANNEL", "cart_storage_changed")

	viper.SetDefault("STOREFRONT_URL", "http://localhost:3000/api")
	viper.SetDefault("STOREFRONT_TIMEOUT", "30s")
	viper.SetDefault("STOREFRONT_PAYMENT_URL_PATH", "/vnpay/generate-payment-url")

	viper.SetDefault("DASHBOARD_CHART_MONTHS", 12)
	viper.SetDefault("DASHBOARD_RECENT_SALES_LIMIT", 5)
	viper.SetDefault("DASHBOARD_DEFAULT_RANGE_MONTHS", 1)

	// Defaults para o fechamento mensal de vendas
	viper.SetDefault("MONTHLY_SNAPSHOT_SYNC_CRON", "0 5 1 * *") // No primeiro dia de cada mês às 5h da manhã
	viper.SetDefault("MONTHLY_SNAPSHOT_SYNC_ENABLED", false)
	viper.SetDefault("MONTHLY_SNAPSHOT_SYNC_MONTH_LOOKBACK", 1)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

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

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func (c *Config) validate() error {
	if c.Cart.Storage != "memory" && c.Cart.Storage != "postgres" {
		return fmt.Errorf("config: CART_STORAGE inválido: %q (use memory ou postgres)", c.Cart.Storage)
	}

	if c.Dashboard.ChartMonths <= 0 {
		return fmt.Errorf("config: DASHBOARD_CHART_MONTHS deve ser positivo")
	}

	if c.Dashboard.RecentSalesLimit <= 0 {
		return fmt.Errorf("config: DASHBOARD_RECENT_SALES_LIMIT deve ser positivo")
	}

	return nil
}

// UsesPostgres indica se algum componente precisa de conexão com o banco
func (c *Config) UsesPostgres() bool {
	return c.Cart.Storage == "postgres" || c.MonthlySnapshotSync.Enabled
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
