package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Unlimited es el sentinel para caps de riesgo sin límite.
const Unlimited = 1e15

// Config es la configuración completa del bot.
type Config struct {
	Targets TargetsConfig `yaml:"targets"`
	Trading TradingConfig `yaml:"trading"`
	Risk    RiskConfig    `yaml:"risk"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// TargetsConfig define qué wallets se copian y con qué cadencia.
type TargetsConfig struct {
	Wallets             []string `yaml:"wallets"`
	PollIntervalSeconds int      `yaml:"poll_interval_seconds"`
	MaxSignalAgeMinutes int      `yaml:"max_signal_age_minutes"` // señales más viejas se descartan
	ReconcileEveryN     int      `yaml:"reconcile_every_n"`      // ciclos entre pasadas de settlement/mark
}

// TradingConfig controla el modo de ejecución y el sizing.
type TradingConfig struct {
	Mode            string  `yaml:"mode"`        // simulate | paper | live
	SizingMode      string  `yaml:"sizing_mode"` // fixed_usd | fixed_shares | proportional
	FixedUSD        float64 `yaml:"fixed_usd"`
	FixedShares     float64 `yaml:"fixed_shares"`
	Multiplier      float64 `yaml:"multiplier"` // proportional: nuestra fracción del trade copiado
	MinOrderUSD     float64 `yaml:"min_order_usd"`
	MinShares       float64 `yaml:"min_shares"`
	Slippage        float64 `yaml:"slippage"` // 0.02 = 2% sobre el precio del target
	FeeRate         float64 `yaml:"fee_rate"`
	StartingBalance float64 `yaml:"starting_balance"` // capital virtual del paper ledger
}

// RiskConfig contiene los límites del risk gate. Cero = sin límite.
type RiskConfig struct {
	MaxUSDPerTrade     float64  `yaml:"max_usd_per_trade"`
	MaxUSDPerMarketDay float64  `yaml:"max_usd_per_market_day"`
	MaxUSDPerDay       float64  `yaml:"max_usd_per_day"`
	Allowlist          []string `yaml:"allowlist"` // slugs; vacío = todos permitidos
	Denylist           []string `yaml:"denylist"`
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
	DataBase  string `yaml:"data_base"`
	// ExecutionURL es el servicio que firma y envía órdenes reales (modo live).
	ExecutionURL string `yaml:"execution_url"`
}

// StorageConfig controla dónde se persiste el ledger.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// PollInterval devuelve el intervalo de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Targets.PollIntervalSeconds) * time.Second
}

// MaxSignalAge devuelve la edad máxima de una señal copiable.
func (c *Config) MaxSignalAge() time.Duration {
	return time.Duration(c.Targets.MaxSignalAgeMinutes) * time.Minute
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TARGET_WALLETS"); v != "" {
		cfg.Targets.Wallets = nil
		for _, w := range strings.Split(v, ",") {
			if w = strings.TrimSpace(w); w != "" {
				cfg.Targets.Wallets = append(cfg.Targets.Wallets, w)
			}
		}
	}
	if v := os.Getenv("EXECUTION_URL"); v != "" {
		cfg.API.ExecutionURL = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Targets.PollIntervalSeconds <= 0 {
		cfg.Targets.PollIntervalSeconds = 15
	}
	if cfg.Targets.MaxSignalAgeMinutes <= 0 {
		cfg.Targets.MaxSignalAgeMinutes = 5
	}
	if cfg.Targets.ReconcileEveryN <= 0 {
		cfg.Targets.ReconcileEveryN = 20
	}
	if cfg.Trading.Mode == "" {
		cfg.Trading.Mode = "paper"
	}
	if cfg.Trading.SizingMode == "" {
		cfg.Trading.SizingMode = "fixed_usd"
	}
	if cfg.Trading.FixedUSD <= 0 {
		cfg.Trading.FixedUSD = 10
	}
	if cfg.Trading.FixedShares <= 0 {
		cfg.Trading.FixedShares = 10
	}
	if cfg.Trading.Multiplier <= 0 {
		cfg.Trading.Multiplier = 0.05 // 1/20 del trade copiado
	}
	if cfg.Trading.MinOrderUSD <= 0 {
		cfg.Trading.MinOrderUSD = 1.0 // mínimo de orden de Polymarket
	}
	if cfg.Trading.Slippage <= 0 {
		cfg.Trading.Slippage = 0.02
	}
	if cfg.Trading.StartingBalance <= 0 {
		cfg.Trading.StartingBalance = 1000
	}
	if cfg.Risk.MaxUSDPerTrade <= 0 {
		cfg.Risk.MaxUSDPerTrade = Unlimited
	}
	if cfg.Risk.MaxUSDPerMarketDay <= 0 {
		cfg.Risk.MaxUSDPerMarketDay = Unlimited
	}
	if cfg.Risk.MaxUSDPerDay <= 0 {
		cfg.Risk.MaxUSDPerDay = Unlimited
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "copybot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Trading.Mode {
	case "simulate", "paper", "live":
	default:
		return fmt.Errorf("invalid trading mode %q", c.Trading.Mode)
	}
	switch c.Trading.SizingMode {
	case "fixed_usd", "fixed_shares", "proportional":
	default:
		return fmt.Errorf("invalid sizing mode %q", c.Trading.SizingMode)
	}
	if c.Trading.Mode == "live" && c.API.ExecutionURL == "" {
		return fmt.Errorf("live mode requires api.execution_url")
	}
	return nil
}
