package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Log          LogConfig
	Worker       WorkerConfig
	Region       RegionConfig
	Boundary     BoundaryConfig
	Verification VerificationConfig
	Satellite    SatelliteConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeoJSONCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	RetryBackoffBase  time.Duration
	BatchSize         int
}

// RegionConfig bounds the operating region. Coordinates outside the box are
// accepted but flagged, since farms near the border legitimately sit close to
// its edges.
type RegionConfig struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

type BoundaryConfig struct {
	SmoothingToleranceMeters float64
	MinQualityScore          int
	OverlapSearchRadiusKm    float64
}

type VerificationConfig struct {
	SizeTolerance float64
}

type SatelliteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeoJSONCacheTTL: time.Duration(viper.GetInt("GEOJSON_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
			RetryBackoffBase:  time.Duration(viper.GetInt("WORKER_RETRY_BACKOFF_BASE")) * time.Second,
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
		},
		Region: RegionConfig{
			MinLat: viper.GetFloat64("REGION_MIN_LAT"),
			MaxLat: viper.GetFloat64("REGION_MAX_LAT"),
			MinLon: viper.GetFloat64("REGION_MIN_LON"),
			MaxLon: viper.GetFloat64("REGION_MAX_LON"),
		},
		Boundary: BoundaryConfig{
			SmoothingToleranceMeters: viper.GetFloat64("BOUNDARY_SMOOTHING_TOLERANCE"),
			MinQualityScore:          viper.GetInt("BOUNDARY_MIN_QUALITY_SCORE"),
			OverlapSearchRadiusKm:    viper.GetFloat64("BOUNDARY_OVERLAP_RADIUS_KM"),
		},
		Verification: VerificationConfig{
			SizeTolerance: viper.GetFloat64("VERIFICATION_SIZE_TOLERANCE"),
		},
		Satellite: SatelliteConfig{
			BaseURL: viper.GetString("SATELLITE_API_URL"),
			APIKey:  viper.GetString("SATELLITE_API_KEY"),
			Timeout: time.Duration(viper.GetInt("SATELLITE_API_TIMEOUT")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "verification-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoffBase == 0 {
		cfg.Worker.RetryBackoffBase = 60 * time.Second
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 10
	}
	if cfg.Region.MinLat == 0 && cfg.Region.MaxLat == 0 {
		// Kenya bounding box.
		cfg.Region.MinLat = -4.678
		cfg.Region.MaxLat = 5.506
		cfg.Region.MinLon = 33.893
		cfg.Region.MaxLon = 41.899
	}
	if cfg.Boundary.SmoothingToleranceMeters == 0 {
		cfg.Boundary.SmoothingToleranceMeters = 5.0
	}
	if cfg.Boundary.MinQualityScore == 0 {
		cfg.Boundary.MinQualityScore = 60
	}
	if cfg.Boundary.OverlapSearchRadiusKm == 0 {
		cfg.Boundary.OverlapSearchRadiusKm = 5.0
	}
	if cfg.Verification.SizeTolerance == 0 {
		cfg.Verification.SizeTolerance = 0.3
	}
	if cfg.Satellite.Timeout == 0 {
		cfg.Satellite.Timeout = 30 * time.Second
	}
	if cfg.Cache.GeoJSONCacheTTL == 0 {
		cfg.Cache.GeoJSONCacheTTL = time.Hour
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// RegionBounds returns the configured plausibility box as domain bounds.
func (c *Config) RegionBounds() (minLat, maxLat, minLon, maxLon float64) {
	return c.Region.MinLat, c.Region.MaxLat, c.Region.MinLon, c.Region.MaxLon
}
