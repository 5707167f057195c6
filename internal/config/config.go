package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Projection StoreConfig
	Feed       FeedConfig
	Mapillary  MapillaryConfig
	Map        MapConfig
	Session    SessionConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Events     EventsConfig
	Snapshot   SnapshotConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

// StoreConfig - хранилище заявок: csv, sqlite или postgres
type StoreConfig struct {
	Driver  string
	CSVPath string
	DSN     string
}

type FeedConfig struct {
	CSVPath        string
	ReloadInterval time.Duration
}

type MapillaryConfig struct {
	BaseURL        string
	AccessToken    string
	BBox           string
	Limit          int
	RequestTimeout time.Duration
	CacheTTL       time.Duration
}

type MapConfig struct {
	CenterLat            float64
	CenterLon            float64
	Zoom                 int
	CityBounds           string
	SatelliteURL         string
	SatelliteAttribution string
	ImageryLayers        []ImageryLayer
}

// ImageryLayer - дополнительный слой спутниковых снимков (шаблон URL тайлов)
type ImageryLayer struct {
	Name string
	URL  string
}

type SessionConfig struct {
	Driver     string
	TTL        time.Duration
	CookieName string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig - бэкенд мемоизации внешних вызовов: memory или redis
type CacheConfig struct {
	Driver string
}

type EventsConfig struct {
	Enabled       bool
	Stream        string
	ConsumerGroup string
	MaxRetries    int
}

type SnapshotConfig struct {
	Enabled  bool
	Interval time.Duration
	Bucket   string
	Region   string
	Prefix   string
}

type LogConfig struct {
	Level string
}

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("STORE_DRIVER", DriverCSV)
	v.SetDefault("STORE_CSV_PATH", "data/User_Requests.csv")
	v.SetDefault("STORE_DSN", "data/streetsmart.db")

	v.SetDefault("PROJECTION_DRIVER", DriverSQLite)
	v.SetDefault("PROJECTION_DSN", "data/projection.db")

	v.SetDefault("FEED_CSV_PATH", "data/Pothole Data.csv")
	v.SetDefault("FEED_RELOAD_INTERVAL", 300)

	v.SetDefault("MAPILLARY_BASE_URL", "https://graph.mapillary.com")
	v.SetDefault("MAPILLARY_BBOX", "-84.64,39.045,-84.45,39.17")
	v.SetDefault("MAPILLARY_LIMIT", 400)
	v.SetDefault("MAPILLARY_REQUEST_TIMEOUT", 15)
	v.SetDefault("MAPILLARY_CACHE_TTL", 600)

	v.SetDefault("MAP_CENTER_LAT", 39.1031182)
	v.SetDefault("MAP_CENTER_LON", -84.5120196)
	v.SetDefault("MAP_ZOOM", 12)
	v.SetDefault("MAP_CITY_BOUNDS", "-84.82,38.95,-84.25,39.35")
	v.SetDefault("MAP_SATELLITE_URL", "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}")
	v.SetDefault("MAP_SATELLITE_ATTRIBUTION", "Esri World Imagery")

	v.SetDefault("SESSION_DRIVER", DriverMemory)
	v.SetDefault("SESSION_TTL", 86400)
	v.SetDefault("SESSION_COOKIE_NAME", "streetsmart_session")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("CACHE_DRIVER", DriverMemory)

	v.SetDefault("EVENTS_STREAM", "stream:repair:events")
	v.SetDefault("EVENTS_CONSUMER_GROUP", "repair-projection-workers")
	v.SetDefault("EVENTS_MAX_RETRIES", 3)

	v.SetDefault("SNAPSHOT_INTERVAL", 3600)
	v.SetDefault("SNAPSHOT_REGION", "us-east-2")
	v.SetDefault("SNAPSHOT_PREFIX", "snapshots")

	v.SetDefault("LOG_LEVEL", "info")
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает указанный dotenv файл; отсутствие файла не ошибка
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(v.GetString("STORE_DRIVER")),
			CSVPath: v.GetString("STORE_CSV_PATH"),
			DSN:     v.GetString("STORE_DSN"),
		},
		Projection: StoreConfig{
			Driver: strings.ToLower(v.GetString("PROJECTION_DRIVER")),
			DSN:    v.GetString("PROJECTION_DSN"),
		},
		Feed: FeedConfig{
			CSVPath:        v.GetString("FEED_CSV_PATH"),
			ReloadInterval: time.Duration(v.GetInt("FEED_RELOAD_INTERVAL")) * time.Second,
		},
		Mapillary: MapillaryConfig{
			BaseURL:        strings.TrimRight(v.GetString("MAPILLARY_BASE_URL"), "/"),
			AccessToken:    v.GetString("MAPILLARY_ACCESS_TOKEN"),
			BBox:           v.GetString("MAPILLARY_BBOX"),
			Limit:          v.GetInt("MAPILLARY_LIMIT"),
			RequestTimeout: time.Duration(v.GetInt("MAPILLARY_REQUEST_TIMEOUT")) * time.Second,
			CacheTTL:       time.Duration(v.GetInt("MAPILLARY_CACHE_TTL")) * time.Second,
		},
		Map: MapConfig{
			CenterLat:            v.GetFloat64("MAP_CENTER_LAT"),
			CenterLon:            v.GetFloat64("MAP_CENTER_LON"),
			Zoom:                 v.GetInt("MAP_ZOOM"),
			CityBounds:           v.GetString("MAP_CITY_BOUNDS"),
			SatelliteURL:         v.GetString("MAP_SATELLITE_URL"),
			SatelliteAttribution: v.GetString("MAP_SATELLITE_ATTRIBUTION"),
			ImageryLayers:        parseImageryLayers(v.GetString("MAP_IMAGERY_LAYERS")),
		},
		Session: SessionConfig{
			Driver:     strings.ToLower(v.GetString("SESSION_DRIVER")),
			TTL:        time.Duration(v.GetInt("SESSION_TTL")) * time.Second,
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(v.GetString("CACHE_DRIVER")),
		},
		Events: EventsConfig{
			Enabled:       v.GetBool("EVENTS_ENABLED"),
			Stream:        v.GetString("EVENTS_STREAM"),
			ConsumerGroup: v.GetString("EVENTS_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("EVENTS_MAX_RETRIES"),
		},
		Snapshot: SnapshotConfig{
			Enabled:  v.GetBool("SNAPSHOT_ENABLED"),
			Interval: time.Duration(v.GetInt("SNAPSHOT_INTERVAL")) * time.Second,
			Bucket:   v.GetString("SNAPSHOT_BUCKET"),
			Region:   v.GetString("SNAPSHOT_REGION"),
			Prefix:   strings.Trim(v.GetString("SNAPSHOT_PREFIX"), "/"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Session.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unsupported SESSION_DRIVER %q", c.Session.Driver)
	}
	switch c.Cache.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.Snapshot.Enabled && c.Snapshot.Bucket == "" {
		return fmt.Errorf("SNAPSHOT_BUCKET is required when SNAPSHOT_ENABLED=true")
	}
	return nil
}

// parseImageryLayers разбирает "Name=URL;Name2=URL2"
func parseImageryLayers(s string) []ImageryLayer {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	result := make([]ImageryLayer, 0, len(parts))
	for _, p := range parts {
		name, url, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
			continue
		}
		result = append(result, ImageryLayer{
			Name: strings.TrimSpace(name),
			URL:  strings.TrimSpace(url),
		})
	}
	return result
}

// NeedsRedis - какие-то компоненты используют Redis
func (c *Config) NeedsRedis() bool {
	return c.Cache.Driver == DriverRedis || c.Session.Driver == DriverRedis || c.Events.Enabled
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
