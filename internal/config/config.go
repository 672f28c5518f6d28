package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Validation ValidationConfig `mapstructure:"validation"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Export     ExportConfig     `mapstructure:"export"`
	Import     ImportConfig     `mapstructure:"import"`
	Backup     BackupConfig     `mapstructure:"backup"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig selects the key-value backend holding the training blob.
// Driver is one of "memory", "file", "mongo" or "s3".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Key    string `mapstructure:"key"`
	Dir    string `mapstructure:"dir"` // file driver only
}

type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether enough of the S3 section is filled in to build a client.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.Region != ""
}

// AuthConfig locks the API behind a single password. Leaving PasswordHash
// empty disables authentication entirely.
type AuthConfig struct {
	PasswordHash    string        `mapstructure:"password_hash"` // bcrypt hash
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenExpiration time.Duration `mapstructure:"token_expiration"`
}

func (c AuthConfig) Enabled() bool {
	return c.PasswordHash != ""
}

type ValidationConfig struct {
	MaxExercises int     `mapstructure:"max_exercises"`
	MaxSets      int     `mapstructure:"max_sets"`
	MaxReps      int     `mapstructure:"max_reps"`
	MaxWeight    float64 `mapstructure:"max_weight"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type ExportConfig struct {
	DateLayout string        `mapstructure:"date_layout"`
	SheetName  string        `mapstructure:"sheet_name"`
	URLExpiry  time.Duration `mapstructure:"url_expiry"`
}

type ImportConfig struct {
	InboxDir string        `mapstructure:"inbox_dir"` // empty disables the watcher
	Debounce time.Duration `mapstructure:"debounce"`
}

type BackupConfig struct {
	Schedule string `mapstructure:"schedule"` // cron spec, empty disables backups
	Keep     int    `mapstructure:"keep"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, auth.jwt_secret -> AUTH_JWT_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file is fine, defaults and env vars are enough.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.key", "gym-app-trainings")
	v.SetDefault("storage.dir", "data")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "training_tracker")
	v.SetDefault("database.collection", "kv")

	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.prefix", "training-tracker/")

	// Viper needs every key registered for AutomaticEnv to reach Unmarshal.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiration", "24h")

	v.SetDefault("validation.max_exercises", 20)
	v.SetDefault("validation.max_sets", 10)
	v.SetDefault("validation.max_reps", 1000)
	v.SetDefault("validation.max_weight", 1000)

	v.SetDefault("pagination.default_page_size", 10)
	v.SetDefault("pagination.max_page_size", 50)

	v.SetDefault("export.date_layout", "02/01/2006")
	v.SetDefault("export.sheet_name", "Treinos")
	v.SetDefault("export.url_expiry", "15m")

	v.SetDefault("import.inbox_dir", "")
	v.SetDefault("import.debounce", "2s")

	v.SetDefault("backup.schedule", "")
	v.SetDefault("backup.keep", 7)
}
