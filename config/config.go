// server/config/config.go
package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	SeedDemo bool   `mapstructure:"seedDemo"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type GoogleConfig struct {
	ClientID string `mapstructure:"clientID"`
}

// BinConfig controls how long soft-deleted records stay restorable before the
// storage engine purges them. A zero TTL means the record is kept forever.
type BinConfig struct {
	FieldTTL    time.Duration `mapstructure:"fieldTTL"`
	ActivityTTL time.Duration `mapstructure:"activityTTL"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Google GoogleConfig `mapstructure:"google"`
	Bin    BinConfig    `mapstructure:"bin"`
	S3     S3Config     `mapstructure:"s3"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

// LoadConfig reads configuration from the YAML file and overrides it with
// environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.seedDemo", "SEED_DEMO")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("google.clientID", "GOOGLE_CLIENT_ID")
	viper.BindEnv("bin.fieldTTL", "BIN_FIELD_TTL")
	viper.BindEnv("bin.activityTTL", "BIN_ACTIVITY_TTL")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	// The field bin window mirrors the 30-day recycle bin shown in the
	// dashboard UI. Activities are kept forever unless a TTL is configured.
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("mongo.dbName", "agrifield")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("bin.fieldTTL", "720h")
	viper.SetDefault("bin.activityTTL", "0")

	// If the file does not exist Viper falls back to env vars only.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
