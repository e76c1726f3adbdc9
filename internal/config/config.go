package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sergio11/art-collectibles-marketplace/internal/log"
	"go.uber.org/zap"
)

type Config struct {
	Env     string
	Debug   bool
	LogPath string

	ListingFee      uint64
	MarketOwner     string
	MarketCustodian string

	ApiPort     string
	QueuePrefix string

	Registry      RegistryConfig
	Bank          BankConfig
	Aws           AwsConfig
	ElasticSearch ElasticSearchConfig
}

type RegistryConfig struct {
	Url     string
	Timeout int
	Debug   bool
}

type BankConfig struct {
	Url     string
	Timeout int
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Region    string
}

type ElasticSearchConfig struct {
	Audit       bool
	Hosts       []string
	Sniff       bool
	HealthCheck bool
	Debug       bool
	Username    string
	Password    string
	MappingDir  string
}

func Init(service string) {
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env")
	}

	initLogger(service)
}

func initLogger(service string) {
	log.NewLogger(fmt.Sprintf("%s/%s.log", Get().LogPath, service), Get().Debug)
}

func Get() *Config {
	return &Config{
		Env:             getString("ENV", ""),
		Debug:           getBool("DEBUG", false),
		LogPath:         getString("LOG_PATH", "./var"),
		ListingFee:      getUint64("LISTING_FEE", 0),
		MarketOwner:     getString("MARKET_OWNER", ""),
		MarketCustodian: getString("MARKET_CUSTODIAN", "marketplace"),
		ApiPort:         getString("API_PORT", "8080"),
		QueuePrefix:     getString("QUEUE_PREFIX", "marketplace"),
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Region:    getString("AWS_REGION", ""),
		},
		Registry: RegistryConfig{
			Url:     getString("REGISTRY_URL", ""),
			Timeout: getInt("REGISTRY_TIMEOUT", 30),
			Debug:   getBool("REGISTRY_DEBUG", false),
		},
		Bank: BankConfig{
			Url:     getString("BANK_URL", ""),
			Timeout: getInt("BANK_TIMEOUT", 30),
		},
		ElasticSearch: ElasticSearchConfig{
			Audit:       getBool("ELASTIC_SEARCH_AUDIT", false),
			Hosts:       getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:       getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck: getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:       getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:    getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:    getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:  getString("ELASTIC_SEARCH_MAPPING_DIR", "./data/mappings"),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint) uint64 {
	return uint64(getInt(key, int(defaultValue)))
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
