package config

import "os"

type Config struct {
	Port              string
	Env               string
	StoreDriver       string
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	MongoURI          string
	UnsplashAccessKey string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		StoreDriver:       getEnv("STORE_DRIVER", "redis"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisHost:         getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		MongoURI:          getEnv("MONGO_URI", ""),
		UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
