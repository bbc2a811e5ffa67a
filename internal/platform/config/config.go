package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EvaluationQueueName string

	JudgeURL       string
	JudgeAuthToken string

	// Limits sent with every judge submission.
	JudgeCPUTimeLimitSec int
	JudgeMemoryLimitKb   int

	// Polling budget for one test-case execution.
	JudgePollInterval time.Duration
	JudgePollAttempts int

	// Bounded fan-out across test cases of one submission, and the single
	// deadline governing the whole evaluation.
	EvalWorkers int
	EvalTimeout time.Duration

	// language slug -> execution engine language id
	LanguageIDs map[string]int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:    getEnv("API_PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "codearena_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		EvaluationQueueName: getEnv("EVALUATION_QUEUE_NAME", "evaluation_jobs_queue"),

		JudgeURL:       getEnv("JUDGE_URL", "http://localhost:2358"),
		JudgeAuthToken: getEnv("JUDGE_AUTH_TOKEN", ""),

		JudgeCPUTimeLimitSec: getEnvAsInt("JUDGE_CPU_TIME_LIMIT_SEC", 5),
		JudgeMemoryLimitKb:   getEnvAsInt("JUDGE_MEMORY_LIMIT_KB", 128000),

		JudgePollInterval: time.Duration(getEnvAsInt("JUDGE_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		JudgePollAttempts: getEnvAsInt("JUDGE_POLL_ATTEMPTS", 10),

		EvalWorkers: getEnvAsInt("EVAL_WORKERS", 4),
		EvalTimeout: time.Duration(getEnvAsInt("EVAL_TIMEOUT_SEC", 120)) * time.Second,

		LanguageIDs: getEnvAsLanguageMap("JUDGE_LANGUAGE_IDS", map[string]int{
			"cpp":        54,
			"javascript": 63,
			"rust":       73,
			"java":       62,
		}),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsLanguageMap parses "cpp:54,javascript:63" style values. New
// languages are additive through configuration, no code change needed.
func getEnvAsLanguageMap(key string, fallback map[string]int) map[string]int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parsed := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		parsed[parts[0]] = id
	}
	if len(parsed) == 0 {
		return fallback
	}
	return parsed
}
