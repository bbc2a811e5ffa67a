package queue

import (
	"context"

	"codearena/internal/platform/config"
	"codearena/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	if _, err := RDB.Ping(context.Background()).Result(); err != nil {
		logger.L().Fatal("connecting to Redis", zap.Error(err))
	}
	logger.L().Info("connected to Redis")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		logger.L().Info("Redis connection closed")
	}
}
