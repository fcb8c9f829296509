package main

import (
	"context"

	"trailhub/internal/config"
	"trailhub/internal/model"
	"trailhub/internal/pkg"
	"trailhub/internal/repository/mysql"
	"trailhub/internal/repository/redis"
	"trailhub/internal/router"
	"trailhub/internal/service"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	pkg.InitAccessSecret(cfg.JWTSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		logger.Fatal("mysql init", zap.Error(err))
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Fatal("redis init", zap.Error(err))
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Membership{},
		&model.RoleGrant{},
		&model.Follow{},
		&model.Content{},
		&model.ContentLike{},
		&model.ContentSave{},
		&model.EventOutbox{},
	); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.EnableWorkers {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			logger.Fatal("kafka init", zap.Error(err))
		}
		defer producer.Close()

		sender := func(ctx context.Context, ob *model.EventOutbox) error {
			return producer.Send(ctx, pkg.MakeKeyFromID(ob.ID), []byte(ob.Payload))
		}
		go service.NewOutboxRelayer(mysql.DB, sender, logger).Run(ctx)
		go service.NewLedgerReconciler(mysql.DB, logger).Run(ctx)
	}

	r := router.InitRouter(mysql.DB)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server exit", zap.Error(err))
	}
}
