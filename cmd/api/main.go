package main

import (
	"context"
	"flag"
	"log"
	"time"

	"Team_Orga/internal/config"
	"Team_Orga/internal/model"
	"Team_Orga/internal/pkg"
	"Team_Orga/internal/repository/mysql"
	"Team_Orga/internal/repository/redis"
	"Team_Orga/internal/router"
	"Team_Orga/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	pkg.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.Team{},
		&model.User{},
		&model.UserRole{},
		&model.Game{},
		&model.Offer{},
		&model.DutySlot{},
		&model.Occupant{},
		&model.RosterOutbox{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// outbox 投递：配了 kafka 走 kafka，否则只打日志；值日指派再套一层邮件通知
	var send service.Sender
	if len(cfg.Kafka.Brokers) > 0 {
		writer := pkg.NewRosterEventWriter(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer writer.Close()
		send = service.KafkaSender(writer)
	} else {
		log.Println("kafka not configured, roster events go to log only")
		send = service.LogSender()
	}
	if cfg.SMTP.Host != "" {
		send = service.NotifySender(send, pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	go service.NewOutboxRelayer(send, 3*time.Second, 100).Run(ctx)

	// 值日计数定时对账
	rec := service.NewDutyCountReconciler(10*time.Minute, 200)
	go rec.Run(ctx)

	// Gin
	r := router.InitRouter(cfg, rec)
	if err := r.Run(cfg.Addr); err != nil {
		return
	}
}
