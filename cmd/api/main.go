package main

import (
	"io"
	"log"
	"os"

	"github.com/rksharma7071/TrueStyle-API/internal/config"
	"github.com/rksharma7071/TrueStyle-API/internal/logging"
	"github.com/rksharma7071/TrueStyle-API/internal/media"
	miniorepo "github.com/rksharma7071/TrueStyle-API/internal/repository/minio"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/postgres"
	"github.com/rksharma7071/TrueStyle-API/internal/service"
	transport "github.com/rksharma7071/TrueStyle-API/internal/transport/http"
	"github.com/rksharma7071/TrueStyle-API/internal/transport/mail"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		client, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect minio: %v", err)
		}
		storage = miniorepo.NewStorage(client, cfg.MinIOPublicURL, cfg.MinIOUseSSL)
	}

	tokens := util.NewTokenManager(cfg.JWTSecret)
	mailer := mail.NewOTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	validator := media.NewValidator(cfg.ProductImageMaxBytes, media.DefaultMaxDimension)

	userRepo := postgres.NewUserRepo(db)
	productRepo := postgres.NewProductRepo(db)

	authService := service.NewAuthService(userRepo, mailer, tokens, cfg.GoogleAudience, cfg.OTPTTL, cfg.OTPResendCooldown)
	productService := service.NewProductService(productRepo, storage, validator, cfg.MinIOBucketProducts)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService)
	transport.RegisterUsers(e, authService)
	transport.RegisterProducts(e, authService, productService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
