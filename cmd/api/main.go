package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/fornecelist/backend/internal/config"
	"github.com/fornecelist/backend/internal/logging"
	"github.com/fornecelist/backend/internal/media"
	"github.com/fornecelist/backend/internal/repository/minio"
	"github.com/fornecelist/backend/internal/repository/postgres"
	"github.com/fornecelist/backend/internal/service"
	transport "github.com/fornecelist/backend/internal/transport/http"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash writer disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	minioClient, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect to minio: %v", err)
	}
	storage := minio.NewStore(minioClient, cfg.MinIOEndpoint, cfg.MinIOUseSSL, cfg.MinIOPublicURL)

	supplierRepo := postgres.NewSupplierRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	importRepo := postgres.NewSupplierImportRepo(db)
	articleRepo := postgres.NewArticleRepo(db)
	trialRepo := postgres.NewTrialRepo(db)
	ruleRepo := postgres.NewFeatureRuleRepo(db)
	userRepo := postgres.NewUserRepo(db)

	sessionTTL, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		log.Printf("invalid SESSION_TTL %q, falling back to 24h", cfg.SessionTTL)
		sessionTTL = 24 * time.Hour
	}

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.GoogleAudience, sessionTTL)
	gateService := service.NewAccessGateService(trialRepo, ruleRepo, userRepo, articleRepo)
	supplierService := service.NewSupplierService(supplierRepo, gateService)
	articleService := service.NewArticleService(articleRepo, gateService)

	processor := media.NewFFMPEGProcessor(cfg.FFmpegPath, cfg.SupplierImageMaxDim)
	correlator := service.NewImageCorrelator(storage, processor, cfg.MinIOBucketSuppliers, cfg.ImportUploadWorkers, cfg.SupplierImageMaxDim)
	importService := service.NewSupplierImportService(importRepo, supplierRepo, categoryRepo, correlator, service.SupplierImportServiceConfig{
		MaxRows:      cfg.ImportMaxRows,
		MaxFileBytes: cfg.ImportMaxFileBytes,
		MaxZipBytes:  cfg.ImportMaxZipBytes,
	})

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService)
	transport.RegisterAccess(e, authService, gateService)
	transport.RegisterSuppliers(e, authService, supplierService, cfg.EnableSupplierView)
	transport.RegisterArticles(e, authService, articleService, cfg.EnableArticles)
	transport.RegisterSupplierImports(e, authService, importService, cfg.EnableImport, cfg.ImportMaxFileBytes, cfg.ImportMaxZipBytes)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
