package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wearevirtua/catalog/config"
	"github.com/wearevirtua/catalog/internal/adminapi"
	"github.com/wearevirtua/catalog/internal/app"
	"github.com/wearevirtua/catalog/internal/catalog"
	"github.com/wearevirtua/catalog/internal/webadmin"
	"github.com/wearevirtua/catalog/internal/webserver"
)

var (
	cfile  = flag.String("c", "catalog.yml", "config file")
	initdb = flag.Bool("initdb", false, "drop and recreate the schema, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		zap.S().Fatalf("application init failed: %v", err)
	}
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	db := application.DB()
	signer := catalog.NewTokenSigner(cfg.Web.Secret)
	productRepo := catalog.NewGormProductRepository(db)
	categoryRepo := catalog.NewGormCategoryRepository(db)
	imageRepo := catalog.NewGormImageRepository(db)

	productSvc := catalog.NewProductService(productRepo, categoryRepo, imageRepo, application.ImageStore(), signer)
	categorySvc := catalog.NewCategoryService(categoryRepo, productRepo, imageRepo, application.ImageStore(), signer)
	imageSvc := catalog.NewImageService(imageRepo, application.ImageStore(), signer)

	server := webserver.NewWebServer(cfg)
	adminapi.NewProductAPI(productSvc).Register(server.Echo())
	webadmin.NewProductHandler(productSvc).Register(server.Echo())
	webadmin.NewCategoryHandler(categorySvc).Register(server.Echo())
	webadmin.NewImageHandler(imageSvc).Register(server.Echo())

	go func() {
		if err := server.Start(); err != nil {
			zap.L().Warn("web server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("web server shutdown failed", zap.Error(err))
	}
}
