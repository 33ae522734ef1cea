package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/infra/config"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/infra/transport/http"
	"github.com/mkrupp/homegallery/internal/repo/files"
	"github.com/mkrupp/homegallery/internal/repo/user"
	"github.com/mkrupp/homegallery/internal/store"
	"github.com/mkrupp/homegallery/internal/svc/gallerysvc"
)

const (
	appName = "homegallery"
	svcName = "gallerysvc"
)

type Config struct {
	config.EnvConfig

	Log         logging.LoggerConfig           `envPrefix:"LOG_"`
	Store       store.Config                   `envPrefix:"STORE_"`
	Cache       cache.Config                   `envPrefix:"CACHE_"`
	Files       files.StoreConfig              `envPrefix:"FILES_"`
	Gallery     gallerysvc.GalleryConfig       `envPrefix:"GALLERY_"`
	Userpic     user.UserpicConfig             `envPrefix:"USERPIC_"`
	GalleryHTTP gallerysvc.HTTPTransportConfig `envPrefix:"GALLERY_HTTP_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.gallerysvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	db, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	gallerySvc, err := gallerysvc.NewStoreGalleryService(
		ctx,
		db,
		c,
		files.NewStoreFactory(cfg.Files),
		cfg.Gallery,
		cfg.Userpic,
	)
	if err != nil {
		return fmt.Errorf("new gallery service: %w", err)
	}

	httpTransport := gallerysvc.NewHTTPTransport(gallerySvc, cfg.GalleryHTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.GalleryHTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
