package main

import (
	"net/http"

	"github.com/sergio11/art-collectibles-marketplace/internal/audit"
	"github.com/sergio11/art-collectibles-marketplace/internal/config"
	"github.com/sergio11/art-collectibles-marketplace/internal/config/di"
	"github.com/sergio11/art-collectibles-marketplace/internal/event"
	"github.com/sergio11/art-collectibles-marketplace/internal/messenger"
	"github.com/sergio11/art-collectibles-marketplace/internal/server"
	"go.uber.org/zap"
)

func main() {
	config.Init("marketd")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	if config.Get().ElasticSearch.Audit {
		container.Get("audit").(audit.Index).InstallMappings()
	}

	relay := container.Get("relay").(messenger.Relay)
	event.AddEventListener(event.ListedEvent, relay.PublishListed)
	event.AddEventListener(event.WithdrawnEvent, relay.PublishWithdrawn)
	event.AddEventListener(event.SoldEvent, relay.PublishSold)

	srv := container.Get("server").(server.Server)

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Marketplace started")

	if err := http.ListenAndServe(":"+config.Get().ApiPort, srv.Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start marketplace api")
	}
}
