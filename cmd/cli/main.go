package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sergio11/art-collectibles-marketplace/internal/admin"
	"github.com/sergio11/art-collectibles-marketplace/internal/config"
	"github.com/sergio11/art-collectibles-marketplace/internal/config/di"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
	"github.com/sergio11/art-collectibles-marketplace/internal/query"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	marketLedger *ledger.Ledger
	queryIndex   query.Index
	adminConfig  *admin.Config
)

func main() {
	config.Init("cli")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	marketLedger = container.Get("ledger").(*ledger.Ledger)
	queryIndex = container.Get("query").(query.Index)
	adminConfig = container.Get("admin").(*admin.Config)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "listings",
				Usage:  "Print the currently available listings",
				Action: printListings,
			},
			{
				Name:   "history",
				Usage:  "Print the terminal listing history",
				Action: printHistory,
			},
			{
				Name:   "stats",
				Usage:  "Print the marketplace counters",
				Action: printStats,
			},
			{
				Name:   "setFee",
				Usage:  "Update the listing fee (runs as the configured market owner)",
				Action: setFee,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "fee", Required: true, Usage: "listing fee in currency units"},
				},
			},
			{
				Name:   "setRegistry",
				Usage:  "Update the asset registry endpoint (runs as the configured market owner)",
				Action: setRegistry,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Required: true, Usage: "registry endpoint"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to execute command")
	}
}

func printListings(c *cli.Context) error {
	return printJson(queryIndex.Available())
}

func printHistory(c *cli.Context) error {
	return printJson(queryIndex.History())
}

func printStats(c *cli.Context) error {
	return printJson(marketLedger.Stats())
}

func setFee(c *cli.Context) error {
	return adminConfig.SetListingFee(entity.Identity(config.Get().MarketOwner), c.Uint64("fee"))
}

func setRegistry(c *cli.Context) error {
	return adminConfig.SetRegistryUrl(entity.Identity(config.Get().MarketOwner), c.String("url"))
}

func printJson(el interface{}) error {
	body, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(body))

	return nil
}
