package di

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"github.com/sergio11/art-collectibles-marketplace/internal/admin"
	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/audit"
	"github.com/sergio11/art-collectibles-marketplace/internal/config"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
	"github.com/sergio11/art-collectibles-marketplace/internal/messenger"
	"github.com/sergio11/art-collectibles-marketplace/internal/query"
	"github.com/sergio11/art-collectibles-marketplace/internal/registry"
	"github.com/sergio11/art-collectibles-marketplace/internal/server"
	"github.com/sergio11/art-collectibles-marketplace/internal/treasury"
)

var Definitions = []di.Def{
	{
		Name: "cache",
		Build: func(ctn di.Container) (interface{}, error) {
			return cache.New(5*time.Minute, 10*time.Minute), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn di.Container) (interface{}, error) {
			client, err := registry.NewClient(
				config.Get().Registry.Url,
				config.Get().Registry.Timeout,
				config.Get().Registry.Debug,
			)
			if err != nil {
				return nil, err
			}

			return registry.NewService(client, ctn.Get("cache").(*cache.Cache)), nil
		},
	},
	{
		Name: "bank",
		Build: func(ctn di.Container) (interface{}, error) {
			retryClient := retryablehttp.NewClient()
			retryClient.Logger = nil
			retryClient.RetryMax = 3

			return treasury.NewBankClient(config.Get().Bank.Url, retryClient)
		},
	},
	{
		Name: "treasury",
		Build: func(ctn di.Container) (interface{}, error) {
			return treasury.NewEngine(ctn.Get("bank").(treasury.FundTransferor)), nil
		},
	},
	{
		Name: "admin",
		Build: func(ctn di.Container) (interface{}, error) {
			return admin.New(
				entity.Identity(config.Get().MarketOwner),
				config.Get().Registry.Url,
				config.Get().ListingFee,
			), nil
		},
	},
	{
		Name: "audit",
		Build: func(ctn di.Container) (interface{}, error) {
			return audit.New()
		},
	},
	{
		Name: "archive",
		Build: func(ctn di.Container) (interface{}, error) {
			var auditIndex audit.Index
			if config.Get().ElasticSearch.Audit {
				auditIndex = ctn.Get("audit").(audit.Index)
			}

			return archive.New(auditIndex), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.New(
				ctn.Get("registry").(registry.Service),
				ctn.Get("treasury").(treasury.Engine),
				ctn.Get("admin").(*admin.Config),
				ctn.Get("archive").(*archive.Archive),
				entity.Identity(config.Get().MarketCustodian),
			), nil
		},
	},
	{
		Name: "query",
		Build: func(ctn di.Container) (interface{}, error) {
			return query.NewIndex(
				ctn.Get("ledger").(*ledger.Ledger),
				ctn.Get("archive").(*archive.Archive),
			), nil
		},
	},
	{
		Name: "server",
		Build: func(ctn di.Container) (interface{}, error) {
			return server.NewServer(
				ctn.Get("ledger").(*ledger.Ledger),
				ctn.Get("query").(query.Index),
			), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			sess, err := session.NewSession(&aws.Config{
				Region: aws.String(config.Get().Aws.Region),
				Credentials: credentials.NewStaticCredentials(
					config.Get().Aws.AccessKey,
					config.Get().Aws.SecretKey,
					"",
				),
			})
			if err != nil {
				return nil, err
			}

			return messenger.NewMessenger(sqs.New(sess)), nil
		},
	},
	{
		Name: "relay",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewRelay(ctn.Get("messenger").(messenger.MessageService)), nil
		},
	},
}

func NewContainer() (di.Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}
