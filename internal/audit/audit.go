package audit

import (
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/sergio11/art-collectibles-marketplace/internal/config"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

// Index mirrors terminal listing records to Elasticsearch for audit queries.
// The in-memory archive stays the source of truth; this index is write-only
// from the marketplace's point of view and failures here never abort a
// ledger operation.
type Index interface {
	InstallMappings()
	IndexListing(listing entity.Listing)
}

type index struct {
	client *elastic.Client
}

func New() (Index, error) {
	client, err := newClient()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Audit: Failed to create client")
	}

	return index{client}, err
}

func newClient() (*elastic.Client, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(strings.Join(config.Get().ElasticSearch.Hosts, ",")),
		elastic.SetSniff(config.Get().ElasticSearch.Sniff),
		elastic.SetHealthcheck(config.Get().ElasticSearch.HealthCheck),
	}

	if config.Get().ElasticSearch.Debug {
		opts = append(opts, elastic.SetTraceLog(ElasticLogger{}))
	}

	if config.Get().ElasticSearch.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(
			config.Get().ElasticSearch.Username,
			config.Get().ElasticSearch.Password,
		))
	}

	return elastic.NewClient(opts...)
}

func (i index) InstallMappings() {
	zap.L().Info("Audit: Install Mappings")

	files, err := ioutil.ReadDir(config.Get().ElasticSearch.MappingDir)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Audit: Elastic mappings directory error")
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		b, err := ioutil.ReadFile(fmt.Sprintf("%s/%s", config.Get().ElasticSearch.MappingDir, f.Name()))
		if err != nil {
			zap.L().With(zap.Error(err)).With(zap.String("file", f.Name())).Fatal("Audit: Elastic mappings file error")
		}

		name := f.Name()[0 : len(f.Name())-len(filepath.Ext(f.Name()))]
		idx := Indices(name)
		if err = i.createIndex(idx.Get(), b); err != nil {
			zap.S().With(zap.Error(err)).Fatalf("Audit: Failed to create index %s", idx.Get())
		}
	}
}

func (i index) createIndex(index string, mapping []byte) error {
	ctx := context.Background()

	exists, err := i.client.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}

	if !exists {
		createIndex, err := i.client.CreateIndex(index).BodyString(string(mapping)).Do(ctx)
		if err != nil {
			return err
		}

		if createIndex.Acknowledged {
			zap.S().Infof("Audit: Created index %s", index)
		}
	}

	return nil
}

func (i index) IndexListing(listing entity.Listing) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := i.client.Index().
		Index(ListingIndex.Get()).
		Id(listing.Slug()).
		BodyJson(listing).
		Do(ctx)

	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("slug", listing.Slug()),
		).Error("Audit: Failed to index terminal listing")
		return
	}

	zap.L().With(zap.String("slug", listing.Slug())).Debug("Audit: Indexed terminal listing")
}
