package admin

import (
	"errors"
	"sync"

	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

var ErrNotAuthorized = errors.New("operation restricted to the marketplace owner")

// Config holds the privileged, rarely-changing marketplace settings. The
// setters are gated on a single owner identity.
type Config struct {
	mtx sync.RWMutex

	owner       entity.Identity
	registryUrl string
	listingFee  uint64
}

func New(owner entity.Identity, registryUrl string, listingFee uint64) *Config {
	return &Config{owner: owner, registryUrl: registryUrl, listingFee: listingFee}
}

func (c *Config) ListingFee() uint64 {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.listingFee
}

func (c *Config) RegistryUrl() string {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.registryUrl
}

func (c *Config) SetListingFee(caller entity.Identity, fee uint64) error {
	if err := c.authorize(caller); err != nil {
		return err
	}

	c.mtx.Lock()
	c.listingFee = fee
	c.mtx.Unlock()

	zap.L().With(zap.Uint64("fee", fee)).Info("Admin: Listing fee updated")

	return nil
}

func (c *Config) SetRegistryUrl(caller entity.Identity, url string) error {
	if err := c.authorize(caller); err != nil {
		return err
	}

	c.mtx.Lock()
	c.registryUrl = url
	c.mtx.Unlock()

	zap.L().With(zap.String("url", url)).Info("Admin: Registry endpoint updated")

	return nil
}

func (c *Config) authorize(caller entity.Identity) error {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if caller != c.owner {
		zap.L().With(zap.String("caller", caller.String())).Warn("Admin: Unauthorized configuration request")
		return ErrNotAuthorized
	}

	return nil
}
