package registry

import (
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

var ErrInvalidRoyalty = errors.New("registry returned a royalty outside 0-100")

// Service is the capability surface of the external asset registry. The
// registry owns canonical token ownership and creator/royalty metadata; the
// marketplace never mutates anything but custody through it.
type Service interface {
	TransferCustody(assetId uint64, from entity.Identity, to entity.Identity) error
	OwnerOf(assetId uint64) (entity.Identity, error)
	CreatorOf(assetId uint64) (entity.Identity, error)
	RoyaltyOf(assetId uint64) (uint, error)
}

type service struct {
	client *Client
	cache  *cache.Cache
}

func NewService(client *Client, cache *cache.Cache) Service {
	return service{client, cache}
}

func (s service) TransferCustody(assetId uint64, from entity.Identity, to entity.Identity) error {
	zap.L().With(
		zap.Uint64("assetId", assetId),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	).Debug("Registry: TransferCustody")

	_, err := s.client.call("TransferCustody", assetId, from.String(), to.String())

	return err
}

func (s service) OwnerOf(assetId uint64) (entity.Identity, error) {
	resp, err := s.client.call("OwnerOf", assetId)
	if err != nil {
		return entity.NoIdentity, err
	}

	owner, err := resp.ResultAsString()
	if err != nil {
		return entity.NoIdentity, err
	}

	return entity.Identity(owner), nil
}

// CreatorOf is immutable for the life of an asset so the first successful
// lookup is cached forever.
func (s service) CreatorOf(assetId uint64) (entity.Identity, error) {
	key := fmt.Sprintf("creator.%d", assetId)
	if creator, exists := s.cache.Get(key); exists {
		return creator.(entity.Identity), nil
	}

	resp, err := s.client.call("CreatorOf", assetId)
	if err != nil {
		return entity.NoIdentity, err
	}

	value, err := resp.ResultAsString()
	if err != nil {
		return entity.NoIdentity, err
	}

	creator := entity.Identity(value)
	s.cache.Set(key, creator, cache.NoExpiration)

	return creator, nil
}

func (s service) RoyaltyOf(assetId uint64) (uint, error) {
	resp, err := s.client.call("RoyaltyOf", assetId)
	if err != nil {
		return 0, err
	}

	royalty, err := resp.ResultAsUint()
	if err != nil {
		return 0, err
	}

	if royalty > 100 {
		zap.L().With(zap.Uint64("assetId", assetId), zap.Uint("royalty", royalty)).Warn("Registry: Invalid royalty")
		return 0, ErrInvalidRoyalty
	}

	return royalty, nil
}
