package treasury

import (
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

// FundTransferor moves funds to a payable identity. A transfer either fully
// succeeds or returns an error; there is no partial transfer.
type FundTransferor interface {
	Transfer(to entity.Identity, amount uint64) error
}

// Engine computes the creator/seller split for a sale amount and performs the
// two fund transfers. The legs are independent: a succeeded leg is never
// rolled back when the other fails, so callers must treat any leg failure as
// fatal before moving asset custody.
type Engine interface {
	Split(total uint64, royaltyPercent uint) (royalty uint64, remainder uint64)
	Payout(creator entity.Identity, royalty uint64, seller entity.Identity, remainder uint64) PayoutResult
}

type PayoutResult struct {
	CreatorErr error
	SellerErr  error
}

func (r PayoutResult) Ok() bool {
	return r.CreatorErr == nil && r.SellerErr == nil
}

func (r PayoutResult) Err() error {
	if r.CreatorErr != nil {
		return r.CreatorErr
	}

	return r.SellerErr
}

type engine struct {
	transferor FundTransferor
}

func NewEngine(transferor FundTransferor) Engine {
	return engine{transferor}
}

// Split uses integer floor division for the royalty share; the remainder
// absorbs the rounding so royalty+remainder always equals total. The share is
// computed from the quotient and remainder of total/100 separately so the
// product never wraps uint64 on large sale amounts.
func (e engine) Split(total uint64, royaltyPercent uint) (uint64, uint64) {
	percent := uint64(royaltyPercent)
	royalty := total/100*percent + total%100*percent/100

	return royalty, total - royalty
}

func (e engine) Payout(creator entity.Identity, royalty uint64, seller entity.Identity, remainder uint64) PayoutResult {
	result := PayoutResult{
		CreatorErr: e.transferor.Transfer(creator, royalty),
		SellerErr:  e.transferor.Transfer(seller, remainder),
	}

	if !result.Ok() {
		zap.L().With(
			zap.String("creator", creator.String()),
			zap.String("seller", seller.String()),
			zap.Uint64("royalty", royalty),
			zap.Uint64("remainder", remainder),
			zap.Error(result.Err()),
		).Warn("Treasury: Payout leg failed")
	}

	return result
}
