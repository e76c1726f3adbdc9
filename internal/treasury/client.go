package treasury

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

// bankClient moves funds through the external payment service over HTTP.
type bankClient struct {
	url    string
	client *retryablehttp.Client
}

type transferRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func NewBankClient(url string, client *retryablehttp.Client) (FundTransferor, error) {
	if len(url) == 0 {
		return nil, errors.New("bad call missing argument host")
	}

	return bankClient{url, client}, nil
}

func (c bankClient) Transfer(to entity.Identity, amount uint64) error {
	zap.L().With(zap.String("to", to.String()), zap.Uint64("amount", amount)).Debug("Bank: Transfer request")

	body, err := json.Marshal(transferRequest{To: to.String(), Amount: amount})
	if err != nil {
		return err
	}

	uri := fmt.Sprintf("%s/transfers", c.url)
	req, err := retryablehttp.NewRequest("POST", uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("to", to.String()),
			zap.Uint64("amount", amount),
		).Error("Bank: Failed to handle transfer request")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		zap.L().With(
			zap.Int("status", resp.StatusCode),
			zap.String("to", to.String()),
			zap.Uint64("amount", amount),
		).Error("Bank: Transfer refused")
		return errors.New("bad status code")
	}

	return nil
}
