package audit

import (
	"fmt"

	"github.com/sergio11/art-collectibles-marketplace/internal/config"
)

type Indices string

var (
	ListingIndex Indices = "listing"
)

// Get prefixes the index with the environment and returns the full string
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Env, config.Get().QueuePrefix, string(*i))
}
