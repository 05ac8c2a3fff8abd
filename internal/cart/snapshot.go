package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// SchemaVersion is the version written by Encode.
// Version 1 is the bare JSON array stored under cart:<user> by earlier releases.
const SchemaVersion = 2

type Snapshot struct {
	Version   int               `json:"version"`
	Owner     string            `json:"owner"`
	Items     []models.CartItem `json:"items"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

type legacyItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

func Encode(s Snapshot) ([]byte, error) {
	s.Version = SchemaVersion
	if s.Items == nil {
		s.Items = []models.CartItem{}
	}
	return json.Marshal(s)
}

// Decode reads any known schema version and returns a normalized current snapshot.
func Decode(owner string, data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{Version: SchemaVersion, Owner: owner, Items: []models.CartItem{}}, nil
	}

	if data[0] == '[' {
		return decodeLegacy(owner, data)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: cart %s: %v", apperr.ErrCorruptState, owner, err)
	}
	if s.Version != SchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: cart %s: unsupported schema version %d", apperr.ErrCorruptState, owner, s.Version)
	}
	s.Owner = owner
	s.Items = Normalize(s.Items)
	return s, nil
}

func decodeLegacy(owner string, data []byte) (Snapshot, error) {
	var legacy []legacyItem
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Snapshot{}, fmt.Errorf("%w: legacy cart %s: %v", apperr.ErrCorruptState, owner, err)
	}

	items := make([]models.CartItem, 0, len(legacy))
	for _, l := range legacy {
		id, err := strconv.Atoi(l.ProductID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: legacy cart %s: product id %q", apperr.ErrCorruptState, owner, l.ProductID)
		}
		items = append(items, models.CartItem{
			ID:       id,
			Title:    l.Name,
			Price:    decimal.NewFromFloat(l.Price),
			Quantity: l.Quantity,
			Image:    l.ImageURL,
		})
	}
	return Snapshot{Version: SchemaVersion, Owner: owner, Items: Normalize(items)}, nil
}
