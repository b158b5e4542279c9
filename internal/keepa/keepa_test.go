package keepa

import (
	"errors"
	"testing"
)

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("empty config must fail, got %v", err)
	}

	client, err := NewClient(Config{APIKey: "key"})
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if client.cfg.BaseURL != "https://api.keepa.com" || client.cfg.Domain != 1 {
		t.Fatalf("defaults not applied: %+v", client.cfg)
	}
}

func TestDecodeCSVSkipsGaps(t *testing.T) {
	prices := decodePrices([]int64{7000000, 1499, 7000100, -1, 7000200, 1599})
	if len(prices) != 2 || prices[0] != 14.99 || prices[1] != 15.99 {
		t.Fatalf("unexpected prices: %v", prices)
	}

	ranks := decodeRanks([]int64{7000000, 25000, 7000100, -1, 7000200, 18000})
	if len(ranks) != 2 || ranks[0] != 25000 || ranks[1] != 18000 {
		t.Fatalf("unexpected ranks: %v", ranks)
	}
}
