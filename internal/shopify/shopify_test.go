package shopify

import (
	"errors"
	"testing"
)

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("empty config must fail with ErrConfigInvalid, got %v", err)
	}
	if _, err := NewClient(Config{StoreDomain: "shop.myshopify.com"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing token must fail, got %v", err)
	}

	client, err := NewClient(Config{
		StoreDomain: "https://shop.myshopify.com/",
		AccessToken: " token ",
	})
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if client.cfg.StoreDomain != "shop.myshopify.com" {
		t.Fatalf("domain not normalized: %q", client.cfg.StoreDomain)
	}
	if client.cfg.APIVersion != defaultAPIVersion {
		t.Fatalf("api version default not applied: %q", client.cfg.APIVersion)
	}
	if got := client.endpoint("/products.json"); got != "https://shop.myshopify.com/admin/api/"+defaultAPIVersion+"/products.json" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
}
