package worker

import "testing"

func TestImageListEmpty(t *testing.T) {
	if got := imageList(""); got != nil {
		t.Fatalf("expected nil for empty url, got %v", got)
	}
}

func TestImageListSingle(t *testing.T) {
	got := imageList("https://img.example.com/b0abc.jpg")
	if len(got) != 1 || got[0] != "https://img.example.com/b0abc.jpg" {
		t.Fatalf("unexpected image list: %v", got)
	}
}

func TestConsumerRegisterNilSafe(t *testing.T) {
	var c *Consumer
	c.Register(nil)
}
