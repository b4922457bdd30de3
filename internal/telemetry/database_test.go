package telemetry

import (
	"net/url"
	"testing"
)

func TestWithSearchPath(t *testing.T) {
	dsn, err := WithSearchPath("postgres://u:p@localhost:5432/basketflow?sslmode=disable", "ordering")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("result is not a url: %v", err)
	}
	if u.Query().Get("search_path") != "ordering" {
		t.Errorf("expected search_path=ordering, got %s", u.RawQuery)
	}
	if u.Query().Get("sslmode") != "disable" {
		t.Errorf("expected sslmode to be kept, got %s", u.RawQuery)
	}
}
