package config

import "testing"

func TestDeriveSocketURL(t *testing.T) {
	cases := []struct {
		api  string
		want string
	}{
		{"http://localhost:8080/api/v1", "ws://localhost:8080/ws"},
		{"https://api.linkspark.io/api/v1", "wss://api.linkspark.io/ws"},
		{"http://localhost:8080", "ws://localhost:8080/ws"},
	}
	for _, c := range cases {
		if got := deriveSocketURL(c.api); got != c.want {
			t.Errorf("deriveSocketURL(%q) = %q, want %q", c.api, got, c.want)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	LoadConfig("testdata/does-not-exist.env")
	if Cfg == nil {
		t.Fatal("Cfg not set after LoadConfig")
	}
	if Cfg.APIBaseURL == "" || Cfg.SocketURL == "" {
		t.Errorf("config missing defaults: %+v", Cfg)
	}
	if Cfg.RequestTimeout <= 0 {
		t.Errorf("RequestTimeout = %v, want positive", Cfg.RequestTimeout)
	}
}
