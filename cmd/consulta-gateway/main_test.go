// ABOUTME: Tests for the consulta-gateway CLI helpers
// ABOUTME: Covers health endpoint URL construction from config

package main

import (
	"testing"

	"github.com/innotech/consulta-gateway/internal/config"
)

func TestHealthURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		addr    string
		want    string
	}{
		{
			name: "bare port listens on localhost",
			addr: ":8080",
			want: "http://localhost:8080/health",
		},
		{
			name: "explicit host kept",
			addr: "0.0.0.0:9000",
			want: "http://0.0.0.0:9000/health",
		},
		{
			name:    "base url wins over listen address",
			baseURL: "https://consulta.example.com",
			addr:    ":8080",
			want:    "https://consulta.example.com/health",
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "https://consulta.example.com/",
			addr:    ":8080",
			want:    "https://consulta.example.com/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.BaseURL = tt.baseURL
			cfg.Server.HTTPAddr = tt.addr
			if got := healthURL(cfg); got != tt.want {
				t.Errorf("healthURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
