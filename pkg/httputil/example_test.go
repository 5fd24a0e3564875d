package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/httputil"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// No Output comments in this file: the examples talk to placeholder
// hosts and only illustrate wiring.

func Example() {
	log := logger.New(&config.Config{Env: "production", LogLevel: "info"})

	client := httputil.NewWithTimeout(log, 5*time.Second).
		WithBearerToken("api-key").
		WithRetry(2, 500*time.Millisecond)

	resp, err := client.PostJSON(context.Background(), "https://enrich.example.com/score", map[string]string{
		"name":     "Pidilite Industries",
		"industry": "Specialty Chemicals",
	})
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}

	var body struct {
		Score float64 `json:"score"`
	}
	if err := httputil.DecodeJSON(resp, &body); err != nil {
		fmt.Println("decode failed:", err)
		return
	}
	fmt.Printf("score: %.1f\n", body.Score)
}

func ExampleClient_Get() {
	log := logger.New(&config.Config{Env: "production", LogLevel: "info"})
	client := httputil.New(log)

	resp, err := client.Get(context.Background(), "https://enrich.example.com/health")
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("status:", resp.StatusCode)
}
