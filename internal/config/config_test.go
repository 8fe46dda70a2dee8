package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("OUTBOX_BATCH_SIZE", "")
	t.Setenv("OUTBOX_CLAIM_TIMEOUT", "")
	cfg := Load()

	if cfg.HTTPAddress != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.HTTPAddress)
	}
	if cfg.OutboxBatchSize != 25 {
		t.Fatalf("expected default batch size 25, got %d", cfg.OutboxBatchSize)
	}
	if cfg.OutboxClaimTimeout != time.Minute {
		t.Fatalf("expected claim timeout 1m, got %s", cfg.OutboxClaimTimeout)
	}
	if cfg.Storage != "postgres" {
		t.Fatalf("expected postgres storage by default, got %q", cfg.Storage)
	}
	if cfg.FinalizeBatchSize != 50 {
		t.Fatalf("expected finalize batch 50, got %d", cfg.FinalizeBatchSize)
	}
	if len(cfg.ConsumerTopics) != 2 {
		t.Fatalf("expected two default topics, got %v", cfg.ConsumerTopics)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("JWT_TOKEN_TTL", "90m")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("DLQ_MAX_RETRIES", "not-a-number")
	t.Setenv("STORAGE", "Memory")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.JWTTokenTTL != 90*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.JWTTokenTTL)
	}
	if cfg.RateLimitBurst != 7 {
		t.Fatalf("unexpected burst %d", cfg.RateLimitBurst)
	}
	if cfg.Storage != "memory" {
		t.Fatalf("storage should be lowercased, got %q", cfg.Storage)
	}
	if cfg.DLQMaxRetries != 5 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.DLQMaxRetries)
	}
}
