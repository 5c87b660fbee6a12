package config

// Redis backs the rate limiter and the catalog response cache.  Both are
// optional: when Redis is disabled or unreachable at startup the constructor
// returns nil and the middleware turn into pass-throughs.

import (
	"context"
	"crypto/tls"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment.  REDIS_HOST and
// REDIS_PORT name the server; REDIS_ADDR (host:port) is used when they are
// not both set.  REDIS_PASSWORD is optional, REDIS_DB selects the database
// (default 0) and REDIS_TLS enables TLS when "true" or "1".
func RedisOptions() *redis.Options {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	var tlsConf *tls.Config
	if v := envStr("REDIS_TLS", ""); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &redis.Options{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	}
}

// NewRedisClient returns a connected client, or nil when REDIS_ENABLED is
// false or the server does not answer a ping within two seconds.
func NewRedisClient() *redis.Client {
	if !envBool("REDIS_ENABLED", true) {
		return nil
	}
	opts := RedisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable, rate limiting and cache disabled: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
