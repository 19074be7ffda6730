package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const RAW_OUTPUT_KEY_PREFIX = "scrapeflow:raw:"

// ValkeyClient caches the raw JSON skraper produced per network/query so
// repeated requests skip the subprocess. Enriched results are never stored.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(addr string, ttl time.Duration) (*ValkeyClient, error) {
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			addr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", res.Error())
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")

	return &ValkeyClient{Client: client, ttl: ttl}, nil
}

func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

// CacheRawOutput stores the raw scraper payload under network:query with the
// configured TTL.
func (vc *ValkeyClient) CacheRawOutput(ctx context.Context, network, query string, payload []byte) error {
	key := rawOutputKey(network, query)
	completed := []valkey.Completed{
		vc.Client.B().Set().Key(key).Value(string(payload)).Build(),
		vc.Client.B().Expire().Key(key).Seconds(int64(vc.ttl.Seconds())).Build(),
	}

	responses := vc.DoMultiWithRetry(ctx, completed, 3)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}

	slog.Info("[ValkeyClient] Cached raw scrape output",
		slog.String("key", key))
	return nil
}

// GetRawOutput returns the cached raw payload for network:query, if present.
func (vc *ValkeyClient) GetRawOutput(ctx context.Context, network, query string) ([]byte, bool) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(rawOutputKey(network, query)).Build(), 3)
	if res.Error() != nil {
		return nil, false
	}

	payload, err := res.AsBytes()
	if err != nil || len(payload) == 0 {
		return nil, false
	}

	return payload, true
}

func rawOutputKey(network, query string) string {
	return RAW_OUTPUT_KEY_PREFIX + network + ":" + query
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil && isConnectionError(r.Error()) {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil || !isConnectionError(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
