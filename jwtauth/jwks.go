package jwtauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/joeshaw/envdecode"
)

// Retrieval defaults, applied when the corresponding RetrieverConfig field
// is zero.
const (
	DefaultConnectTimeout = 500 * time.Millisecond
	DefaultReadTimeout    = 500 * time.Millisecond
	DefaultSizeLimit      = int64(50 * 1024)
)

// Key usages as declared in a key set.
const (
	useSignature  = "sig"
	useEncryption = "enc"
)

// RetrieverConfig tunes remote key-set retrieval. Zero fields take the
// package defaults.
type RetrieverConfig struct {
	ConnectTimeout time.Duration `json:"connect-timeout,omitempty" env:"JWK_CONNECT_TIMEOUT,default=500ms"`
	ReadTimeout    time.Duration `json:"read-timeout,omitempty" env:"JWK_READ_TIMEOUT,default=500ms"`
	SizeLimit      int64         `json:"size-limit,omitempty" env:"JWK_SIZE_LIMIT,default=51200"`
}

// Retriever fetches and parses remote key sets within the configured
// connect/read timeouts and response-size cap. Retrieval happens at startup,
// never on the request path.
type Retriever struct {
	client    *http.Client
	sizeLimit int64
}

// NewRetriever builds a Retriever from cfg, applying defaults for zero
// fields.
func NewRetriever(cfg RetrieverConfig) *Retriever {
	connect := cfg.ConnectTimeout
	if connect == 0 {
		connect = DefaultConnectTimeout
	}
	read := cfg.ReadTimeout
	if read == 0 {
		read = DefaultReadTimeout
	}
	limit := cfg.SizeLimit
	if limit == 0 {
		limit = DefaultSizeLimit
	}
	dialer := &net.Dialer{Timeout: connect}
	return &Retriever{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: connect,
			},
			Timeout: connect + read,
		},
		sizeLimit: limit,
	}
}

// NewRetrieverFromEnv builds a Retriever from JWK_* environment variables.
func NewRetrieverFromEnv() (*Retriever, error) {
	var cfg RetrieverConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("jwtauth: retriever env config: %w", err)
	}
	return NewRetriever(cfg), nil
}

// Fetch retrieves and parses the key set at rawURL. Any network, status, or
// parse failure is returned as-is: a missing verification key silently
// disables authentication, so callers must treat this as fatal.
func (r *Retriever) Fetch(ctx context.Context, rawURL string) (*jose.JSONWebKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwtauth: key set request %s: %w", rawURL, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwtauth: fetch key set %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwtauth: fetch key set %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.sizeLimit+1))
	if err != nil {
		return nil, fmt.Errorf("jwtauth: read key set %s: %w", rawURL, err)
	}
	if int64(len(body)) > r.sizeLimit {
		return nil, fmt.Errorf("jwtauth: key set %s exceeds size limit %d", rawURL, r.sizeLimit)
	}
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("jwtauth: parse key set %s: %w", rawURL, err)
	}
	return &set, nil
}

// selectByUse filters a key set down to entries with the given declared
// usage. Entries without a usage are excluded: usage must be explicit for a
// key to be routed to either side.
func selectByUse(set *jose.JSONWebKeySet, use string) []jose.JSONWebKey {
	var out []jose.JSONWebKey
	for _, k := range set.Keys {
		if k.Use == use {
			out = append(out, k)
		}
	}
	return out
}
