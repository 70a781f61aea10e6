package auth

import (
	"errors"
	"fmt"
)

// Config is the process-wide security configuration: the client registry,
// the default client selection, and the authorizer registry. It is built
// once at startup via NewConfig and is immutable and safe for unsynchronized
// concurrent reads thereafter.
type Config struct {
	clients       map[string]Client
	clientOrder   []string
	defaultClient string
	authorizers   map[string]Authorizer
}

// ConfigOption customizes a Config under construction.
type ConfigOption func(*Config) error

// WithClients registers one or more clients by their own names.
func WithClients(clients ...Client) ConfigOption {
	return func(c *Config) error {
		for _, cl := range clients {
			if cl == nil {
				return errors.New("auth: nil client")
			}
			name := cl.Name()
			if name == "" {
				return errors.New("auth: client with empty name")
			}
			if _, dup := c.clients[name]; dup {
				return fmt.Errorf("auth: duplicate client %q", name)
			}
			c.clients[name] = cl
			c.clientOrder = append(c.clientOrder, name)
		}
		return nil
	}
}

// WithDefaultClient selects the client used when no client name is given.
func WithDefaultClient(name string) ConfigOption {
	return func(c *Config) error {
		c.defaultClient = name
		return nil
	}
}

// WithAuthorizer registers an authorizer under the given name.
func WithAuthorizer(name string, a Authorizer) ConfigOption {
	return func(c *Config) error {
		if name == "" {
			return errors.New("auth: authorizer with empty name")
		}
		if a == nil {
			return fmt.Errorf("auth: nil authorizer %q", name)
		}
		if _, dup := c.authorizers[name]; dup {
			return fmt.Errorf("auth: duplicate authorizer %q", name)
		}
		c.authorizers[name] = a
		return nil
	}
}

// NewConfig builds and validates an immutable security configuration.
// At least one client is required. If no default client is selected, the
// first registered client is the default.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	c := &Config{
		clients:     make(map[string]Client),
		authorizers: make(map[string]Authorizer),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if len(c.clientOrder) == 0 {
		return nil, errors.New("auth: at least one client required")
	}
	if c.defaultClient == "" {
		c.defaultClient = c.clientOrder[0]
	}
	if _, ok := c.clients[c.defaultClient]; !ok {
		return nil, fmt.Errorf("auth: default client %q not registered", c.defaultClient)
	}
	return c, nil
}

// Client returns the named client, or the default client when name is empty.
func (c *Config) Client(name string) (Client, error) {
	if name == "" {
		name = c.defaultClient
	}
	cl, ok := c.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: client %q", ErrNotFound, name)
	}
	return cl, nil
}

// DefaultClientName returns the name of the configured default client.
func (c *Config) DefaultClientName() string { return c.defaultClient }

// Authorizer returns the authorizer registered under name.
func (c *Config) Authorizer(name string) (Authorizer, error) {
	a, ok := c.authorizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: authorizer %q", ErrNotFound, name)
	}
	return a, nil
}
