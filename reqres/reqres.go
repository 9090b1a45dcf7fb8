package reqres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/webframe/httpclient"
)

const (
	// DefaultBaseURL is the public reqres.in API root.
	DefaultBaseURL = "https://reqres.in/api"
	// APIKeyHeader is the header reqres.in reads its free-tier key from.
	APIKeyHeader = "x-api-key"
)

// Option configures a Utility.
type Option func(*options)

type options struct {
	contentType string
	apiKey      string
	timeout     time.Duration
	clientOpts  []httpclient.Option
}

// WithContentType selects json (default), xml, text or urlencoded.
func WithContentType(name string) Option {
	return func(o *options) { o.contentType = name }
}

// WithAPIKey sends key under the x-api-key header.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithClientOptions passes options through to the underlying client.
func WithClientOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// Utility exposes the reqres.in user operations.
type Utility struct {
	client *httpclient.Client
}

// New builds a Utility for baseURL.
func New(baseURL string, opts ...Option) (*Utility, error) {
	o := &options{contentType: "json"}
	for _, opt := range opts {
		opt(o)
	}

	cfg := httpclient.Config{
		BaseURI:     baseURL,
		Timeout:     o.timeout,
		ContentType: o.contentType,
		Auth: httpclient.AuthConfig{
			APIKey:       o.apiKey,
			APIKeyHeader: APIKeyHeader,
		},
	}
	client, err := httpclient.NewFromConfig(cfg, o.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("reqres: %w", err)
	}
	return &Utility{client: client}, nil
}

// Client returns the underlying client, e.g. to inspect the last response.
func (u *Utility) Client() *httpclient.Client {
	return u.client
}

// GetUser fetches a single user.
func (u *Utility) GetUser(ctx context.Context, id int) (*SingleUser, error) {
	resp, err := u.client.Get(ctx, "/users/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return decode[SingleUser](resp)
}

// ListUsers fetches one page of users.
func (u *Utility) ListUsers(ctx context.Context, page int) (*UserList, error) {
	if page < 1 {
		page = 1
	}
	resp, err := u.client.Get(ctx, "/users", httpclient.WithParams(map[string]string{
		"page": strconv.Itoa(page),
	}))
	if err != nil {
		return nil, err
	}
	return decode[UserList](resp)
}

// CreateUser creates a user. The payload follows the client content type.
func (u *Utility) CreateUser(ctx context.Context, name, job string) (*CreatedUser, error) {
	resp, err := u.client.Post(ctx, "/users", map[string]string{"name": name, "job": job})
	if err != nil {
		return nil, err
	}
	return decode[CreatedUser](resp)
}

// UpdateUser replaces a user's name and job.
func (u *Utility) UpdateUser(ctx context.Context, id string, update UserUpdate) (*UpdatedUser, error) {
	resp, err := u.client.Put(ctx, "/users/"+id, update)
	if err != nil {
		return nil, err
	}
	return decode[UpdatedUser](resp)
}

// DeleteUser deletes a user and returns the raw response (204 on success).
func (u *Utility) DeleteUser(ctx context.Context, id string) (*httpclient.Response, error) {
	return u.client.Delete(ctx, "/users/"+id, nil)
}

func decode[T any](resp *httpclient.Response) (*T, error) {
	v, err := httpclient.DecodeJSON[T](resp)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
