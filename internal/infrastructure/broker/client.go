package broker

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis stream shared by every running instance. Each
// instance reads through its own consumer group so that all of them see
// every event.
type Client struct {
	redis    *redis.Client
	stream   string
	group    string
	maxLen   int64
	instance string
}

func NewClient(cfg Config, instanceID string) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, err
	}

	group := cfg.GroupName
	if instanceID != "" {
		group += "-" + instanceID
	}

	rdb := redis.NewClient(opt)
	ctx := context.Background()

	err = rdb.XGroupCreateMkStream(ctx, cfg.StreamName, group, "$").Err()
	if err != nil && !isBusyGroup(err) {
		return nil, err
	}

	return &Client{
		redis:    rdb,
		stream:   cfg.StreamName,
		group:    group,
		maxLen:   cfg.MaxLen,
		instance: instanceID,
	}, nil
}

// Redis exposes the underlying connection for other redis backed helpers.
func (c *Client) Redis() *redis.Client {
	return c.redis
}

func (c *Client) Instance() string {
	return c.instance
}

// Close drops this instance's consumer group and closes the connection.
func (c *Client) Close() error {
	if c.instance != "" {
		_ = c.redis.XGroupDestroy(context.Background(), c.stream, c.group).Err()
	}

	return c.redis.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}
