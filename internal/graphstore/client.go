package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/shopgraph/shopgraph/config"
)

// Client wraps a Neo4j driver handle. It is constructed once per process
// (service) or once per run (pipeline) and passed to whatever needs it;
// nothing reads connection state from package globals.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

func Open(cfg *config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	return &Client{driver: driver, database: "neo4j"}, nil
}

func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Run executes one write statement and discards its result.
func (c *Client) Run(ctx context.Context, query string, params map[string]any) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

// Single executes one write statement and returns its first record as a
// map, or nil when the statement yields no rows.
func (c *Client) Single(ctx context.Context, query string, params map[string]any) (map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0].AsMap(), nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(map[string]any), nil
}

// Collect executes one read statement and returns every record as a map,
// in result order.
func (c *Client) Collect(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]map[string]any, 0, len(records))
		for _, record := range records {
			rows = append(rows, record.AsMap())
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]map[string]any), nil
}
