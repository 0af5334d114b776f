// Package mongo connects to the optional MongoDB deployment that keeps a copy
// of every accepted submission.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when neither MONGODB_DATABASE nor the URI path name one.
const DefaultDatabase = "formrelay"

// New connects and pings the deployment, retrying up to cfg.RetryAttempts
// times. The caller owns the returned client and must Disconnect it.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		client, err := mongo.Connect(opts)
		if err != nil {
			// Invalid options are not retried.
			return nil, errors.Join(ErrFailedToConnectToMongo, err)
		}
		if lastErr = client.Ping(ctx, nil); lastErr == nil {
			return client, nil
		}
		_ = client.Disconnect(context.WithoutCancel(ctx))

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// DatabaseName resolves the database: MONGODB_DATABASE, then the URI path,
// then DefaultDatabase.
func DatabaseName(cfg Config) string {
	if cfg.Database != "" {
		return cfg.Database
	}
	if cs, err := connstring.Parse(cfg.ConnectionURL); err == nil && cs.Database != "" {
		return cs.Database
	}
	return DefaultDatabase
}

// NewWithDatabase connects and returns the database resolved by DatabaseName.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(DatabaseName(cfg)), nil
}
