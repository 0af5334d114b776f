package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formrelay/pkg/mongo"
)

func TestDatabaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  mongo.Config
		want string
	}{
		{"explicit", mongo.Config{ConnectionURL: "mongodb://localhost/fromuri", Database: "explicit"}, "explicit"},
		{"from uri", mongo.Config{ConnectionURL: "mongodb://user:pw@localhost:27017/forms?authSource=admin"}, "forms"},
		{"default", mongo.Config{ConnectionURL: "mongodb://localhost:27017"}, mongo.DefaultDatabase},
		{"unparsable", mongo.Config{ConnectionURL: "::::"}, mongo.DefaultDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mongo.DatabaseName(tt.cfg))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.New(context.Background(), mongo.Config{ConnectionURL: "not-a-uri"})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)

	_, err = mongo.NewWithDatabase(context.Background(), mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1/?connect=direct",
		ConnectTimeout: 100 * time.Millisecond,
		RetryAttempts:  1,
	})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, mongo.Config{}.Enabled())
	assert.True(t, mongo.Config{ConnectionURL: "mongodb://localhost"}.Enabled())
}
