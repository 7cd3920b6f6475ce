package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoConnector_NoURI(t *testing.T) {
	c := NewMongoConnector("", time.Second)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Client(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrNoMongoURI)
	}
	_, err := c.Database(context.Background(), "ayuroot")
	assert.ErrorIs(t, err, ErrNoMongoURI)
	assert.NoError(t, c.Disconnect(context.Background()))
}

func TestMongoConnector_DisconnectBeforeConnect(t *testing.T) {
	c := NewMongoConnector("mongodb://127.0.0.1:1", 200*time.Millisecond)

	require.NoError(t, c.Disconnect(context.Background()))
	_, err := c.Client(context.Background())
	assert.ErrorIs(t, err, ErrConnectorClosed)
}

func TestMongoConnector_DisconnectDuringConnect(t *testing.T) {
	// nothing listens on port 1, so the ping fails after the timeout
	c := NewMongoConnector("mongodb://127.0.0.1:1", 200*time.Millisecond)

	var wg sync.WaitGroup
	var clientErr, closeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, clientErr = c.Client(context.Background())
	}()
	go func() {
		defer wg.Done()
		closeErr = c.Disconnect(context.Background())
	}()
	wg.Wait()

	assert.Error(t, clientErr)
	assert.NoError(t, closeErr)
}

func TestNewRedisCache_Disabled(t *testing.T) {
	cache, err := NewRedisCache("", "", 0, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, cache)

	val, ok, err := cache.Get(context.Background(), "medicine:cough")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
	assert.NoError(t, cache.Set(context.Background(), "k", "v"))
	assert.NoError(t, cache.Ping(context.Background()))
	assert.NoError(t, cache.Close())
}

func TestNewRedisCache_Addresses(t *testing.T) {
	cache, err := NewRedisCache("localhost:6379", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cache.client.Options().Addr)
	assert.Equal(t, 24*time.Hour, cache.ttl)
	require.NoError(t, cache.Close())

	cache, err = NewRedisCache("redis://:secret@cache.internal:6380/2", "", 0, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", cache.client.Options().Addr)
	assert.Equal(t, "secret", cache.client.Options().Password)
	assert.Equal(t, 2, cache.client.Options().DB)
	require.NoError(t, cache.Close())

	_, err = NewRedisCache("redis://cache.internal:6380/notadb", "", 0, time.Hour)
	assert.Error(t, err)
}
