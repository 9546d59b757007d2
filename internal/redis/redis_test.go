package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(Options{Addr: mr.Addr()})
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client))
}

func TestNewClient_DistinctInstances(t *testing.T) {
	mr := miniredis.RunT(t)

	c1 := NewClient(Options{Addr: mr.Addr()})
	c2 := NewClient(Options{Addr: mr.Addr()})
	defer c1.Close()
	defer c2.Close()

	assert.NotSame(t, c1, c2)
}

func TestPing_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client := NewClient(Options{Addr: addr})
	defer client.Close()
	assert.Error(t, Ping(context.Background(), client))
}

func BenchmarkNewClient(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewClient(Options{Addr: "localhost:6379"}).Close()
	}
}
