package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFibonacciNext(t *testing.T) {
	require.Equal(t, 1, FibonacciNext(0))
	require.Equal(t, 2, FibonacciNext(1))
	require.Equal(t, 3, FibonacciNext(2))
	require.Equal(t, 5, FibonacciNext(3))
	require.Equal(t, 8, FibonacciNext(5))
	require.Equal(t, 13, FibonacciNext(10))
}

func TestBackoff(t *testing.T) {
	require.Equal(t, 2, Backoff(1, 60))
	require.Equal(t, 5, Backoff(3, 60))
	require.Equal(t, 60, Backoff(55, 60), "steps clamp at the ceiling")
	require.Equal(t, 60, Backoff(60, 60))
}
