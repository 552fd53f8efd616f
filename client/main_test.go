package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeCycles(t *testing.T) {
	assert.Equal(t, time.Second, wholeCycles(time.Second, 440))
	assert.Equal(t, 500*time.Millisecond, wholeCycles(700*time.Millisecond, 2))
	assert.Equal(t, time.Duration(0), wholeCycles(100*time.Millisecond, 1))
	assert.Equal(t, time.Second, wholeCycles(time.Second, 0))
}
