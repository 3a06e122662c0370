package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipe(t *testing.T) {
	password := []byte("hemmelig")
	body := []byte(`{"password":"hemmelig"}`)

	Wipe(password, nil, body)

	assert.Equal(t, make([]byte, 8), password)
	assert.Equal(t, make([]byte, len(body)), body)
	assert.NotPanics(t, func() { Wipe() })
}
