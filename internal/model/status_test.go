package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, raw := range []string{"", "done", "Approved", " pending"} {
		_, err := ParseStatus(raw)
		assert.Error(t, err, raw)
	}
}
