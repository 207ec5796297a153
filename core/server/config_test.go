package server_test

import (
	"testing"

	"hysync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_HasServerID(t *testing.T) {
	tests := []struct {
		name     string
		serverID string
		want     bool
	}{
		{"Configured", "lobby-1", true},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ServerID: tt.serverID}
			assert.Equal(t, tt.want, c.HasServerID())
		})
	}
}
