package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"sqlite with data dir", Config{Backend: BackendSQLite, DataDir: "/srv/stock"}, nil},
		{"data dir may be empty", Config{Backend: BackendSQLite}, nil},
		{"explicit busy timeout", Config{Backend: BackendSQLite, BusyTimeout: time.Second}, nil},
		{"missing backend", Config{DataDir: "/srv/stock"}, ErrBackendEmpty},
		{"postgres is not supported", Config{Backend: "postgres"}, ErrBackendUnknown},
		{"negative busy timeout", Config{Backend: BackendSQLite, BusyTimeout: -time.Second}, ErrBusyTimeoutNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_EffectiveBusyTimeout(t *testing.T) {
	assert.Equal(t, DefaultBusyTimeout, Config{}.EffectiveBusyTimeout())
	assert.Equal(t, 250*time.Millisecond, Config{BusyTimeout: 250 * time.Millisecond}.EffectiveBusyTimeout())
}
