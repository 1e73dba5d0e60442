package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want logger.LogLevel
	}{
		{env: "production", want: logger.Warn},
		{env: "test", want: logger.Silent},
		{env: "development", want: logger.Info},
		{env: "", want: logger.Info},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, LogLevel(tt.env))
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, defaultMaxIdleConns, o.MaxIdleConns)
	assert.Equal(t, defaultMaxOpenConns, o.MaxOpenConns)
	assert.Equal(t, time.Hour, o.ConnMaxLifetime)

	// idle connections never exceed the open limit
	o = Options{MaxIdleConns: 20, MaxOpenConns: 5, ConnMaxLifetime: time.Minute}.withDefaults()
	assert.Equal(t, 5, o.MaxIdleConns)
	assert.Equal(t, 5, o.MaxOpenConns)
	assert.Equal(t, time.Minute, o.ConnMaxLifetime)
}
