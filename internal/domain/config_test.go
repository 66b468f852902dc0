package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 150, c.DPI)
	assert.Equal(t, 10, c.Concurrency)
	assert.Equal(t, 0.1, c.Temperature)
	assert.Equal(t, Tier2, c.Fidelity)
}

func TestNewConfig_Clamping(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want func(*ConversionConfig) bool
	}{
		{"dpi too low", []Option{WithDPI(10)}, func(c *ConversionConfig) bool { return c.DPI == 72 }},
		{"dpi too high", []Option{WithDPI(1000)}, func(c *ConversionConfig) bool { return c.DPI == 400 }},
		{"concurrency zero", []Option{WithConcurrency(0)}, func(c *ConversionConfig) bool { return c.Concurrency == 1 }},
		{"temperature negative", []Option{WithTemperature(-1)}, func(c *ConversionConfig) bool { return c.Temperature == 0.0 }},
		{"temperature too high", []Option{WithTemperature(5)}, func(c *ConversionConfig) bool { return c.Temperature == 2.0 }},
		{"maintain_format forces concurrency 1", []Option{WithConcurrency(10), WithMaintainFormat(true)}, func(c *ConversionConfig) bool { return c.Concurrency == 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig(tt.opts...)
			assert.True(t, tt.want(&c))
			assert.GreaterOrEqual(t, c.DPI, 72)
			assert.LessOrEqual(t, c.DPI, 400)
			assert.GreaterOrEqual(t, c.Concurrency, 1)
			assert.GreaterOrEqual(t, c.Temperature, 0.0)
			assert.LessOrEqual(t, c.Temperature, 2.0)
		})
	}
}

func TestEffectiveConcurrency_MaintainFormat(t *testing.T) {
	c := NewConfig(WithConcurrency(8), WithMaintainFormat(true))
	assert.Equal(t, 1, c.EffectiveConcurrency())
}
