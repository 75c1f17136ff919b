package realtime

import "time"

// Config holds connection and flow-control settings
type Config struct {
	EventsPerSecond float64
	EventBurst      int
	SendBuffer      int
	MaxMessageBytes int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingInterval    time.Duration
}

// DefaultConfig returns sensible defaults for realtime connections
func DefaultConfig() Config {
	return Config{
		EventsPerSecond: 20,
		EventBurst:      40,
		SendBuffer:      256,
		MaxMessageBytes: 1 << 20, // avatars may arrive as data URLs
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingInterval:    30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.EventsPerSecond <= 0 {
		c.EventsPerSecond = d.EventsPerSecond
	}
	if c.EventBurst <= 0 {
		c.EventBurst = d.EventBurst
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = d.MaxMessageBytes
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	return c
}
