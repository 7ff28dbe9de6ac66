package models

import "time"

// InstanceInfo describes the running applet instance.
// This corresponds to ~/.location-status/instance.yaml.
type InstanceInfo struct {
	Version   int       `yaml:"version"`
	ID        string    `yaml:"id"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"` // 0 when the status server is disabled
	PID       int       `yaml:"pid"`
	Bus       string    `yaml:"bus"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info with current values.
func NewInstanceInfo(id, host string, port, pid int, bus string) *InstanceInfo {
	return &InstanceInfo{
		Version:   1,
		ID:        id,
		Host:      host,
		Port:      port,
		PID:       pid,
		Bus:       bus,
		StartedAt: time.Now().UTC(),
	}
}
