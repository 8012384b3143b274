// Package server runs the HTTP server and shuts it down gracefully.
package server

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds HTTP server configuration parameters.
type Config struct {
	Port           string        // Port number to listen on
	ReadTimeout    time.Duration // Maximum duration for reading the entire request
	WriteTimeout   time.Duration // Maximum duration for writing the response
	IdleTimeout    time.Duration // Maximum duration to wait for next request with keep-alives
	MaxHeaderBytes int           // Maximum size of request headers
}

// Validate checks that the port is numeric and within 1-65535.
func (c *Config) Validate() error {
	portNum, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port number: %s (must be numeric)", c.Port)
	}
	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("invalid port number: %s (must be between 1 and 65535)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("invalid timeouts: read %s, write %s, idle %s (must not be negative)",
			c.ReadTimeout, c.WriteTimeout, c.IdleTimeout)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
