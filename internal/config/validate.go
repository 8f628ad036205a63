package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePermalink(); err != nil {
		return err
	}
	if err := c.validateS3(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePermalink() error {
	switch c.Permalink.Host {
	case HostLitterbox:
		if _, ok := litterboxRetentions[c.Permalink.Retention]; !ok {
			return fmt.Errorf("permalink.retention %q is not supported by litterbox (use 1h, 12h, 24h or 72h)", c.Permalink.Retention)
		}
		if !strings.HasPrefix(c.Litterbox.Endpoint, "http://") && !strings.HasPrefix(c.Litterbox.Endpoint, "https://") {
			return fmt.Errorf("litterbox.endpoint must be an http(s) URL, got %q", c.Litterbox.Endpoint)
		}
	case HostS3:
		retention, err := time.ParseDuration(c.Permalink.Retention)
		if err != nil {
			return fmt.Errorf("permalink.retention: %w", err)
		}
		if retention < time.Hour || retention > maxS3PresignRetention {
			return errors.New("permalink.retention must be between 1h and 168h for the s3 host")
		}
	default:
		return fmt.Errorf("permalink.host must be %q or %q, got %q", HostLitterbox, HostS3, c.Permalink.Host)
	}
	return nil
}

func (c *Config) validateS3() error {
	if c.Permalink.Host != HostS3 {
		return nil
	}
	if c.S3.Endpoint == "" {
		return errors.New("s3.endpoint must be set when permalink.host is s3")
	}
	if c.S3.Bucket == "" {
		return errors.New("s3.bucket must be set when permalink.host is s3")
	}
	if strings.TrimSpace(c.S3.AccessKey) == "" || strings.TrimSpace(c.S3.SecretKey) == "" {
		return fmt.Errorf("s3 credentials are required. Set %s and %s or edit the [s3] section", envS3AccessKey, envS3SecretKey)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
