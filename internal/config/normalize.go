package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizePermalink()
	c.normalizeLitterbox()
	c.normalizeS3()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.FileName = strings.TrimSpace(c.Store.FileName)
	if c.Store.FileName == "" {
		c.Store.FileName = defaultStoreFileName
	}
	if c.Store.BusyTimeoutMS <= 0 {
		c.Store.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	if c.Store.UpgradeWaitSeconds <= 0 {
		c.Store.UpgradeWaitSeconds = defaultUpgradeWaitSeconds
	}
}

func (c *Config) normalizePermalink() {
	if value, ok := os.LookupEnv(envPermalinkHost); ok && strings.TrimSpace(value) != "" {
		c.Permalink.Host = value
	}
	c.Permalink.Host = strings.ToLower(strings.TrimSpace(c.Permalink.Host))
	if c.Permalink.Host == "" {
		c.Permalink.Host = defaultPermalinkHost
	}
	c.Permalink.Retention = strings.TrimSpace(c.Permalink.Retention)
	if c.Permalink.Retention == "" {
		c.Permalink.Retention = defaultPermalinkRetention
	}
	c.Permalink.Filename = strings.TrimSpace(c.Permalink.Filename)
	if c.Permalink.Filename == "" {
		c.Permalink.Filename = defaultPermalinkFilename
	}
	c.Permalink.ShareBaseURL = strings.TrimSpace(c.Permalink.ShareBaseURL)
	if c.Permalink.InlineWarnLength < 0 {
		c.Permalink.InlineWarnLength = 0
	}
}

func (c *Config) normalizeLitterbox() {
	c.Litterbox.Endpoint = strings.TrimSpace(c.Litterbox.Endpoint)
	if c.Litterbox.Endpoint == "" {
		c.Litterbox.Endpoint = defaultLitterboxEndpoint
	}
	if c.Litterbox.TimeoutSeconds <= 0 {
		c.Litterbox.TimeoutSeconds = defaultLitterboxTimeout
	}
}

func (c *Config) normalizeS3() {
	if c.S3.AccessKey == "" {
		if value, ok := os.LookupEnv(envS3AccessKey); ok {
			c.S3.AccessKey = value
		}
	}
	if c.S3.SecretKey == "" {
		if value, ok := os.LookupEnv(envS3SecretKey); ok {
			c.S3.SecretKey = value
		}
	}
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	for _, scheme := range []string{"https://", "http://"} {
		c.S3.Endpoint = strings.TrimPrefix(c.S3.Endpoint, scheme)
	}
	c.S3.Bucket = strings.TrimSpace(c.S3.Bucket)
	c.S3.Prefix = strings.TrimLeft(strings.TrimSpace(c.S3.Prefix), "/")
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
