package blobhost

import (
	"fmt"
	"log/slog"
	"net/http"

	"pocketaria/internal/config"
)

// FromConfig builds the uploader selected by permalink.host.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Uploader, error) {
	switch cfg.Permalink.Host {
	case config.HostLitterbox, "":
		return NewLitterbox(LitterboxConfig{
			Endpoint:   cfg.Litterbox.Endpoint,
			Retention:  cfg.Permalink.Retention,
			HTTPClient: &http.Client{Timeout: cfg.LitterboxTimeout()},
			Logger:     logger,
		})
	case config.HostS3:
		return NewS3(S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Prefix:    cfg.S3.Prefix,
			Retention: cfg.RetentionDuration(),
			Logger:    logger,
		})
	default:
		return nil, fmt.Errorf("unknown permalink host %q", cfg.Permalink.Host)
	}
}
