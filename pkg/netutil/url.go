package netutil

import (
	"net/url"

	"github.com/pkg/errors"
)

// ValidateHttpUrl validates a URL for an HTTP scheme. No network calls are
// made, so the host is only checked for being a well-formed domain name.
func ValidateHttpUrl(value string, requireSecureConnection bool) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}

	if len(parsed.Scheme) == 0 {
		// Add a HTTP scheme by default
		parsed, err = url.Parse("http://" + value)
		if err != nil {
			return err
		}
	}

	if requireSecureConnection && parsed.Scheme != "https" {
		return errors.New("url scheme must be https")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}

	if len(parsed.Host) == 0 {
		return errors.New("host component missing")
	} else if err := ValidateDomainName(parsed.Hostname()); err != nil {
		return errors.Wrap(err, "host is not a valid domain name")
	}

	return nil
}
