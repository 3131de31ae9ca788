package netutil

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxDomainNameSize = 253
)

// ValidateDomainName validates the string value as a domain name
func ValidateDomainName(value string) error {
	if len(value) == 0 {
		return errors.New("domain name is empty")
	}
	if len(value) > maxDomainNameSize {
		return errors.New("domain name length exceeds limit")
	}
	if _, err := idna.Registration.ToASCII(value); err != nil {
		return errors.Wrap(err, "domain name is invalid")
	}
	return nil
}

// GetAsciiBaseDomain gets the lower case ASCII base domain for a domain name,
// dropping any subdomains. For example, "Pay.Example.com" becomes "example.com".
func GetAsciiBaseDomain(domain string) (string, error) {
	if err := ValidateDomainName(domain); err != nil {
		return "", err
	}

	ascii, err := idna.Registration.ToASCII(domain)
	if err != nil {
		return "", errors.Wrap(err, "domain name is invalid")
	}

	parts := strings.Split(ascii, ".")
	if len(parts) < 2 {
		return "", errors.New("domain name must have base domain and tld")
	}
	return strings.ToLower(fmt.Sprintf("%s.%s", parts[len(parts)-2], parts[len(parts)-1])), nil
}

// GetDomainDisplayName gets the unicode, title cased version of a domain name
// suitable for display to a payer
func GetDomainDisplayName(domain string) (string, error) {
	if len(strings.Split(domain, ".")) < 2 {
		return "", errors.New("domain name must have base domain and tld")
	}

	displayName, err := idna.Display.ToUnicode(domain)
	if err != nil {
		return "", errors.Wrap(err, "error converting domain name to unicode")
	}

	parts := strings.Split(displayName, ".")
	withoutTld := strings.Join(parts[:len(parts)-1], ".")
	tld := parts[len(parts)-1]

	return fmt.Sprintf(
		"%s.%s",
		cases.Title(language.English, cases.NoLower).String(withoutTld),
		tld,
	), nil
}
