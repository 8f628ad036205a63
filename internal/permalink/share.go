package permalink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	shareRoute = "#!/import-export"
	queryKey   = "permalink"
)

// ShareURL builds the link a browser opens to import a permalink.
func ShareURL(base, permalink string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "#")
	return base + shareRoute + "?" + queryKey + "=" + url.QueryEscape(permalink)
}

// Extract returns the permalink from either a bare permalink or a share URL.
func Extract(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty permalink")
	}
	if !strings.Contains(input, queryKey+"=") {
		return input, nil
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("parse share url: %w", err)
	}
	if value := parsed.Query().Get(queryKey); value != "" {
		return value, nil
	}
	// Hash-bang routes keep the query inside the fragment.
	if _, query, ok := strings.Cut(parsed.EscapedFragment(), "?"); ok {
		values, err := url.ParseQuery(query)
		if err != nil {
			return "", fmt.Errorf("parse share url fragment: %w", err)
		}
		if value := values.Get(queryKey); value != "" {
			return value, nil
		}
	}
	return "", errors.New("share url carries no permalink")
}
