// Package extract converts uploaded files and web pages into plain text for
// ingestion. Absence of extractable content is a distinct outcome from a
// transport or read failure.
package extract

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/docqa-labs/docqa/internal/domain"
)

const (
	fetchTimeout  = 30 * time.Second
	maxFetchBytes = 10 << 20
)

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)

	urlPattern = regexp.MustCompile(`(?i)^(https?://)?` +
		`((([a-z\d]([a-z\d-]*[a-z\d])*)\.)+[a-z]{2,}|` +
		`((\d{1,3}\.){3}\d{1,3})|` +
		`localhost)` +
		`(:\d+)?` +
		`(/[-a-z\d%_.~+]*)*` +
		`(\?[;&a-z\d%_.~+=-]*)?` +
		`(#[-a-z\d_]*)?$`)
)

// IsValidURL reports whether raw looks like a fetchable http(s) URL.
func IsValidURL(raw string) bool {
	return urlPattern.MatchString(strings.TrimSpace(raw))
}

// NormalizeURL prepends an https scheme when raw has none.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// FromFile reads a plain-text document from disk. originalName carries the
// user-facing filename whose extension decides the file type. ok=false
// means the file held no extractable content; err covers read failures and
// unsupported types.
func FromFile(path, originalName string) (string, bool, error) {
	if !strings.HasSuffix(strings.ToLower(originalName), ".txt") {
		return "", false, domain.ErrUnsupportedFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}

// FromURL fetches url and extracts its readable text content. ok=false
// signals the page yielded no extractable content; err covers transport
// failures and non-2xx responses.
func FromURL(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "docqa/1.0")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", false, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "could not fetch content from URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, domain.NewDomainError(domain.ErrCodeValidation, fmt.Sprintf("could not fetch content from URL: status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", false, fmt.Errorf("failed to read response body: %w", err)
	}

	text := StripHTML(string(body))
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

// StripHTML removes markup and extracts readable text content.
func StripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block-level tags become newlines so paragraphs survive stripping
	content = blockElements.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
