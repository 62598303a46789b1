// Package redact masks secrets in MCP server definitions before they are
// printed or logged.
//
// Environment variable names, command-line flags and literal values are each
// checked: a name or flag that looks sensitive (TOKEN, KEY, SECRET, ...) masks
// its value, and a value carrying a well-known token prefix is masked no
// matter where it appears.
package redact

import (
	"net/url"
	"strings"
)

// SecretKeyPatterns contains substrings that indicate a key likely contains sensitive data.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes contains known API token prefixes that indicate sensitive values
// regardless of key name.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
	"glpat-",
}

// Env masks sensitive values in an environment variable map.
// Returns a new map; the input is not modified.
func Env(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}

	masked := make(map[string]string, len(env))
	for k, v := range env {
		if ShouldMask(k) || ContainsTokenPrefix(v) {
			masked[k] = Value(v)
		} else {
			masked[k] = urlValue(v)
		}
	}
	return masked
}

// Args masks secrets in a command argument list. It handles three shapes:
//
//	--api-key=sk-123   (inline flag value)
//	--token sk-123     (value following a sensitive flag)
//	ghp_abc            (bare value with a known token prefix)
//
// URLs with embedded passwords are masked too. Returns a new slice.
func Args(args []string) []string {
	if args == nil {
		return nil
	}

	out := make([]string, len(args))
	maskNext := false
	for i, arg := range args {
		switch {
		case maskNext:
			out[i] = Value(arg)
			maskNext = false
		case strings.HasPrefix(arg, "-"):
			name, val, inline := strings.Cut(arg, "=")
			flag := strings.TrimLeft(name, "-")
			switch {
			case inline && ShouldMask(flag):
				out[i] = name + "=" + Value(val)
			case inline:
				out[i] = name + "=" + urlValue(val)
			default:
				out[i] = arg
				maskNext = ShouldMask(flag)
			}
		case ContainsTokenPrefix(arg):
			out[i] = Value(arg)
		default:
			out[i] = urlValue(arg)
		}
	}
	return out
}

// Value masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func Value(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// urlValue masks the password of a URL with embedded credentials. Anything
// that is not such a URL is returned unchanged.
func urlValue(raw string) string {
	if !strings.Contains(raw, "://") || !strings.Contains(raw, "@") {
		return raw
	}
	return URL(raw)
}

// URL redacts credentials from URLs.
// URLs with embedded credentials (user:pass@host) become (user:****@host).
// If the URL cannot be parsed, it is returned unchanged.
func URL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	// splice the mask into the original text; url.URL.String would
	// percent-escape the asterisks
	start := strings.Index(rawURL, "://") + 3
	end := len(rawURL)
	if i := strings.IndexAny(rawURL[start:], "/?#"); i >= 0 {
		end = start + i
	}
	at := strings.LastIndexByte(rawURL[start:end], '@')
	if at < 0 {
		return rawURL
	}
	user, _, ok := strings.Cut(rawURL[start:start+at], ":")
	if !ok {
		return rawURL
	}
	return rawURL[:start] + user + ":" + Value(password) + rawURL[start+at:]
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
// Matching is case-insensitive.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
