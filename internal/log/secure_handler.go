package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"refresh_token": true,
	"private_key":   true,
	"secret_key":    true,

	// Session
	"session":    true,
	"session_id": true,

	// Credentials
	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// sensitivePatterns contains regex patterns that indicate sensitive values.
// Values matching these patterns will be sanitized regardless of key name.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// API keys (common formats)
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// AWS access keys
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),

	// Private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),

	// GitHub tokens
	regexp.MustCompile(`^gh[pousr]_[A-Za-z0-9]{20,}$`),
}

// hexPattern matches commit ids and digests, which are not secrets even
// though they are long alphanumeric strings.
var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler to sanitize sensitive information.
// It intercepts log records and sanitizes attribute values that match
// sensitive key names or value patterns before passing them to the
// underlying handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, the returned SecureHandler will use slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups
// and string-keyed maps.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(h.sanitizeAttrs(a.Value.Group())...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, sanitizeString(a.Value.String()))
	case slog.KindAny:
		if attrs, ok := mapAttrs(a.Value.Any()); ok {
			return slog.Attr{Key: a.Key, Value: slog.GroupValue(h.sanitizeAttrs(attrs)...)}
		}
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, redactURLs(err.Error()))
		}
	}

	return a
}

func (h *SecureHandler) sanitizeAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.sanitizeAttr(a)
	}
	return out
}

// mapAttrs converts a map with string keys (such as a stage configuration)
// into attributes sorted by key.
func mapAttrs(v any) ([]slog.Attr, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		val := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		attrs = append(attrs, slog.Any(k, val.Interface()))
	}
	return attrs, true
}

// commitKeys hold commit metadata that contain a sensitive keyword.
var commitKeys = map[string]bool{
	"author":       true,
	"author_email": true,
}

// containsSensitiveKeyword checks if the key contains sensitive keywords.
// The bare "key" keyword is excluded as it matches keys like "routing_key".
func containsSensitiveKeyword(key string) bool {
	if commitKeys[key] {
		return false
	}
	sensitiveKeywords := []string{
		"password", "passwd", "secret", "token", "auth",
		"credential", "private",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// sanitizeString masks a secret-looking value, or the password of any URL
// it contains.
func sanitizeString(value string) string {
	if isSensitiveValue(value) {
		return MaskValue
	}
	return redactURLs(value)
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	if hexPattern.MatchString(value) {
		return false
	}
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// urlPattern finds URLs with a userinfo part.
var urlPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s/@]*@[^\s]*`)

// redactURLs replaces the password of every URL with userinfo in s.
func redactURLs(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}
	return urlPattern.ReplaceAllStringFunc(s, func(raw string) string {
		// The pattern guarantees "://" before the first "@" and no "/" between them.
		start := strings.Index(raw, "://") + len("://")
		at := start + strings.IndexByte(raw[start:], '@')
		colon := strings.IndexByte(raw[start:at], ':')
		if colon < 0 {
			return raw
		}
		return raw[:start+colon+1] + MaskValue + raw[at:]
	})
}

// NewSecureLogger creates a new slog.Logger with secure handling.
// The logger writes text to w at Warn level, or Debug when verbose is set.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level(verbose),
	})))
}

// NewSecureJSONLogger creates a new slog.Logger with secure handling
// that outputs JSON format.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level(verbose),
	})))
}

// NewLogger returns a secure logger in the given format ("text" or "json").
func NewLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewSecureLogger(w, verbose), nil
	case "json":
		return NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
