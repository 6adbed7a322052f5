package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// excerptLen caps how much of an offending value lands in the audit log.
const excerptLen = 100

var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bselect\b[\s\S]+\bfrom\b`),
	regexp.MustCompile(`(?i)\bunion\b[\s\S]*\bselect\b`),
	regexp.MustCompile(`(?i)\bdrop\s+table\b`),
	regexp.MustCompile(`(?i)\binsert\s+into\b`),
	regexp.MustCompile(`(?i)\bdelete\s+from\b`),
	regexp.MustCompile(`(?i)\bupdate\b[\s\S]+\bset\b`),
	regexp.MustCompile(`(--|;--|/\*)`),
	regexp.MustCompile(`;\s*(?i:select|insert|update|delete|drop|alter|create)\b`),
	regexp.MustCompile(`(?i)information_schema`),
	regexp.MustCompile(`(?i)\b(sleep|pg_sleep|benchmark|waitfor\s+delay)\s*\(?`),
}

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)document\s*\.\s*cookie`),
	regexp.MustCompile(`(?i)<\s*iframe`),
}

// emailHTMLPatterns is the narrower check applied to email routes, whose
// payloads legitimately carry markup.
var emailHTMLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*iframe`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon(error|load|click|mouseover)\s*=`),
}

// schemaRoutePaths legitimately carry SQL-shaped payloads; SQL scanning is
// skipped there but XSS scanning stays on.
var schemaRoutePaths = []string{"/generate-schema", "/modify-schema", "/create-api-from-schema"}

func isSchemaRoute(path string) bool {
	for _, p := range schemaRoutePaths {
		if path == p || strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

func isEmailRoute(path string) bool {
	return strings.HasPrefix(path, "/api/email/") || path == "/api/email"
}

// finding is one pattern hit inside a request payload.
type finding struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Pattern string `json:"pattern"`
	Excerpt string `json:"excerpt"`
}

func excerpt(s string) string {
	if len(s) > excerptLen {
		return s[:excerptLen]
	}
	return s
}

func scanString(field, value string, checkSQL, checkXSS bool, out *[]finding) {
	if checkSQL {
		for _, re := range sqlPatterns {
			if re.MatchString(value) {
				*out = append(*out, finding{Field: field, Kind: "sql", Pattern: re.String(), Excerpt: excerpt(value)})
				return
			}
		}
	}
	if checkXSS {
		for _, re := range xssPatterns {
			if re.MatchString(value) {
				*out = append(*out, finding{Field: field, Kind: "xss", Pattern: re.String(), Excerpt: excerpt(value)})
				return
			}
		}
	}
}

// scanValue walks structured payloads depth-first.
func scanValue(field string, v interface{}, checkSQL, checkXSS bool, out *[]finding) {
	switch val := v.(type) {
	case string:
		scanString(field, val, checkSQL, checkXSS, out)
	case map[string]interface{}:
		for k, child := range val {
			scanValue(field+"."+k, child, checkSQL, checkXSS, out)
		}
	case []interface{}:
		for i, child := range val {
			scanValue(fmt.Sprintf("%s[%d]", field, i), child, checkSQL, checkXSS, out)
		}
	}
}

// sanitizeValue HTML-escapes every string leaf except password fields.
func sanitizeValue(field string, v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if strings.EqualFold(field, "password") {
			return val
		}
		return html.EscapeString(val)
	case map[string]interface{}:
		for k, child := range val {
			val[k] = sanitizeValue(k, child)
		}
		return val
	case []interface{}:
		for i, child := range val {
			val[i] = sanitizeValue(field, child)
		}
		return val
	default:
		return v
	}
}

func scanMaliciousHTML(field, value string, out *[]finding) {
	for _, re := range emailHTMLPatterns {
		if re.MatchString(value) {
			*out = append(*out, finding{Field: field, Kind: "email_html", Pattern: re.String(), Excerpt: excerpt(value)})
			return
		}
	}
}

func scanEmailValue(field string, v interface{}, out *[]finding) {
	switch val := v.(type) {
	case string:
		scanMaliciousHTML(field, val, out)
	case map[string]interface{}:
		for k, child := range val {
			scanEmailValue(field+"."+k, child, out)
		}
	case []interface{}:
		for i, child := range val {
			scanEmailValue(fmt.Sprintf("%s[%d]", field, i), child, out)
		}
	}
}

// ScannerConfig holds the dependencies of the input scanner.
type ScannerConfig struct {
	Security  config.SecurityConfig
	Blacklist domainRepo.BlacklistRepository
	Audit     *usecase.AuditService
	Logger    *zap.Logger
}

// InputScanner inspects query parameters and JSON bodies for injection
// payloads before handlers run. Offending requests are refused with a 400
// and audited; repeated attempts from one IP escalate to a 24 hour block.
// Clean requests on non-carved routes have their string fields HTML-escaped.
func InputScanner(cfg ScannerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			emailRoute := isEmailRoute(path)
			checkSQL := !emailRoute && !isSchemaRoute(path)
			checkXSS := !emailRoute

			var findings []finding

			query := req.URL.Query()
			for key, values := range query {
				for _, v := range values {
					if emailRoute {
						scanMaliciousHTML("query."+key, v, &findings)
					} else {
						scanString("query."+key, v, checkSQL, checkXSS, &findings)
					}
				}
			}

			var body map[string]interface{}
			hasJSONBody := false
			if req.Body != nil && strings.Contains(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
				raw, err := io.ReadAll(req.Body)
				if err != nil {
					return apperrors.NewAppError(apperrors.ErrBadRequest, "Failed to read request body", err)
				}
				req.Body = io.NopCloser(bytes.NewReader(raw))
				if len(bytes.TrimSpace(raw)) > 0 {
					if err := json.Unmarshal(raw, &body); err == nil {
						hasJSONBody = true
						if emailRoute {
							scanEmailValue("body", body, &findings)
						} else {
							scanValue("body", body, checkSQL, checkXSS, &findings)
						}
					}
				}
			}

			if len(findings) > 0 {
				return rejectScan(c, cfg, findings, emailRoute)
			}

			if !emailRoute && !isSchemaRoute(path) {
				if hasJSONBody {
					sanitized := sanitizeValue("", body).(map[string]interface{})
					raw, err := json.Marshal(sanitized)
					if err == nil {
						req.Body = io.NopCloser(bytes.NewReader(raw))
						req.ContentLength = int64(len(raw))
					}
				}
				if sanitizeQuery(query) {
					req.URL.RawQuery = query.Encode()
				}
			}

			return next(c)
		}
	}
}

func sanitizeQuery(query url.Values) bool {
	changed := false
	for key, values := range query {
		if strings.EqualFold(key, "password") {
			continue
		}
		for i, v := range values {
			if escaped := html.EscapeString(v); escaped != v {
				values[i] = escaped
				changed = true
			}
		}
		query[key] = values
	}
	return changed
}

func rejectScan(c echo.Context, cfg ScannerConfig, findings []finding, emailRoute bool) error {
	req := c.Request()
	ip := c.RealIP()

	eventType := apperrors.ErrInjectionAttempt
	if emailRoute {
		eventType = apperrors.ErrEmailMaliciousContent
	} else if findings[0].Kind == "xss" {
		eventType = apperrors.ErrXSSAttempt
	}

	detection := map[string]interface{}{"findings": findings}
	cfg.Audit.RecordSecurityEvent(usecase.SecurityEvent{
		IP:        ip,
		Method:    req.Method,
		Path:      req.URL.Path,
		Type:      eventType,
		Detection: detection,
		Details:   fmt.Sprintf("%d suspicious value(s) in request payload", len(findings)),
	})

	if eventType == apperrors.ErrInjectionAttempt {
		since := time.Now().Add(-cfg.Security.ScannerStrikeSpan)
		count, err := cfg.Audit.CountRecentByType(req.Context(), ip, apperrors.ErrInjectionAttempt, since)
		if err != nil {
			cfg.Logger.Error("Failed to count injection attempts", zap.String("ip", ip), zap.Error(err))
		} else if count+1 >= int64(cfg.Security.ScannerStrikes) {
			expires := time.Now().Add(cfg.Security.ScannerBanDuration)
			entry := &model.IpBlacklistEntry{
				IP:        ip,
				Reason:    "Repeated injection attempts",
				CreatedBy: "input-scanner",
				ExpiresAt: &expires,
			}
			if err := cfg.Blacklist.Insert(req.Context(), entry); err != nil {
				cfg.Logger.Error("Failed to blacklist scanning IP", zap.String("ip", ip), zap.Error(err))
			} else {
				cfg.Logger.Warn("IP blocked after repeated injection attempts", zap.String("ip", ip))
			}
		}
	}

	return apperrors.NewAppError(eventType, "Invalid input", nil)
}
