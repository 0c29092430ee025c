package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Default sensitive field patterns
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"otp",
	"token", "authorization",
	"secret", "api_key", "apikey",
}

const (
	maskChar        = "*"
	fixedMaskLength = 6
	maxDepth        = 10
)

// Desensitizer masks values of sensitive log fields.
type Desensitizer struct {
	fields []string
}

// NewDesensitizer creates a desensitizer for the given field name fragments,
// falling back to the defaults when none are given.
func NewDesensitizer(fields []string) *Desensitizer {
	if len(fields) == 0 {
		fields = defaultSensitiveFields
	}
	lower := make([]string, len(fields))
	for i, f := range fields {
		lower[i] = strings.ToLower(f)
	}
	return &Desensitizer{fields: lower}
}

// DesensitizeFields processes log fields and masks sensitive data
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > maxDepth {
		return value
	}
	if d.isSensitiveField(key) {
		return strings.Repeat(maskChar, fixedMaskLength)
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = d.desensitizeValue(k, item, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if d.isSensitiveField(k) {
				out[k] = strings.Repeat(maskChar, fixedMaskLength)
				continue
			}
			out[k] = item
		}
		return out
	default:
		return value
	}
}

func (d *Desensitizer) isSensitiveField(key string) bool {
	if key == "" {
		return false
	}
	k := strings.ToLower(key)
	for _, f := range d.fields {
		if strings.Contains(k, f) {
			return true
		}
	}
	return false
}
