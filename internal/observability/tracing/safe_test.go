package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsPersonalData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/users/:id"),
		attribute.String("email", "jane@example.com"),
		attribute.String("phone_no", "+100"),
	)

	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorRedactsSecretKeys(t *testing.T) {
	err := SafeError(errors.New("invalid api key provided: sk_test_abc"))
	assert.Equal(t, "invalid api key provided: [redacted]", err.Error())
	assert.Nil(t, SafeError(nil))
}
