package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIDFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	log.Info("invoice created", InvoiceID("500"), UserID(" 100 "), ProductID("prod_123"))
	log.Info("user deleted", UserID("100"), InvoiceID(""))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{
		"invoice_id": "500",
		"user_id":    "100",
		"product_id": "prod_123",
	}, entries[0].ContextMap())
	assert.Equal(t, map[string]any{"user_id": "100"}, entries[1].ContextMap())
}
