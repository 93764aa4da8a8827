package logger

import (
	"strings"

	"go.uber.org/zap"
)

// UserID tags a log line with the user it concerns.
func UserID(id string) zap.Field {
	return idField("user_id", id)
}

// InvoiceID tags a log line with the invoice it concerns.
func InvoiceID(id string) zap.Field {
	return idField("invoice_id", id)
}

// ProductID tags a log line with a payment provider product.
func ProductID(id string) zap.Field {
	return idField("product_id", id)
}

func idField(key, id string) zap.Field {
	id = strings.TrimSpace(id)
	if id == "" {
		return zap.Skip()
	}
	return zap.String(key, id)
}
