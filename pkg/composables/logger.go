package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/pkg/constants"
)

func WithLogger(ctx context.Context, log *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, log)
}

// UseLogger returns the request-scoped logger. Outside of a request it falls
// back to the standard logger so callers never receive nil.
func UseLogger(ctx context.Context) *logrus.Entry {
	log, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return log
}
