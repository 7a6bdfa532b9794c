package composables_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/approvals/pkg/composables"
)

func TestWithLogger_RoundTrip(t *testing.T) {
	entry := logrus.New().WithField("request_id", "r-1")
	ctx := composables.WithLogger(context.Background(), entry)

	got := composables.UseLogger(ctx)
	require.Same(t, entry, got)
}

func TestUseLogger_FallsBackToStandard(t *testing.T) {
	got := composables.UseLogger(context.Background())
	require.NotNil(t, got)
	assert.Same(t, logrus.StandardLogger(), got.Logger)
}
