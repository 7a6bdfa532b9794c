package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := DatabaseOptions{
		Name:     "approvals_test",
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "secret",
	}
	assert.Equal(
		t,
		"host=db.internal port=5433 user=svc dbname=approvals_test password=secret sslmode=disable",
		opts.ConnectionString(),
	)
}

func TestConfiguration_LogrusLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want logrus.Level
	}{
		{"silent", logrus.PanicLevel},
		{"error", logrus.ErrorLevel},
		{"warn", logrus.WarnLevel},
		{"info", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"bogus", logrus.ErrorLevel},
	}
	for _, tc := range cases {
		c := &Configuration{LogLevel: tc.in}
		assert.Equal(t, tc.want, c.LogrusLogLevel(), "level %q", tc.in)
	}
}

func TestConfiguration_Scheme(t *testing.T) {
	c := &Configuration{GoAppEnvironment: Production}
	require.Equal(t, "https", c.Scheme())

	c = &Configuration{GoAppEnvironment: "development"}
	require.Equal(t, "http", c.Scheme())
}

func TestLoadEnv_NoFiles(t *testing.T) {
	n, err := LoadEnv([]string{"does-not-exist.env"})
	require.NoError(t, err)
	require.Zero(t, n)
}
