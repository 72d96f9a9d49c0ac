package logger

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("release mode", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")

		l := New(io.Discard)

		assert.Equal(t, logrus.InfoLevel, l.GetLevel())
		formatter, ok := l.Formatter.(*logrus.JSONFormatter)
		require.True(t, ok)
		assert.NotEmpty(t, formatter.TimestampFormat)
	})

	t.Run("development mode", func(t *testing.T) {
		t.Setenv("GIN_MODE", "debug")

		l := New(io.Discard)

		assert.Equal(t, logrus.DebugLevel, l.GetLevel())
		_, ok := l.Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
	})
}
