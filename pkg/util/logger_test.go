package util_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/novacreations/nova-hr/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("development enables debug", func(t *testing.T) {
		logger := util.NewLogger("development")
		assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
	})

	t.Run("production stays at info", func(t *testing.T) {
		logger := util.NewLogger("production")
		assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
		assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	})
}
