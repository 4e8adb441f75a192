package meta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearstack/pkg/meta"
)

func TestInjectMetaToContext(t *testing.T) {
	ctx := meta.InjectMetaToContext(context.Background(), map[meta.ContextKey]string{
		meta.TraceID:       "trace-123",
		meta.ServiceName:   "billing",
		meta.OperationName: "",
	})

	assert.Equal(t, "trace-123", ctx.Value(meta.TraceID))
	assert.Equal(t, "billing", ctx.Value(meta.ServiceName))
	assert.Nil(t, ctx.Value(meta.OperationName), "empty values must not be injected")
}

func TestExtractMetaFromContext(t *testing.T) {
	ctx := meta.InjectMetaToContext(context.Background(), map[meta.ContextKey]string{
		meta.TraceID:       "trace-123",
		meta.RequestUserID: "42",
	})

	data := meta.ExtractMetaFromContext(ctx)

	assert.Equal(t, map[meta.ContextKey]string{
		meta.TraceID:       "trace-123",
		meta.RequestUserID: "42",
	}, data)
}

func TestExtractMetaFromContext_Empty(t *testing.T) {
	data := meta.ExtractMetaFromContext(context.Background())
	assert.Empty(t, data)
}
