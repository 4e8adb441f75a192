package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstack/pkg/notification"
)

func TestConstructorsValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		message string
		wantErr bool
	}{
		{name: "valid", key: "USER_NOT_FOUND", message: "user not found", wantErr: false},
		{name: "empty key", key: "", message: "user not found", wantErr: true},
		{name: "empty message", key: "USER_NOT_FOUND", message: "", wantErr: true},
		{name: "both empty", key: "", message: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errC := notification.NewCritical(tc.key, tc.message)
			_, errW := notification.NewWarning(tc.key, tc.message)
			_, errI := notification.NewInformation(tc.key, tc.message)

			if tc.wantErr {
				assert.Error(t, errC)
				assert.Error(t, errW)
				assert.Error(t, errI)
			} else {
				assert.NoError(t, errC)
				assert.NoError(t, errW)
				assert.NoError(t, errI)
			}
		})
	}
}

func TestContextKindViews(t *testing.T) {
	ctx := notification.NewContext()

	warn, err := notification.NewWarning("SLOW_RESPONSE", "upstream took too long")
	require.NoError(t, err)
	crit, err := notification.NewCritical("BALANCE_NEGATIVE", "balance must not go negative")
	require.NoError(t, err)

	ctx.Add(warn)
	ctx.Add(crit)

	assert.True(t, ctx.HasErrors())
	assert.True(t, ctx.HasWarnings())
	assert.False(t, ctx.HasInformations())
	assert.Len(t, ctx.Errors(), 1)
	assert.Len(t, ctx.Warnings(), 1)
	assert.Equal(t, "BALANCE_NEGATIVE", ctx.Errors()[0].Key())
	assert.Equal(t, "SLOW_RESPONSE", ctx.Warnings()[0].Key())
}

func TestContextClearKind(t *testing.T) {
	ctx := notification.NewContext()

	warn, _ := notification.NewWarning("SLOW_RESPONSE", "upstream took too long")
	crit, _ := notification.NewCritical("BALANCE_NEGATIVE", "balance must not go negative")
	ctx.AddRange([]notification.Notification{warn, crit})

	notification.ClearKind[notification.Warning](ctx)

	assert.False(t, ctx.HasWarnings())
	assert.True(t, ctx.HasErrors())
	assert.Len(t, ctx.All(), 1)
	assert.Equal(t, "BALANCE_NEGATIVE", ctx.All()[0].Key())
}

func TestContextClear(t *testing.T) {
	ctx := notification.NewContext()

	info, _ := notification.NewInformation("CACHE_MISS", "entity loaded from primary store")
	ctx.Add(info)
	require.True(t, ctx.HasNotifications())

	ctx.Clear()

	assert.False(t, ctx.HasNotifications())
	assert.Empty(t, ctx.All())
}

func TestContextInsertionOrder(t *testing.T) {
	ctx := notification.NewContext()

	first, _ := notification.NewCritical("FIRST", "first failure")
	second, _ := notification.NewCritical("SECOND", "second failure")
	ctx.Add(first)
	ctx.Add(second)

	errs := ctx.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "FIRST", errs[0].Key())
	assert.Equal(t, "SECOND", errs[1].Key())
}
