package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nyaya/pkg/domain"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Actor(ctx))
	assert.Empty(t, Role(ctx))
	assert.Empty(t, RequestID(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestRoundTrip(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := WithActor(context.Background(), "IO_42", domain.RolePolice)
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, domain.ActorID("IO_42"), Actor(ctx))
	assert.Equal(t, domain.RolePolice, Role(ctx))
	assert.Equal(t, "req-9", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
