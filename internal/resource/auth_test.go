package resource

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// ownerPermission allows object access only to the owner subject.
type ownerPermission struct{ owner string }

func (p ownerPermission) HasPermission(ctx context.Context, req *Request) bool { return true }

func (p ownerPermission) HasObjectPermission(ctx context.Context, req *Request, obj any) bool {
	return req.Identity.Subject == p.owner
}

// coarseOnly implements Permission but not ObjectPermission.
type coarseOnly struct{}

func (coarseOnly) HasPermission(ctx context.Context, req *Request) bool { return false }

func TestCheckObjectPermissions(t *testing.T) {
	ctx := context.Background()
	perms := []Permission{coarseOnly{}, ownerPermission{owner: "alice"}}

	t.Run("owner passes", func(t *testing.T) {
		req := NewRequest(ActionUpdate, nil, nil, Identity{Subject: "alice"}, nil)
		assert.NoError(t, CheckObjectPermissions(ctx, req, perms, "obj"))
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		req := NewRequest(ActionUpdate, nil, nil, Identity{Subject: "bob"}, nil)
		err := CheckObjectPermissions(ctx, req, perms, "obj")
		denied, ok := AsDenied(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, denied.Status)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		req := NewRequest(ActionUpdate, nil, nil, Anonymous, nil)
		err := CheckObjectPermissions(ctx, req, perms, "obj")
		denied, ok := AsDenied(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, denied.Status)
	})

	t.Run("coarse-only permissions are skipped", func(t *testing.T) {
		req := NewRequest(ActionUpdate, nil, nil, Identity{Subject: "bob"}, nil)
		assert.NoError(t, CheckObjectPermissions(ctx, req, []Permission{coarseOnly{}}, "obj"))
	})
}

func TestRateThrottle(t *testing.T) {
	ctx := context.Background()
	req := NewRequest(ActionList, nil, nil, Anonymous, nil)

	// Zero refill with burst 2: the third call must be denied.
	throttle := NewRateThrottle(rate.Limit(0), 2, "test")
	require.NoError(t, throttle.Allow(ctx, req))
	require.NoError(t, throttle.Allow(ctx, req))

	err := throttle.Allow(ctx, req)
	denied, ok := AsDenied(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, denied.Status)
	assert.Contains(t, denied.Message, `scope "test"`)
}
