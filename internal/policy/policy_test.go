package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		resource Resource
		actorID  int64
		ownerID  int64
		want     bool
	}{
		{"any user can view posts", ActionView, ResourcePost, 2, 1, true},
		{"any user can list posts", ActionViewAny, ResourcePost, 2, 1, true},
		{"any user can create posts", ActionCreate, ResourcePost, 2, 0, true},
		{"owner can update own post", ActionUpdate, ResourcePost, 1, 1, true},
		{"non-owner cannot update post", ActionUpdate, ResourcePost, 2, 1, false},
		{"owner can delete own post", ActionDelete, ResourcePost, 1, 1, true},
		{"non-owner cannot delete post", ActionDelete, ResourcePost, 2, 1, false},
		{"any user can view comments", ActionView, ResourceComment, 2, 1, true},
		{"any user can create comments", ActionCreate, ResourceComment, 2, 0, true},
		{"owner can update own comment", ActionUpdate, ResourceComment, 5, 5, true},
		{"non-owner cannot update comment", ActionUpdate, ResourceComment, 5, 6, false},
		{"owner can delete own comment", ActionDelete, ResourceComment, 5, 5, true},
		{"non-owner cannot delete comment", ActionDelete, ResourceComment, 5, 6, false},
		{"unknown resource is denied", ActionView, Resource("like"), 1, 1, false},
		{"unknown action is denied", Action("forceDelete"), ResourcePost, 1, 1, false},
		{"zero actor never owns anything", ActionUpdate, ResourcePost, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allows(tt.action, tt.resource, tt.actorID, tt.ownerID)
			assert.Equal(t, tt.want, got)
		})
	}
}

type ownable struct{ owner int64 }

func (o ownable) OwnerID() int64 { return o.owner }

func TestAllowsOn(t *testing.T) {
	assert.True(t, AllowsOn(ActionUpdate, ResourcePost, 7, ownable{owner: 7}))
	assert.False(t, AllowsOn(ActionUpdate, ResourcePost, 8, ownable{owner: 7}))
	assert.True(t, AllowsOn(ActionView, ResourceComment, 8, ownable{owner: 7}))
}
