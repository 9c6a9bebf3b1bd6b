package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostIsTerminal(t *testing.T) {
	assert.False(t, (&Post{Status: PostStatusQueued}).IsTerminal())
	assert.True(t, (&Post{Status: PostStatusPosted}).IsTerminal())
	assert.True(t, (&Post{Status: PostStatusFailed}).IsTerminal())
	assert.True(t, (&Post{Status: PostStatusCancelled}).IsTerminal())
}

func TestPostCanTransitionTo(t *testing.T) {
	queued := &Post{Status: PostStatusQueued}
	assert.True(t, queued.CanTransitionTo(PostStatusPosted))
	assert.True(t, queued.CanTransitionTo(PostStatusFailed))
	assert.True(t, queued.CanTransitionTo(PostStatusCancelled))
	assert.False(t, queued.CanTransitionTo(PostStatusQueued))
	assert.False(t, queued.CanTransitionTo("draft"))

	// terminal states never transition again
	for _, status := range []string{PostStatusPosted, PostStatusFailed, PostStatusCancelled} {
		p := &Post{Status: status}
		assert.False(t, p.CanTransitionTo(PostStatusQueued), "from %s", status)
		assert.False(t, p.CanTransitionTo(PostStatusPosted), "from %s", status)
		assert.False(t, p.CanTransitionTo(PostStatusFailed), "from %s", status)
	}
}

func TestPostEditAndDeleteRules(t *testing.T) {
	assert.True(t, (&Post{Status: PostStatusQueued}).CanEdit())
	assert.False(t, (&Post{Status: PostStatusFailed}).CanEdit())
	assert.False(t, (&Post{Status: PostStatusPosted}).CanEdit())

	assert.True(t, (&Post{Status: PostStatusQueued}).CanDelete())
	assert.True(t, (&Post{Status: PostStatusFailed}).CanDelete())
	assert.True(t, (&Post{Status: PostStatusCancelled}).CanDelete())
	assert.False(t, (&Post{Status: PostStatusPosted}).CanDelete())
}

func TestResolveFinalCaption(t *testing.T) {
	assert.Equal(t, "custom", ResolveFinalCaption("base", "variation", "custom"))
	assert.Equal(t, "variation", ResolveFinalCaption("base", "variation", ""))
	assert.Equal(t, "base", ResolveFinalCaption("base", "", ""))
}
