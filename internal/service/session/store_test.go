package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreira/supportchat/internal/model/chat"
	"github.com/nmoreira/supportchat/internal/service/session"
)

func TestCreate(t *testing.T) {
	store := session.NewStore()

	id := store.Create()
	require.NotEmpty(t, id)
	assert.Empty(t, store.History(id))
	assert.Equal(t, 1, store.Len())

	other := store.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, store.Len())
}

func TestAppendKnownSession(t *testing.T) {
	store := session.NewStore()
	id := store.Create()

	got, created := store.Append(id, chat.RoleUser, "hola")
	assert.Equal(t, id, got)
	assert.False(t, created)

	turns := store.History(id)
	require.Len(t, turns, 1)
	assert.Equal(t, chat.Turn{Role: chat.RoleUser, Content: "hola"}, turns[0])
}

func TestAppendUnknownSessionCreatesExactlyOne(t *testing.T) {
	store := session.NewStore()

	got, created := store.Append("no-such-id", chat.RoleUser, "hola")
	assert.True(t, created)
	assert.NotEqual(t, "no-such-id", got)
	assert.Equal(t, 1, store.Len())

	turns := store.History(got)
	require.Len(t, turns, 1)
	assert.Equal(t, "hola", turns[0].Content)

	// The original id never came into existence.
	assert.Nil(t, store.History("no-such-id"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := session.NewStore()
	id, _ := store.Append("", chat.RoleUser, "primero")

	turns := store.History(id)
	turns[0].Content = "mutado"

	fresh := store.History(id)
	assert.Equal(t, "primero", fresh[0].Content)
}

func TestClear(t *testing.T) {
	store := session.NewStore()
	id, _ := store.Append("", chat.RoleUser, "hola")

	assert.True(t, store.Clear(id))
	assert.Empty(t, store.History(id))
	// Session itself survives a clear.
	assert.Equal(t, 1, store.Len())

	assert.False(t, store.Clear("missing"))
	assert.Equal(t, 1, store.Len())
}

func TestDelete(t *testing.T) {
	store := session.NewStore()
	id := store.Create()

	assert.True(t, store.Delete(id))
	assert.False(t, store.Delete(id))
	assert.Nil(t, store.History(id))
	assert.Equal(t, 0, store.Len())
}

func TestSweepExpired(t *testing.T) {
	store := session.NewStore()
	id := store.Create()

	// Evaluated as of "now": a session idle 3601s is collected, one idle
	// 3599s survives.
	future := time.Now().Add(3601 * time.Second)
	deleted := store.SweepExpired(future, 3600*time.Second)
	assert.Equal(t, 1, deleted)
	assert.Nil(t, store.History(id))

	survivor := store.Create()
	nearFuture := time.Now().Add(3599 * time.Second)
	deleted = store.SweepExpired(nearFuture, 3600*time.Second)
	assert.Equal(t, 0, deleted)
	assert.NotNil(t, store.History(survivor))
}
