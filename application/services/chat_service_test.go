package services

import (
	"context"
	"testing"

	"meetgraph/domain/connection"
	apperrors "meetgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, env *testEnv, from, to string) {
	t.Helper()
	sent, err := env.connections.SendRequest(context.Background(), from, to, connection.StatusInterested)
	require.NoError(t, err)
	_, err = env.connections.ReviewRequest(context.Background(), to, sent.ID, connection.StatusAccepted)
	require.NoError(t, err)
}

func TestSendMessage_BetweenConnectedUsers(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"))
	ctx := context.Background()
	connect(t, env, "u1", "u2")

	msg, err := env.chat.SendMessage(ctx, "u1", "u2", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)

	thread, err := env.chat.GetThread(ctx, "u2", "u1")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "u1", thread[0].SenderID)
}

func TestSendMessage_RequiresAcceptedConnection(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"))
	ctx := context.Background()

	_, err := env.chat.SendMessage(ctx, "u1", "u2", "hello")
	assert.True(t, apperrors.IsForbidden(err), "no edge at all")

	_, err = env.connections.SendRequest(ctx, "u1", "u2", connection.StatusInterested)
	require.NoError(t, err)

	_, err = env.chat.SendMessage(ctx, "u1", "u2", "hello")
	assert.True(t, apperrors.IsForbidden(err), "pending edge is not enough")
}

func TestSendMessage_Validation(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"))
	ctx := context.Background()
	connect(t, env, "u1", "u2")

	_, err := env.chat.SendMessage(ctx, "u1", "u2", "")
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.chat.SendMessage(ctx, "u1", "u1", "hi me")
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetThread_NewMessageInvalidatesBothViews(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"))
	ctx := context.Background()
	connect(t, env, "u1", "u2")

	_, err := env.chat.SendMessage(ctx, "u1", "u2", "first")
	require.NoError(t, err)

	// Warm both viewers' cached threads.
	for _, viewer := range []struct{ a, b string }{{"u1", "u2"}, {"u2", "u1"}} {
		thread, err := env.chat.GetThread(ctx, viewer.a, viewer.b)
		require.NoError(t, err)
		require.Len(t, thread, 1)
	}

	_, err = env.chat.SendMessage(ctx, "u2", "u1", "second")
	require.NoError(t, err)

	for _, viewer := range []struct{ a, b string }{{"u1", "u2"}, {"u2", "u1"}} {
		thread, err := env.chat.GetThread(ctx, viewer.a, viewer.b)
		require.NoError(t, err)
		assert.Len(t, thread, 2, "viewer %s must see the new message", viewer.a)
	}
}
