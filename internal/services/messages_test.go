package services

import (
	"context"
	"testing"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageNotifiesReceiver(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")

	message, err := f.messages.Send(context.Background(), alice.ID, bob.ID, "hey", false)
	require.NoError(t, err)
	assert.NotNil(t, message.Sent)

	notes := f.dispatcher.ofType("MESSAGE")
	require.Len(t, notes, 1)
	assert.Equal(t, bob.ID, notes[0].users[0])
}

func TestSendReplacesDrafts(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")

	draft, err := f.messages.Send(context.Background(), alice.ID, bob.ID, "dra", true)
	require.NoError(t, err)
	assert.Nil(t, draft.Sent)
	assert.Empty(t, f.dispatcher.sent, "drafts are silent")

	_, err = f.messages.Send(context.Background(), alice.ID, bob.ID, "final version", false)
	require.NoError(t, err)

	_, err = (memMessages{f.stores}).ByID(draft.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestThreadHidesOtherSidesDrafts(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")

	_, err := f.messages.Send(context.Background(), alice.ID, bob.ID, "sent one", false)
	require.NoError(t, err)
	_, err = f.messages.Send(context.Background(), bob.ID, alice.ID, "bob draft", true)
	require.NoError(t, err)

	thread, err := f.messages.Thread(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "sent one", thread[0].Body)

	// Bob still sees his own draft.
	thread, err = f.messages.Thread(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 2)
}

func TestThreadMarksOpened(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")

	message, err := f.messages.Send(context.Background(), alice.ID, bob.ID, "hello", false)
	require.NoError(t, err)

	_, err = f.messages.Thread(bob.ID, alice.ID)
	require.NoError(t, err)

	stored, err := (memMessages{f.stores}).ByID(message.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Opened)
}

func TestDeletePerSide(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	carol := f.stores.addUser("carol")

	message, err := f.messages.Send(context.Background(), alice.ID, bob.ID, "hello", false)
	require.NoError(t, err)

	assert.ErrorIs(t, f.messages.Delete(message.ID, carol.ID), models.ErrForbidden)
	require.NoError(t, f.messages.Delete(message.ID, alice.ID))

	// Gone from alice's thread, still in bob's.
	thread, err := f.messages.Thread(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
	thread, err = f.messages.Thread(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 1)
}

func TestSendToSelfRejected(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")

	_, err := f.messages.Send(context.Background(), alice.ID, alice.ID, "note", false)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
