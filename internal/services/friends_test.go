package services

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) checkIn(eventID, userID uuid.UUID) {
	member, err := (memMembers{f.stores}).Get(eventID, userID)
	if err != nil {
		member = &models.EventMember{
			EventID: eventID, UserID: userID,
			Status: models.MemberAccepted, ViewedEvent: time.Now(),
		}
		if err := (memMembers{f.stores}).Create(member); err != nil {
			panic(err)
		}
	}
	now := time.Now().UTC()
	member.CheckedIn = &now
}

func TestAssignFriendsCreatesPairwiseEdges(t *testing.T) {
	f := newFixture()
	owner := f.stores.addUser("owner")
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	event := f.addEvent(owner, time.Now().Add(-6*time.Hour), 52.52, 13.405, nil)

	f.checkIn(event.ID, owner.ID)
	f.checkIn(event.ID, alice.ID)
	f.checkIn(event.ID, bob.ID)

	require.NoError(t, f.friends.AssignFriends(context.Background(), event))
	assert.True(t, event.AddedFriends)

	// Three participants, both directions each: six edges.
	edgeAB, err := (memFriends{f.stores}).Get(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &event.ID, edgeAB.LastMetID)
	_, err = (memFriends{f.stores}).Get(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, f.stores.friends, 6)
}

func TestAssignFriendsHonorsOptOut(t *testing.T) {
	f := newFixture()
	owner := f.stores.addUser("owner")
	loner := f.stores.addUser("loner")
	loner.Settings.FriendMembers = false
	event := f.addEvent(owner, time.Now().Add(-6*time.Hour), 52.52, 13.405, nil)

	f.checkIn(event.ID, owner.ID)
	f.checkIn(event.ID, loner.ID)

	require.NoError(t, f.friends.AssignFriends(context.Background(), event))

	// The opted-out user gains no edge; the other direction still exists.
	_, err := (memFriends{f.stores}).Get(loner.ID, owner.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = (memFriends{f.stores}).Get(owner.ID, loner.ID)
	assert.NoError(t, err)
}

func TestAssignFriendsKeepsFirstMeeting(t *testing.T) {
	f := newFixture()
	owner := f.stores.addUser("owner")
	alice := f.stores.addUser("alice")
	first := f.addEvent(owner, time.Now().Add(-48*time.Hour), 52.52, 13.405, nil)
	second := f.addEvent(owner, time.Now().Add(-6*time.Hour), 52.52, 13.405, nil)

	f.checkIn(first.ID, owner.ID)
	f.checkIn(first.ID, alice.ID)
	require.NoError(t, f.friends.AssignFriends(context.Background(), first))

	f.checkIn(second.ID, owner.ID)
	f.checkIn(second.ID, alice.ID)
	require.NoError(t, f.friends.AssignFriends(context.Background(), second))

	edge, err := (memFriends{f.stores}).Get(owner.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &first.ID, edge.LastMetID, "meeting again must not move last_met")
}

func TestMarkCloseOnlyByEdgeOwner(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	_, edge, err := (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: alice.ID, UserID: bob.ID})
	require.NoError(t, err)

	_, err = f.friends.MarkClose(edge.ID, bob.ID, true)
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := f.friends.MarkClose(edge.ID, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Close)
}

func TestListExcludesEventMembers(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	carol := f.stores.addUser("carol")

	_, _, err := (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: alice.ID, UserID: bob.ID})
	require.NoError(t, err)
	_, _, err = (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: alice.ID, UserID: carol.ID})
	require.NoError(t, err)

	event := f.addEvent(bob, time.Now().Add(2*time.Hour), 52.52, 13.405, nil)

	// Bob owns the event and is already a member, so an invite picker for it
	// only shows carol.
	friends, err := f.friends.List(alice.ID, "", &event.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, carol.ID, friends[0].UserID)
}

func TestMutualFriends(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	carol := f.stores.addUser("carol")
	dave := f.stores.addUser("dave")

	for _, pair := range [][2]uuid.UUID{
		{alice.ID, carol.ID}, {bob.ID, carol.ID}, {alice.ID, dave.ID},
	} {
		_, _, err := (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: pair[0], UserID: pair[1], Close: true})
		require.NoError(t, err)
	}

	mutual, err := f.friends.Mutual(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{carol.ID}, mutual)
}

func TestMutualFriendsCountImportedConnections(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	carol := f.stores.addUser("carol")

	// Imported-only edges still connect; carol is a mutual connection even
	// though nobody marked her close.
	for _, pair := range [][2]uuid.UUID{
		{alice.ID, carol.ID}, {bob.ID, carol.ID},
	} {
		_, _, err := (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: pair[0], UserID: pair[1], Imported: true})
		require.NoError(t, err)
	}

	mutual, err := f.friends.Mutual(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{carol.ID}, mutual)
}

func TestImportContactsIsIdempotent(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")

	created, err := f.friends.ImportContacts(alice.ID, []string{bob.Email, "nobody@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	edge, err := (memFriends{f.stores}).Get(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, edge.Imported)

	created, err = f.friends.ImportContacts(alice.ID, []string{bob.Email})
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestFindContactsExcludesExistingFriends(t *testing.T) {
	f := newFixture()
	alice := f.stores.addUser("alice")
	bob := f.stores.addUser("bob")
	carol := f.stores.addUser("carol")
	_, _, err := (memFriends{f.stores}).GetOrCreate(&models.Friend{OwnerID: alice.ID, UserID: bob.ID})
	require.NoError(t, err)

	matches, err := f.friends.FindContacts(alice.ID, []string{bob.Email, carol.Email, alice.Email})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, carol.ID, matches[0].ID)
}
