package views

import (
	"context"
	"fmt"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/session"
)

// FriendsState is what the friends page renders.
type FriendsState struct {
	Friends     fetch.Slot[[]domain.Friend]
	Incoming    fetch.Slot[[]domain.IncomingRequest]
	Outgoing    fetch.Slot[[]domain.OutgoingRequest]
	Flash       string
	ActionError string
}

// Friends manages friendships and friend requests.
type Friends struct {
	*page[FriendsState]
	backend FriendsBackend
}

// NewFriends creates the friends controller.
func NewFriends(b FriendsBackend, store *session.Store, opts Options) *Friends {
	return &Friends{
		page:    newPage[FriendsState]("friends", store, opts),
		backend: b,
	}
}

// Load fetches friends, incoming and outgoing requests in parallel.
func (c *Friends) Load(ctx context.Context) (FriendsState, error) {
	s, err := c.identity()
	if err != nil {
		return FriendsState{}, err
	}
	h := c.tracker.Start(stateKeyFor(s, "friends"))

	var st FriendsState
	g := fetch.NewGroup(ctx)
	fetch.Into(g, &st.Friends, func(ctx context.Context) ([]domain.Friend, error) {
		return c.backend.Friends(ctx, s.UserID)
	})
	fetch.Into(g, &st.Incoming, func(ctx context.Context) ([]domain.IncomingRequest, error) {
		return c.backend.IncomingRequests(ctx, s.UserID)
	})
	fetch.Into(g, &st.Outgoing, func(ctx context.Context) ([]domain.OutgoingRequest, error) {
		return c.backend.OutgoingRequests(ctx, s.UserID)
	})
	g.Wait()

	if err := c.commit(h, st); err != nil {
		return FriendsState{}, err
	}
	st.Flash = c.flash.Message()
	return st, nil
}

// SendRequest resolves username and sends it a friend request.
func (c *Friends) SendRequest(ctx context.Context, username string) error {
	s, err := c.identity()
	if err != nil {
		return err
	}
	username, err = domain.ValidateName("username", username, domain.MsgFriendRequired)
	if err != nil {
		return c.failed("send_request", err)
	}
	receiver, err := c.backend.UserID(ctx, username)
	if err != nil {
		return c.failed("send_request", fmt.Errorf("lookup %s: %w", username, err))
	}
	if err := c.backend.SendFriendRequest(ctx, s.UserID, receiver); err != nil {
		return c.failed("send_request", fmt.Errorf("send request: %w", err))
	}
	c.succeeded("send_request", fmt.Sprintf("Friend request sent to %s", username))
	return nil
}

// Accept accepts the pending request from sender.
func (c *Friends) Accept(ctx context.Context, sender domain.UserID) error {
	return c.respond(ctx, "accept_request", sender, c.backend.AcceptFriendRequest, "Friend request accepted")
}

// Reject rejects the pending request from sender.
func (c *Friends) Reject(ctx context.Context, sender domain.UserID) error {
	return c.respond(ctx, "reject_request", sender, c.backend.RejectFriendRequest, "Friend request rejected")
}

func (c *Friends) respond(
	ctx context.Context,
	action string,
	sender domain.UserID,
	call func(context.Context, domain.UserID, domain.UserID) error,
	okMsg string,
) error {
	s, err := c.identity()
	if err != nil {
		return err
	}
	if sender == "" {
		return c.failed(action, domain.NewValidationError("sender_id", "Missing request sender"))
	}
	if err := call(ctx, sender, s.UserID); err != nil {
		return c.failed(action, fmt.Errorf("%s: %w", action, err))
	}
	c.succeeded(action, okMsg)
	return nil
}

// Remove ends the friendship with friend.
func (c *Friends) Remove(ctx context.Context, friend domain.UserID) error {
	s, err := c.identity()
	if err != nil {
		return err
	}
	if friend == "" {
		return c.failed("delete_friend", domain.NewValidationError("friend_id", "Missing friend"))
	}
	if err := c.backend.DeleteFriend(ctx, s.UserID, friend); err != nil {
		return c.failed("delete_friend", fmt.Errorf("delete friend: %w", err))
	}
	c.succeeded("delete_friend", "Friend removed")
	return nil
}

// ShowError returns the last rendered friends page with err in its error slot.
func (c *Friends) ShowError(ctx context.Context, err error, fallback string) (FriendsState, error) {
	s, idErr := c.identity()
	if idErr != nil {
		return FriendsState{}, idErr
	}
	st, ok := c.snapshot(stateKeyFor(s, "friends"))
	if !ok {
		var loadErr error
		if st, loadErr = c.Load(ctx); loadErr != nil {
			return FriendsState{}, loadErr
		}
	}
	st.Flash = ""
	st.ActionError = domain.UserMessage(err, fallback)
	return st, nil
}
