package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aristath/stockcircle/internal/domain"
)

// Friends lists accepted friendships.
func (c *Client) Friends(ctx context.Context, userID domain.UserID) ([]domain.Friend, error) {
	var out []domain.Friend
	err := c.do(ctx, request{
		op:       "friends",
		method:   http.MethodGet,
		path:     "/friends",
		query:    userQuery(userID),
		fallback: "Failed to fetch friends",
	}, &out)
	return out, err
}

// IncomingRequests lists pending requests sent to userID.
func (c *Client) IncomingRequests(ctx context.Context, userID domain.UserID) ([]domain.IncomingRequest, error) {
	var out []domain.IncomingRequest
	err := c.do(ctx, request{
		op:       "friend_requests",
		method:   http.MethodGet,
		path:     "/friend-requests",
		query:    userQuery(userID),
		fallback: "Failed to fetch friend requests",
	}, &out)
	return out, err
}

// OutgoingRequests lists pending requests sent by userID.
func (c *Client) OutgoingRequests(ctx context.Context, userID domain.UserID) ([]domain.OutgoingRequest, error) {
	var out []domain.OutgoingRequest
	err := c.do(ctx, request{
		op:       "friend_outgoings",
		method:   http.MethodGet,
		path:     "/friend-outgoings",
		query:    userQuery(userID),
		fallback: "Failed to fetch outgoing requests",
	}, &out)
	return out, err
}

// UserID resolves a username.
func (c *Client) UserID(ctx context.Context, username string) (domain.UserID, error) {
	var out struct {
		UserID domain.UserID `json:"user_id"`
	}
	err := c.do(ctx, request{
		op:       "user_id",
		method:   http.MethodGet,
		path:     "/user-id",
		query:    url.Values{"username": {username}},
		fallback: "User not found",
	}, &out)
	if err == nil && out.UserID == "" {
		return "", &domain.APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	return out.UserID, err
}

type friendPair struct {
	SenderID   domain.UserID `json:"sender_id"`
	ReceiverID domain.UserID `json:"receiver_id"`
}

// SendFriendRequest sends a request from sender to receiver.
func (c *Client) SendFriendRequest(ctx context.Context, sender, receiver domain.UserID) error {
	return c.do(ctx, request{
		op:       "send_friend_request",
		method:   http.MethodPost,
		path:     "/send-friend-request",
		body:     friendPair{sender, receiver},
		fallback: "Failed to send request",
	}, nil)
}

// AcceptFriendRequest accepts sender's pending request to receiver.
func (c *Client) AcceptFriendRequest(ctx context.Context, sender, receiver domain.UserID) error {
	return c.do(ctx, request{
		op:       "accept_friend_request",
		method:   http.MethodPost,
		path:     "/accept-friend-request",
		body:     friendPair{sender, receiver},
		fallback: "Failed to accept request",
	}, nil)
}

// RejectFriendRequest rejects sender's pending request to receiver.
func (c *Client) RejectFriendRequest(ctx context.Context, sender, receiver domain.UserID) error {
	return c.do(ctx, request{
		op:       "reject_friend_request",
		method:   http.MethodPost,
		path:     "/reject-friend-request",
		body:     friendPair{sender, receiver},
		fallback: "Failed to reject request",
	}, nil)
}

// DeleteFriend ends a friendship.
func (c *Client) DeleteFriend(ctx context.Context, userID, friendID domain.UserID) error {
	return c.do(ctx, request{
		op:     "delete_friend",
		method: http.MethodPost,
		path:   "/delete-friend",
		body: struct {
			UserID   domain.UserID `json:"user_id"`
			FriendID domain.UserID `json:"friend_id"`
		}{userID, friendID},
		fallback: "Failed to delete friend",
	}, nil)
}
