// Package permissions derives what the session user may see and do on a stock list.
// Every function is pure and recomputed per render.
package permissions

import (
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/session"
)

// IsOwner reports whether the session user created list. A logged-out session owns nothing.
func IsOwner(s session.Session, list domain.StockList) bool {
	return s.LoggedIn() && list.CreatorID != "" && list.CreatorID == s.UserID
}

// IsPublicList reports whether list is public.
func IsPublicList(list domain.StockList) bool {
	return list.IsPublic
}

// IsSharedList reports whether list reached the user through sharing: neither owned nor public.
func IsSharedList(s session.Session, list domain.StockList) bool {
	return !IsOwner(s, list) && !IsPublicList(list)
}

// HasReviewed reports whether the session user authored any review in reviews.
func HasReviewed(s session.Session, reviews []domain.Review) bool {
	if !s.LoggedIn() {
		return false
	}
	for _, r := range reviews {
		if r.ReviewerID == s.UserID {
			return true
		}
	}
	return false
}

// CanCompose reports whether the review form is offered: only non-owners of public or shared
// lists who have not reviewed it yet.
func CanCompose(s session.Session, list domain.StockList, reviews []domain.Review) bool {
	if !s.LoggedIn() || IsOwner(s, list) {
		return false
	}
	if !IsPublicList(list) && !IsSharedList(s, list) {
		return false
	}
	return !HasReviewed(s, reviews)
}

// CanDeleteReview reports whether review may be deleted by the session user: its author or
// the list owner.
func CanDeleteReview(s session.Session, list domain.StockList, review domain.Review) bool {
	if !s.LoggedIn() {
		return false
	}
	return review.ReviewerID == s.UserID || IsOwner(s, list)
}

// CanEditHoldings reports whether the add/remove stock controls are offered.
func CanEditHoldings(s session.Session, list domain.StockList) bool {
	return IsOwner(s, list)
}

// CanShare reports whether the list may be shared: owner of a private list.
func CanShare(s session.Session, list domain.StockList) bool {
	return IsOwner(s, list) && !list.IsPublic
}

// VisibleReviews filters reviews for display. Public lists show everything; on private lists
// the owner sees all reviews and everyone else only their own.
func VisibleReviews(s session.Session, list domain.StockList, reviews []domain.Review) []domain.Review {
	if IsPublicList(list) || IsOwner(s, list) {
		return reviews
	}
	var out []domain.Review
	if !s.LoggedIn() {
		return out
	}
	for _, r := range reviews {
		if r.ReviewerID == s.UserID {
			out = append(out, r)
		}
	}
	return out
}

// ReviewView pairs a review with its delete permission.
type ReviewView struct {
	domain.Review
	CanDelete bool
}

// ListPermissions is every flag a stock list detail page needs.
type ListPermissions struct {
	IsOwner         bool
	IsPublic        bool
	IsShared        bool
	CanCompose      bool
	CanEditHoldings bool
	CanShare        bool
	Reviews         []ReviewView
}

// Derive computes all flags for list in one pass.
func Derive(s session.Session, list domain.StockList, reviews []domain.Review) ListPermissions {
	p := ListPermissions{
		IsOwner:         IsOwner(s, list),
		IsPublic:        IsPublicList(list),
		IsShared:        IsSharedList(s, list),
		CanCompose:      CanCompose(s, list, reviews),
		CanEditHoldings: CanEditHoldings(s, list),
		CanShare:        CanShare(s, list),
	}
	for _, r := range VisibleReviews(s, list, reviews) {
		p.Reviews = append(p.Reviews, ReviewView{Review: r, CanDelete: CanDeleteReview(s, list, r)})
	}
	return p
}

// CardKind classifies a list on the stock lists overview.
type CardKind string

const (
	CardPrivate CardKind = "private"
	CardPublic  CardKind = "public"
	CardShared  CardKind = "shared"
)

// Card is a list as shown on the overview, with its delete affordance.
type Card struct {
	List      domain.StockList
	Kind      CardKind
	Own       bool
	CanDelete bool
}

// NewCard builds an overview card. Only the user's own private and public lists can be deleted.
func NewCard(list domain.StockList, kind CardKind, own bool) Card {
	return Card{
		List:      list,
		Kind:      kind,
		Own:       own,
		CanDelete: own && (kind == CardPrivate || kind == CardPublic),
	}
}

// PartitionOwn splits the user's own lists into private and public cards, preserving order.
func PartitionOwn(lists []domain.StockList) (private, public []Card) {
	for _, l := range lists {
		if l.IsPublic {
			public = append(public, NewCard(l, CardPublic, true))
		} else {
			private = append(private, NewCard(l, CardPrivate, true))
		}
	}
	return private, public
}

// SharedCards builds the cards for lists shared with the user.
func SharedCards(lists []domain.StockList) []Card {
	cards := make([]Card, 0, len(lists))
	for _, l := range lists {
		cards = append(cards, NewCard(l, CardShared, false))
	}
	return cards
}

// PublicCards builds the cards for everyone's public lists. The public listing carries the
// owner's username rather than an id, so ownership is matched on either.
func PublicCards(s session.Session, lists []domain.StockList) []Card {
	cards := make([]Card, 0, len(lists))
	for _, l := range lists {
		own := s.LoggedIn() &&
			((l.CreatorID != "" && l.CreatorID == s.UserID) ||
				(l.OwnerUsername != "" && l.OwnerUsername == s.Username))
		cards = append(cards, NewCard(l, CardPublic, own))
	}
	return cards
}
