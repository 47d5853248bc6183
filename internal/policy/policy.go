// Package policy holds the single access rule table for every resource category.
// Services call Evaluate (or Authorize) instead of comparing roles and owners themselves.
package policy

import (
	"fmt"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Category names the kind of resource being accessed.
type Category string

const (
	CategoryNotice Category = "notice"
	CategoryQnA    Category = "qna"
	CategoryStore  Category = "store"
	CategoryMenu   Category = "menu"
	CategoryOrder  Category = "order"
	CategorySales  Category = "sales"
	CategoryMember Category = "member"
	CategoryPoint  Category = "point"
)

// CategoryForBoard maps a board category onto its policy category.
func CategoryForBoard(c domain.BoardCategory) Category {
	return Category(c)
}

// Action is the operation requested on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource describes the target. OwnerID is the member that owns the resource
// (post author, store owner, orderer); StoreOwnerID is the owner of the store a
// menu or order belongs to. Zero means unknown.
type Resource struct {
	Category     Category
	OwnerID      int64
	StoreOwnerID int64
}

// Requester is the caller. A zero MemberID is an anonymous caller.
type Requester struct {
	MemberID int64
	Role     domain.Role
}

// RequesterFrom builds a Requester from a resolved identity; nil yields an anonymous caller.
func RequesterFrom(identity *domain.Identity) Requester {
	if identity == nil {
		return Requester{}
	}
	return Requester{MemberID: identity.MemberID, Role: identity.Role}
}

// Decision is the outcome of an evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate applies the rule for resource.Category. Unknown categories and
// actions are denied. It has no side effects.
func Evaluate(resource Resource, requester Requester, action Action) Decision {
	switch resource.Category {
	case CategoryNotice:
		return evaluateNotice(requester, action)
	case CategoryQnA:
		return evaluateQnA(resource, requester, action)
	case CategoryStore:
		return evaluateStore(resource, requester, action)
	case CategoryMenu:
		return evaluateMenu(resource, requester, action)
	case CategoryOrder:
		return evaluateOrder(resource, requester, action)
	case CategorySales:
		return evaluateSales(requester, action)
	case CategoryMember:
		return evaluateMember(resource, requester, action)
	case CategoryPoint:
		return evaluatePoint(resource, requester, action)
	default:
		return deny(fmt.Sprintf("unknown resource category %q", resource.Category))
	}
}

// Authorize is Evaluate returning a FORBIDDEN error on denial.
func Authorize(resource Resource, requester Requester, action Action) error {
	decision := Evaluate(resource, requester, action)
	if decision.Allowed {
		return nil
	}
	return apperrors.NewForbidden(decision.Reason)
}

func evaluateNotice(requester Requester, action Action) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate, ActionUpdate, ActionDelete:
		if requester.isAdmin() {
			return allow()
		}
		return deny("only administrators can write notices")
	}
	return unknownAction(action)
}

func evaluateQnA(resource Resource, requester Requester, action Action) Decision {
	if !knownAction(action) {
		return unknownAction(action)
	}
	if requester.isAdmin() || requester.owns(resource.OwnerID) {
		return allow()
	}
	return deny("only the author or an administrator can access this post")
}

func evaluateStore(resource Resource, requester Requester, action Action) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate:
		if requester.Role.Is(domain.RoleOwner) {
			return allow()
		}
		return deny("only store owners can register a store")
	case ActionUpdate:
		if requester.Role.Is(domain.RoleOwner) && requester.owns(resource.OwnerID) {
			return allow()
		}
		return deny("only the store owner can modify this store")
	case ActionDelete:
		if requester.isAdmin() {
			return allow()
		}
		return deny("only administrators can delete a store")
	}
	return unknownAction(action)
}

func evaluateMenu(resource Resource, requester Requester, action Action) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate, ActionUpdate, ActionDelete:
		if requester.Role.Is(domain.RoleOwner) && requester.owns(resource.StoreOwnerID) {
			return allow()
		}
		return deny("only the owner of the store can manage its menus")
	}
	return unknownAction(action)
}

func evaluateOrder(resource Resource, requester Requester, action Action) Decision {
	switch action {
	case ActionCreate:
		if requester.MemberID != 0 {
			return allow()
		}
		return deny("login required to place an order")
	case ActionRead:
		if requester.isAdmin() || requester.owns(resource.OwnerID) || requester.owns(resource.StoreOwnerID) {
			return allow()
		}
		return deny("not allowed to view this order")
	case ActionUpdate, ActionDelete:
		if requester.isAdmin() || requester.owns(resource.OwnerID) {
			return allow()
		}
		return deny("only the orderer or an administrator can change this order")
	}
	return unknownAction(action)
}

func evaluateSales(requester Requester, action Action) Decision {
	if action == ActionRead && requester.isAdmin() {
		return allow()
	}
	return deny("sales reports are available to administrators only")
}

// Member profiles: anyone may register; the member or an administrator may read and edit.
func evaluateMember(resource Resource, requester Requester, action Action) Decision {
	switch action {
	case ActionCreate:
		return allow()
	case ActionRead, ActionUpdate:
		if requester.isAdmin() || requester.owns(resource.OwnerID) {
			return allow()
		}
		return deny("not allowed to access this member")
	case ActionDelete:
		if requester.isAdmin() {
			return allow()
		}
		return deny("only administrators can delete members")
	}
	return unknownAction(action)
}

// Points: a member charges (create) and reads their own balance; only
// administrators overwrite (update) a balance.
func evaluatePoint(resource Resource, requester Requester, action Action) Decision {
	switch action {
	case ActionRead:
		if requester.isAdmin() || requester.owns(resource.OwnerID) {
			return allow()
		}
		return deny("not allowed to view these points")
	case ActionCreate:
		if requester.owns(resource.OwnerID) {
			return allow()
		}
		return deny("points can only be charged to your own account")
	case ActionUpdate:
		if requester.isAdmin() {
			return allow()
		}
		return deny("only administrators can set points")
	case ActionDelete:
		return deny("points cannot be deleted")
	}
	return unknownAction(action)
}

func (r Requester) isAdmin() bool {
	return r.Role.Is(domain.RoleAdmin)
}

func (r Requester) owns(ownerID int64) bool {
	return r.MemberID != 0 && ownerID != 0 && r.MemberID == ownerID
}

func knownAction(action Action) bool {
	switch action {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func unknownAction(action Action) Decision {
	return deny(fmt.Sprintf("unknown action %q", action))
}
