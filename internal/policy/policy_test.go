package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

var (
	anonymous = Requester{}
	admin     = Requester{MemberID: 1, Role: domain.RoleAdmin}
	author    = Requester{MemberID: 2, Role: domain.RoleUser}
	stranger  = Requester{MemberID: 3, Role: domain.RoleUser}
	owner     = Requester{MemberID: 4, Role: domain.RoleOwner}
	rival     = Requester{MemberID: 5, Role: domain.RoleOwner}
)

func TestEvaluate(t *testing.T) {
	notice := Resource{Category: CategoryNotice, OwnerID: admin.MemberID}
	qna := Resource{Category: CategoryQnA, OwnerID: author.MemberID}
	store := Resource{Category: CategoryStore, OwnerID: owner.MemberID}
	menu := Resource{Category: CategoryMenu, StoreOwnerID: owner.MemberID}
	order := Resource{Category: CategoryOrder, OwnerID: author.MemberID, StoreOwnerID: owner.MemberID}
	sales := Resource{Category: CategorySales}
	member := Resource{Category: CategoryMember, OwnerID: author.MemberID}
	point := Resource{Category: CategoryPoint, OwnerID: author.MemberID}

	tests := []struct {
		name      string
		resource  Resource
		requester Requester
		action    Action
		allowed   bool
	}{
		{"notice read by anonymous", notice, anonymous, ActionRead, true},
		{"notice read by user", notice, stranger, ActionRead, true},
		{"notice create by admin", notice, admin, ActionCreate, true},
		{"notice create by user", notice, author, ActionCreate, false},
		{"notice update by owner role", notice, owner, ActionUpdate, false},
		{"notice delete by anonymous", notice, anonymous, ActionDelete, false},

		{"qna read by author", qna, author, ActionRead, true},
		{"qna read by admin", qna, admin, ActionRead, true},
		{"qna read by stranger", qna, stranger, ActionRead, false},
		{"qna read by anonymous", qna, anonymous, ActionRead, false},
		{"qna update by author", qna, author, ActionUpdate, true},
		{"qna delete by stranger", qna, stranger, ActionDelete, false},

		{"store read by anonymous", store, anonymous, ActionRead, true},
		{"store create by owner role", Resource{Category: CategoryStore}, rival, ActionCreate, true},
		{"store create by user", Resource{Category: CategoryStore}, author, ActionCreate, false},
		{"store update by its owner", store, owner, ActionUpdate, true},
		{"store update by another owner", store, rival, ActionUpdate, false},
		{"store update by admin", store, admin, ActionUpdate, false},
		{"store delete by admin", store, admin, ActionDelete, true},
		{"store delete by its owner", store, owner, ActionDelete, false},

		{"menu read by anonymous", menu, anonymous, ActionRead, true},
		{"menu create by store owner", menu, owner, ActionCreate, true},
		{"menu create by another owner", menu, rival, ActionCreate, false},
		{"menu update by user", menu, author, ActionUpdate, false},
		{"menu delete by admin", menu, admin, ActionDelete, false},

		{"order create by member", Resource{Category: CategoryOrder}, stranger, ActionCreate, true},
		{"order create by anonymous", Resource{Category: CategoryOrder}, anonymous, ActionCreate, false},
		{"order read by orderer", order, author, ActionRead, true},
		{"order read by store owner", order, owner, ActionRead, true},
		{"order read by admin", order, admin, ActionRead, true},
		{"order read by stranger", order, stranger, ActionRead, false},
		{"order update by orderer", order, author, ActionUpdate, true},
		{"order update by store owner", order, owner, ActionUpdate, false},
		{"order delete by admin", order, admin, ActionDelete, true},

		{"sales read by admin", sales, admin, ActionRead, true},
		{"sales read by owner", sales, owner, ActionRead, false},
		{"sales read by anonymous", sales, anonymous, ActionRead, false},
		{"sales create by admin", sales, admin, ActionCreate, false},

		{"member create by anonymous", Resource{Category: CategoryMember}, anonymous, ActionCreate, true},
		{"member read self", member, author, ActionRead, true},
		{"member read other", member, stranger, ActionRead, false},
		{"member update by admin", member, admin, ActionUpdate, true},
		{"member delete self", member, author, ActionDelete, false},

		{"point charge self", point, author, ActionCreate, true},
		{"point charge other", point, stranger, ActionCreate, false},
		{"point read by admin", point, admin, ActionRead, true},
		{"point set by admin", point, admin, ActionUpdate, true},
		{"point set by self", point, author, ActionUpdate, false},
		{"point delete by admin", point, admin, ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.resource, tt.requester, tt.action)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}

func TestEvaluate_FailsClosed(t *testing.T) {
	decision := Evaluate(Resource{Category: "coupon"}, admin, ActionRead)
	assert.False(t, decision.Allowed)

	decision = Evaluate(Resource{Category: CategoryNotice}, admin, "publish")
	assert.False(t, decision.Allowed)

	decision = Evaluate(Resource{Category: CategoryQnA, OwnerID: admin.MemberID}, admin, "archive")
	assert.False(t, decision.Allowed)
}

func TestEvaluate_RoleIsCaseInsensitive(t *testing.T) {
	lower := Requester{MemberID: 9, Role: domain.Role("admin")}
	assert.True(t, Evaluate(Resource{Category: CategorySales}, lower, ActionRead).Allowed)
}

func TestEvaluate_ZeroOwnerNeverMatches(t *testing.T) {
	orphan := Resource{Category: CategoryQnA}
	assert.False(t, Evaluate(orphan, anonymous, ActionRead).Allowed)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(Resource{Category: CategoryNotice}, anonymous, ActionRead))

	err := Authorize(Resource{Category: CategoryNotice}, author, ActionCreate)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRequesterFrom(t *testing.T) {
	assert.Equal(t, Requester{}, RequesterFrom(nil))
	assert.Equal(t, Requester{MemberID: 3, Role: domain.RoleOwner},
		RequesterFrom(&domain.Identity{Subject: "x", MemberID: 3, Role: domain.RoleOwner}))
}

func TestCategoryForBoard(t *testing.T) {
	assert.Equal(t, CategoryNotice, CategoryForBoard(domain.BoardCategory("notice")))
	assert.Equal(t, CategoryQnA, CategoryForBoard(domain.BoardCategory("qna")))
}
