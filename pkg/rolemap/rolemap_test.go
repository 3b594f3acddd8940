package rolemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/platform"
)

func TestMapTable(t *testing.T) {
	tests := []struct {
		role       account.Role
		lms        string
		ecommerce  string
		dmsGroups  []int
	}{
		{account.RoleAdmin, "admin", "admin", []int{3}},
		{account.RoleModerator, "instructor", "seller", []int{2}},
		{account.RoleEditor, "instructor", "seller", []int{2}},
		{account.RoleUser, "user", "buyer", []int{1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.lms, Map(tt.role, platform.LMS).Name)
			assert.Equal(t, tt.ecommerce, Map(tt.role, platform.Ecommerce).Name)
			assert.Equal(t, tt.dmsGroups, Map(tt.role, platform.DMS).Groups)
		})
	}
}

func TestResolveWithoutOverride(t *testing.T) {
	got := Resolve(account.RoleUser, platform.Ecommerce, "")
	assert.Equal(t, "buyer", got.Name)
}

func TestResolveOverrideVerbatim(t *testing.T) {
	got := Resolve(account.RoleUser, platform.LMS, "guest_lecturer")
	assert.Equal(t, "guest_lecturer", got.Name)

	got = Resolve(account.RoleAdmin, platform.Ecommerce, "wholesale")
	assert.Equal(t, "wholesale", got.Name)
}

func TestResolveDMSOverrideGroups(t *testing.T) {
	got := Resolve(account.RoleUser, platform.DMS, "2,3")
	assert.Equal(t, []int{2, 3}, got.Groups)

	got = Resolve(account.RoleUser, platform.DMS, " 5 ")
	assert.Equal(t, []int{5}, got.Groups)
}

func TestResolveDMSInvalidOverrideFallsBack(t *testing.T) {
	got := Resolve(account.RoleModerator, platform.DMS, "boss")
	assert.Equal(t, []int{2}, got.Groups)
}
