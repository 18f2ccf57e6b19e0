package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoleSetOrder(t *testing.T) {
	a := NewRoleSet(RoleProvider, RoleClient)
	b := NewRoleSet(RoleClient, RoleProvider, RoleClient)
	assert.Equal(t, RoleSet{RoleClient, RoleProvider}, a)
	assert.Equal(t, a, b)
	assert.Equal(t, RoleSet{}, NewRoleSet(Role("admin")))
}

func TestParseRoleSet(t *testing.T) {
	s := ParseRoleSet([]string{"provider", "bogus"})
	assert.True(t, s.Has(RoleProvider))
	assert.False(t, s.Has(RoleClient))
	assert.Equal(t, []string{"provider"}, s.Strings())
}

func TestRoleSetJSONEmpty(t *testing.T) {
	b, err := json.Marshal(RoleSet(nil))
	assert.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestProfilesRoles(t *testing.T) {
	id := uint64(3)
	assert.True(t, Profiles{}.Roles().Empty())
	assert.Equal(t, RoleSet{RoleProvider}, Profiles{ProviderID: &id}.Roles())
	assert.Equal(t, RoleSet{RoleClient, RoleProvider}, Profiles{ClientID: &id, ProviderID: &id}.Roles())
}

func TestContractPrice(t *testing.T) {
	assert.Equal(t, 75.0, ContractPrice(25, 3))
	assert.Equal(t, 33.33, ContractPrice(11.111, 3))
}
