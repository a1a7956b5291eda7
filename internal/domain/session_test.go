package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_CanAccessStore(t *testing.T) {
	admin := &Session{IsAuthenticated: true, UserRole: RoleAdmin}
	compta := &Session{IsAuthenticated: true, UserRole: RoleComptabilite}
	manager := &Session{IsAuthenticated: true, UserRole: RoleStoreManager, UserStore: "paris"}
	anonymous := &Session{UserRole: RoleAdmin}

	tests := []struct {
		name    string
		session *Session
		store   string
		want    bool
	}{
		{"admin any store", admin, "lyon", true},
		{"admin all", admin, StoreAll, true},
		{"comptabilite all", compta, StoreAll, true},
		{"manager own store", manager, "paris", true},
		{"manager other store", manager, "lyon", false},
		{"manager all", manager, StoreAll, false},
		{"not authenticated", anonymous, "lyon", false},
		{"nil session", nil, "lyon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.CanAccessStore(tt.store))
		})
	}
}

func TestSession_DefaultStoreAndExpiry(t *testing.T) {
	now := time.Now()
	manager := &Session{UserRole: RoleStoreManager, UserStore: "paris", ExpiresAt: now.Add(time.Minute)}
	admin := &Session{UserRole: RoleAdmin, ExpiresAt: now.Add(-time.Second)}

	assert.Equal(t, "paris", manager.DefaultStore())
	assert.Equal(t, StoreAll, admin.DefaultStore())
	assert.False(t, manager.Expired(now))
	assert.True(t, admin.Expired(now))
	assert.False(t, (&Session{}).Expired(now))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleComptabilite.Valid())
	assert.True(t, RoleStoreManager.Valid())
	assert.False(t, Role("cashier").Valid())
}
