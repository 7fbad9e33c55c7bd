package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/authvault/internal/common"
)

func TestGetProfile_Found(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{u: newFakeUsersRepo(), rt: newFakeResetTokensRepo()}
	user := seedUser(t, rm.u, "a@x.com", "GoodPass123")
	s := NewProfileService(db, rm, testLogger())

	got, err := s.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if got.ID != user.ID || got.Email != "a@x.com" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{u: newFakeUsersRepo(), rt: newFakeResetTokensRepo()}
	s := NewProfileService(db, rm, testLogger())

	_, err := s.GetProfile(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_ChangesName(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{u: newFakeUsersRepo(), rt: newFakeResetTokensRepo()}
	user := seedUser(t, rm.u, "a@x.com", "GoodPass123")
	s := NewProfileService(db, rm, testLogger())

	got, err := s.UpdateProfile(context.Background(), user.ID, "Annie")
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if got.Name != "Annie" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
	if rm.u.get(user.ID).Name != "Annie" {
		t.Fatalf("name was not persisted")
	}
}

func TestUpdateProfile_StoreDown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	u := newFakeUsersRepo()
	u.failWith = errors.New("store down")
	rm := &fakeRepoManager{u: u, rt: newFakeResetTokensRepo()}
	s := NewProfileService(db, rm, testLogger())

	_, err := s.UpdateProfile(context.Background(), "u-1", "Annie")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}
