package application_test

import (
	"context"
	"errors"
	"testing"

	contributorregistry "revshare/contexts/identity-access/contributor-registry"
	"revshare/contexts/identity-access/contributor-registry/application"
	domainerrors "revshare/contexts/identity-access/contributor-registry/domain/errors"
)

func TestRegisterIsIdempotentOnHandle(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	first, err := module.Service.Register(context.Background(), application.RegisterCommand{Handle: "octocat"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := module.Service.Register(context.Background(), application.RegisterCommand{Handle: "octocat"})
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same contributor row, got ids %s and %s", first.ID, second.ID)
	}

	contributors, err := module.Service.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(contributors) != 1 {
		t.Fatalf("expected one contributor, got %d", len(contributors))
	}
	if contributors[0].Role != "contributor" {
		t.Fatalf("expected default role, got %q", contributors[0].Role)
	}
}

func TestRegisterRejectsEmptyHandle(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	_, err := module.Service.Register(context.Background(), application.RegisterCommand{Handle: "   "})
	if !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle error, got %v", err)
	}
}

func TestLinkPayoutDestinationCreatesAndLinks(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	contributor, err := module.Service.LinkPayoutDestination(context.Background(), "octocat", "acct_123")
	if err != nil {
		t.Fatalf("link destination failed: %v", err)
	}
	if contributor.PayoutDestination != "acct_123" {
		t.Fatalf("expected destination acct_123, got %q", contributor.PayoutDestination)
	}
	if contributor.DestinationLinkedAt == nil {
		t.Fatal("expected linked-at timestamp to be set")
	}

	relinked, err := module.Service.LinkPayoutDestination(context.Background(), "octocat", "acct_456")
	if err != nil {
		t.Fatalf("relink destination failed: %v", err)
	}
	if relinked.PayoutDestination != "acct_456" {
		t.Fatalf("expected destination overwrite, got %q", relinked.PayoutDestination)
	}
}

func TestLinkPayoutDestinationRequiresDestination(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	_, err := module.Service.LinkPayoutDestination(context.Background(), "octocat", "  ")
	if !errors.Is(err, domainerrors.ErrInvalidDestination) {
		t.Fatalf("expected invalid destination error, got %v", err)
	}
}

func TestSetSupportOptInToggles(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	contributor, err := module.Service.SetSupportOptIn(context.Background(), "octocat", true)
	if err != nil {
		t.Fatalf("opt in failed: %v", err)
	}
	if !contributor.SupportOptIn {
		t.Fatal("expected support opt-in to be set")
	}

	contributor, err = module.Service.SetSupportOptIn(context.Background(), "octocat", false)
	if err != nil {
		t.Fatalf("opt out failed: %v", err)
	}
	if contributor.SupportOptIn {
		t.Fatal("expected support opt-in to be cleared")
	}
}

func TestListOrdersByHandle(t *testing.T) {
	module := contributorregistry.NewInMemoryModule(nil, nil)

	for _, handle := range []string{"zed", "alice", "mallory"} {
		if _, err := module.Service.Register(context.Background(), application.RegisterCommand{Handle: handle}); err != nil {
			t.Fatalf("register %s failed: %v", handle, err)
		}
	}

	contributors, err := module.Service.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"alice", "mallory", "zed"}
	for i, handle := range want {
		if contributors[i].Handle != handle {
			t.Fatalf("expected %s at position %d, got %s", handle, i, contributors[i].Handle)
		}
	}
}
