package store

import (
	"errors"
	"testing"
)

func TestProfiles_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	p := &Profile{
		Name:              "desk setup",
		OffsetX:           0.1,
		OffsetY:           -0.2,
		OffsetZ:           0.05,
		Scale:             1.5,
		PinchThreshold:    0.04,
		ExtendedThreshold: 0.65,
	}
	if err := s.Profiles().Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create() left ID empty, want generated UUID")
	}

	got, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "desk setup" || got.OffsetY != -0.2 || got.Scale != 1.5 {
		t.Errorf("GetByID() = %+v, want created values", got)
	}
	if got.PinchThreshold != 0.04 || got.ExtendedThreshold != 0.65 {
		t.Errorf("thresholds = %v/%v, want 0.04/0.65",
			got.PinchThreshold, got.ExtendedThreshold)
	}
	if got.Active {
		t.Error("new profile Active = true, want false")
	}
}

func TestProfiles_CreateDefaultsScale(t *testing.T) {
	s := newTestStore(t)

	p := &Profile{Name: "bare"}
	if err := s.Profiles().Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Scale != 1.0 {
		t.Errorf("Scale = %v, want default 1.0", p.Scale)
	}
}

func TestProfiles_GetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Profiles().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProfiles_List(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"one", "two", "three"} {
		if err := s.Profiles().Create(&Profile{Name: name}); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	profiles, err := s.Profiles().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("List() returned %d profiles, want 3", len(profiles))
	}
}

func TestProfiles_Update(t *testing.T) {
	s := newTestStore(t)

	p := &Profile{Name: "before"}
	if err := s.Profiles().Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.Name = "after"
	p.OffsetZ = 0.3
	if err := s.Profiles().Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "after" || got.OffsetZ != 0.3 {
		t.Errorf("updated profile = %+v, want new values", got)
	}
}

func TestProfiles_UpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	p := &Profile{ID: "missing", Name: "ghost"}
	if err := s.Profiles().Update(p); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProfiles_Delete(t *testing.T) {
	s := newTestStore(t)

	p := &Profile{Name: "doomed"}
	if err := s.Profiles().Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Profiles().Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Profiles().GetByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := s.Profiles().Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestProfiles_Activate(t *testing.T) {
	s := newTestStore(t)

	first := &Profile{Name: "first"}
	second := &Profile{Name: "second"}
	if err := s.Profiles().Create(first); err != nil {
		t.Fatalf("Create(first) error = %v", err)
	}
	if err := s.Profiles().Create(second); err != nil {
		t.Fatalf("Create(second) error = %v", err)
	}

	if _, err := s.Profiles().GetActive(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetActive() with none active error = %v, want ErrNotFound", err)
	}

	if err := s.Profiles().Activate(first.ID); err != nil {
		t.Fatalf("Activate(first) error = %v", err)
	}
	active, err := s.Profiles().GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != first.ID {
		t.Errorf("GetActive() = %q, want first profile", active.Name)
	}

	// Activating the second deactivates the first.
	if err := s.Profiles().Activate(second.ID); err != nil {
		t.Fatalf("Activate(second) error = %v", err)
	}
	active, err = s.Profiles().GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("GetActive() = %q, want second profile", active.Name)
	}

	got, err := s.Profiles().GetByID(first.ID)
	if err != nil {
		t.Fatalf("GetByID(first) error = %v", err)
	}
	if got.Active {
		t.Error("first profile still Active after activating second")
	}
}

func TestProfiles_ActivateNotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.Profiles().Activate("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Activate(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSettings_GetSet(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("tracking"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unset) error = %v, want ErrNotFound", err)
	}

	if err := s.Settings().Set("tracking", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Settings().Get("tracking")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "true" {
		t.Errorf("Get() = %q, want true", got)
	}

	// Set replaces the existing value.
	if err := s.Settings().Set("tracking", "false"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}
	if s.Settings().GetBool("tracking", true) {
		t.Error("GetBool() = true, want false after overwrite")
	}

	if !s.Settings().GetBool("absent", true) {
		t.Error("GetBool(absent) = false, want fallback true")
	}
}
