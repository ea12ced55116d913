package component

import (
	"errors"
	"testing"
)

// fakeComponent is a minimal exported component for registry tests.
type fakeComponent struct{ id int }

func (c fakeComponent) ID() int                  { return c.id }
func (c fakeComponent) Type() Type               { return TypeInput }
func (c fakeComponent) GetInfo() (string, error) { return "ok", nil }

func TestRegistryFindByID(t *testing.T) {
	reg := NewRegistry()
	for id := 1; id <= 3; id++ {
		if err := reg.AddInput(NewSimInput(id)); err != nil {
			t.Fatalf("AddInput(%d) error = %v", id, err)
		}
	}

	in, err := reg.FindInput(2)
	if err != nil {
		t.Fatalf("FindInput(2) error = %v", err)
	}
	if in.ID() != 2 {
		t.Errorf("FindInput(2).ID() = %d", in.ID())
	}

	if _, err := reg.FindInput(9); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindInput(9) error = %v, want ErrNotFound", err)
	}
	if _, err := reg.FindOutput(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindOutput(1) error = %v, want ErrNotFound", err)
	}
	if _, err := reg.TempSensor(); !errors.Is(err, ErrNotFound) {
		t.Errorf("TempSensor() error = %v, want ErrNotFound", err)
	}
}

func TestRegistryFreeze(t *testing.T) {
	reg := NewRegistry()
	if err := reg.AddInput(NewSimInput(1)); err != nil {
		t.Fatalf("AddInput() error = %v", err)
	}
	reg.Freeze()

	if err := reg.AddInput(NewSimInput(2)); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("AddInput() after freeze error = %v, want ErrRegistryFrozen", err)
	}
	if err := reg.AddPowerMeter(NewSimPowerMeter(1)); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("AddPowerMeter() after freeze error = %v, want ErrRegistryFrozen", err)
	}
	if err := reg.SetTempSensor(NewSimTempSensor(30)); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("SetTempSensor() after freeze error = %v, want ErrRegistryFrozen", err)
	}
}

func TestRegistryClearComponentsKeepsPeripherals(t *testing.T) {
	reg := NewRegistry()
	if err := reg.AddInput(NewSimInput(1)); err != nil {
		t.Fatalf("AddInput() error = %v", err)
	}
	if err := reg.AddComponent(fakeComponent{id: 1}); err != nil {
		t.Fatalf("AddComponent() error = %v", err)
	}
	reg.Freeze()

	reg.ClearComponents()
	if got := len(reg.Components()); got != 0 {
		t.Errorf("components after clear = %d, want 0", got)
	}
	if _, err := reg.FindInput(1); err != nil {
		t.Errorf("peripheral lost on ClearComponents: %v", err)
	}
	// The registry is growable again for the rebuild.
	if err := reg.AddComponent(fakeComponent{id: 2}); err != nil {
		t.Errorf("AddComponent() after ClearComponents error = %v", err)
	}
}

func TestRegistryComponentOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []int{3, 1, 2} {
		if err := reg.AddComponent(fakeComponent{id: id}); err != nil {
			t.Fatalf("AddComponent(%d) error = %v", id, err)
		}
	}
	comps := reg.Components()
	want := []int{3, 1, 2}
	for i, c := range comps {
		if c.ID() != want[i] {
			t.Errorf("comps[%d].ID() = %d, want %d", i, c.ID(), want[i])
		}
	}
}
