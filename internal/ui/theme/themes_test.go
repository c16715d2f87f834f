package theme

import (
	"reflect"
	"testing"
)

func TestBuiltinThemesRegistered(t *testing.T) {
	want := []string{"ember", "harbor", "meadow", "paper"}
	if got := Available(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
}

func TestDefaultIsHarbor(t *testing.T) {
	if CurrentName() != "harbor" {
		t.Fatalf("default theme = %q, want harbor", CurrentName())
	}
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("harbor") })

	for _, name := range []string{"ember", "paper", "meadow"} {
		if !SetTheme(name) {
			t.Fatalf("SetTheme(%q) = false", name)
		}
		if Current().Name != name {
			t.Errorf("Current().Name = %q, want %q", Current().Name, name)
		}
	}
	if SetTheme("nope") {
		t.Error("SetTheme(unknown) = true")
	}
	if CurrentName() != "meadow" {
		t.Errorf("failed SetTheme changed the theme to %q", CurrentName())
	}
}

func TestCycleThemeWraps(t *testing.T) {
	t.Cleanup(func() { SetTheme("harbor") })

	SetTheme("paper")
	if got := CycleTheme(); got != "ember" {
		t.Fatalf("CycleTheme() after paper = %q, want ember", got)
	}
	if got := CycleTheme(); got != "harbor" {
		t.Fatalf("CycleTheme() after ember = %q, want harbor", got)
	}
}

func TestThemesDefineEveryColor(t *testing.T) {
	for _, th := range []Theme{Harbor, Ember, Meadow, Paper} {
		v := reflect.ValueOf(th)
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if f.Name == "Name" {
				continue
			}
			col := v.Field(i).Interface()
			if reflect.ValueOf(col).FieldByName("Dark").String() == "" || reflect.ValueOf(col).FieldByName("Light").String() == "" {
				t.Errorf("%s.%s is missing a variant", th.Name, f.Name)
			}
		}
	}
}
