package modules

import "testing"

func TestDefaultModules(t *testing.T) {
	t.Parallel()

	all := Default(Dependencies{})
	if len(all) != 2 {
		t.Fatalf("module count = %d, want %d", len(all), 2)
	}
	if got := all[0].ID(); got != "site" {
		t.Fatalf("module[0] id = %q, want %q", got, "site")
	}
	if got := all[1].ID(); got != "api" {
		t.Fatalf("module[1] id = %q, want %q", got, "api")
	}
}

func TestDefaultModulesHaveUniqueMounts(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	for _, m := range Default(Dependencies{}) {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("module %q mount error = %v", m.ID(), err)
		}
		if mount.Prefix == "" || mount.Handler == nil {
			t.Fatalf("module %q mount is incomplete: %+v", m.ID(), mount)
		}
		for _, pattern := range append([]string{mount.Prefix}, mount.Routes...) {
			if owner, ok := seen[pattern]; ok {
				t.Fatalf("pattern %q mounted by %q and %q", pattern, owner, m.ID())
			}
			seen[pattern] = m.ID()
		}
	}
}
