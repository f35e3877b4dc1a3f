package lattice

import "testing"

func TestCommand(t *testing.T) {
	cmd := Command([]string{"count", "input.txt", "config=lattice.toml", "extra"})
	if cmd.Name() != "count" {
		t.Errorf("expected name count, got %q", cmd.Name())
	}
	if arg := cmd.Argument(1); arg != "input.txt" {
		t.Errorf("expected first argument input.txt, got %q", arg)
	}
	if arg := cmd.Argument(2); arg != "extra" {
		t.Errorf("expected second argument extra, got %q", arg)
	}
	if arg := cmd.Argument(3); arg != "" {
		t.Errorf("expected no third argument, got %q", arg)
	}
	value, found := cmd.Parameter(KeyConfigFile)
	if !found || value != "lattice.toml" {
		t.Errorf("bad config parameter: %q (found %t)", value, found)
	}
	if _, found := cmd.Parameter(KeyRegion); found {
		t.Errorf("found unset region parameter")
	}

	var file string
	overflow := cmd.CommandArgs(&file)
	if file != "input.txt" {
		t.Errorf("expected input.txt, got %q", file)
	}
	if len(overflow) != 1 || overflow[0] != "extra" {
		t.Errorf("bad overflow: %v", overflow)
	}

	settings := cmd.Settings()
	if v, found, err := settings.GetString(KeyConfigFile); err != nil || !found || v != "lattice.toml" {
		t.Errorf("bad settings: %v", settings)
	}
}

func TestConfig(t *testing.T) {
	c := NewConfig()
	c.Set("path", "/tmp/db")
	c.Set("testing", true)
	c.Set("ValueThreshold", int64(100))

	if s, found, err := c.GetString("path"); err != nil || !found || s != "/tmp/db" {
		t.Errorf("bad path: %q %t %v", s, found, err)
	}
	if b, found, err := c.GetBool("testing"); err != nil || !found || !b {
		t.Errorf("bad testing: %t %t %v", b, found, err)
	}
	if i, found, err := c.GetInt("ValueThreshold"); err != nil || !found || i != 100 {
		t.Errorf("bad threshold: %d %t %v", i, found, err)
	}
	if _, _, err := c.GetBool("path"); err == nil {
		t.Errorf("expected error reading string as bool")
	}
	if _, found, _ := c.GetInt("missing"); found {
		t.Errorf("missing key should not be found")
	}
}
