package catalog

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	cat := Default()

	tests := []struct {
		name         string
		model        string
		wantFound    bool
		wantProvider string
	}{
		{"google model", "gemini-2.5-pro", true, ProviderGoogle},
		{"mistral model", "codestral-2501", true, ProviderMistral},
		{"groq model", "llama-3.1-8b-instant", true, ProviderGroq},
		{"cohere model", "command-r-plus-08-2024", true, ProviderCohere},
		{"cerebras model", "gpt-oss-120b", true, ProviderCerebras},
		{"unknown model", "gpt-5-turbo", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, found := cat.Lookup(tt.model)
			if found != tt.wantFound {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.model, found, tt.wantFound)
			}
			if found && m.Provider != tt.wantProvider {
				t.Errorf("Lookup(%q).Provider = %s, want %s", tt.model, m.Provider, tt.wantProvider)
			}
		})
	}
}

func TestResolveGroup(t *testing.T) {
	cat := Default()

	chain, err := cat.ResolveGroup("enhanced_coding")
	if err != nil {
		t.Fatalf("ResolveGroup() error = %v", err)
	}
	if len(chain) == 0 {
		t.Fatal("ResolveGroup() returned empty chain")
	}
	if chain[0] != "gemini-2.5-pro" {
		t.Errorf("chain[0] = %s, want gemini-2.5-pro", chain[0])
	}

	// Every model in every default group must resolve in the registry.
	for _, group := range cat.Groups() {
		chain, err := cat.ResolveGroup(group)
		if err != nil {
			t.Fatalf("ResolveGroup(%q) error = %v", group, err)
		}
		for _, model := range chain {
			if _, ok := cat.Lookup(model); !ok {
				t.Errorf("group %q references unknown model %q", group, model)
			}
		}
	}
}

func TestResolveGroup_Unknown(t *testing.T) {
	cat := Default()

	_, err := cat.ResolveGroup("does_not_exist")
	if err == nil {
		t.Fatal("ResolveGroup() error = nil, want UnknownGroupError")
	}

	var ugErr *UnknownGroupError
	if !errors.As(err, &ugErr) {
		t.Fatalf("ResolveGroup() error type = %T, want *UnknownGroupError", err)
	}
	if ugErr.Group != "does_not_exist" {
		t.Errorf("UnknownGroupError.Group = %s, want does_not_exist", ugErr.Group)
	}
}

func TestResolveGroup_ReturnsCopy(t *testing.T) {
	cat := Default()

	chain, _ := cat.ResolveGroup("weak_coding")
	chain[0] = "mutated"

	again, _ := cat.ResolveGroup("weak_coding")
	if again[0] == "mutated" {
		t.Error("ResolveGroup() exposes internal chain slice to mutation")
	}
}

func TestOverrideGroups(t *testing.T) {
	cat := Default()
	builtin := len(cat.Groups())

	cat.OverrideGroups(map[string][]string{
		"weak_coding":  {"open-mistral-7b"},
		"custom_group": {"gemini-2.5-flash", "llama-3.1-8b-instant"},
	})

	chain, err := cat.ResolveGroup("weak_coding")
	if err != nil {
		t.Fatalf("ResolveGroup() error = %v", err)
	}
	if len(chain) != 1 || chain[0] != "open-mistral-7b" {
		t.Errorf("overridden chain = %v, want [open-mistral-7b]", chain)
	}

	if _, err := cat.ResolveGroup("custom_group"); err != nil {
		t.Errorf("ResolveGroup(custom_group) error = %v", err)
	}

	if got := len(cat.Groups()); got != builtin+1 {
		t.Errorf("Groups() count = %d, want %d (builtins kept, one added)", got, builtin+1)
	}

	// Untouched builtins survive.
	if _, err := cat.ResolveGroup("classic_reasoning"); err != nil {
		t.Errorf("ResolveGroup(classic_reasoning) error = %v", err)
	}
}

func TestProviders(t *testing.T) {
	providers := Default().Providers()

	want := []string{ProviderCerebras, ProviderCohere, ProviderGoogle, ProviderGroq, ProviderMistral}
	if len(providers) != len(want) {
		t.Fatalf("Providers() = %v, want %v", providers, want)
	}
	for i := range want {
		if providers[i] != want[i] {
			t.Errorf("Providers()[%d] = %s, want %s", i, providers[i], want[i])
		}
	}
}

func TestModels_Sorted(t *testing.T) {
	models := Default().Models()
	if len(models) == 0 {
		t.Fatal("Models() returned no models")
	}
	for i := 1; i < len(models); i++ {
		if models[i-1].Name >= models[i].Name {
			t.Errorf("Models() not sorted: %s before %s", models[i-1].Name, models[i].Name)
		}
	}
}
