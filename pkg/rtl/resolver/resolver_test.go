package resolver

import "testing"

func TestEnvironment_Resolve(t *testing.T) {
	env := NewEnvironment()
	env.Set(NamespaceProject, "title", String("The Long Road"))
	env.Set(NamespaceMeta, "word_count", Number(142))
	env.Set(NamespaceDerived, "key_terminology", StringMap("foo", "bar", "baz", "qux"))

	tests := []struct {
		name      string
		path      string
		wantFound bool
		want      string
	}{
		{"simple leaf", "project.title", true, "The Long Road"},
		{"numeric leaf", "meta.word_count", true, "142"},
		{"subkey into mapping", "derived.key_terminology.foo", true, "bar"},
		{"missing leaf", "project.publisher", false, ""},
		{"missing subkey", "derived.key_terminology.missing", false, ""},
		{"unknown namespace", "bogus.leaf", false, ""},
		{"bare namespace", "project", false, ""},
		{"case sensitive", "project.Title", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, found := env.Resolve(tt.path)
			if found != tt.wantFound {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.path, found, tt.wantFound)
			}
			if found && v.Stringify() != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, v.Stringify(), tt.want)
			}
		})
	}
}

func TestEnvironment_SetUnknownNamespaceIgnored(t *testing.T) {
	env := NewEnvironment()
	env.Set(Namespace("bogus"), "leaf", String("x"))
	if _, found := env.Resolve("bogus.leaf"); found {
		t.Error("value stored under an unknown namespace")
	}
}

func TestValue_Present(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"non-blank string", String("x"), true},
		{"empty string", String(""), false},
		{"whitespace string", String("  \n "), false},
		{"zero value", Value{}, false},
		{"non-zero number", Number(3), true},
		{"zero number", Number(0), false},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"non-empty sequence", Strings("a"), true},
		{"empty sequence", Sequence(), false},
		{"non-empty mapping", StringMap("k", "v"), true},
		{"empty mapping", Mapping(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Present(); got != tt.want {
				t.Errorf("Present() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Stringify(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("hello"), "hello"},
		{"integer number", Number(42), "42"},
		{"fractional number", Number(2.5), "2.5"},
		{"bool", Bool(true), "true"},
		{"sequence", Strings("a", "b"), "a, b"},
		{"mapping", StringMap("k1", "v1", "k2", "v2"), "k1: v1, k2: v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Stringify(); got != tt.want {
				t.Errorf("Stringify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_MarshalJSON_PreservesMappingOrder(t *testing.T) {
	v := StringMap("zebra", "z", "apple", "a", "mango", "m")
	data, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	want := `{"zebra":"z","apple":"a","mango":"m"}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

func TestValue_Lookup(t *testing.T) {
	m := StringMap("term", "translation")
	if v, ok := m.Lookup("term"); !ok || v.Str() != "translation" {
		t.Errorf("Lookup(term) = %q/%v", v.Str(), ok)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Error("Lookup(missing) reported found")
	}
	if _, ok := String("x").Lookup("k"); ok {
		t.Error("Lookup on a string value reported found")
	}
}
