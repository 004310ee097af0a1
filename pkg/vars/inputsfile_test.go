package vars

import (
	"testing"

	"rosetta-hq/rosetta/pkg/rtl/schema"
)

func TestParseInputsFile(t *testing.T) {
	data := []byte(`{
		"project": {"title": "Der Weg", "author": "E. Autor", "target_language": "en"},
		"content": {"source": "Es war einmal."},
		"context": {"previous_source": "Kapitel eins."},
		"analysis": {"writing_style": "sparse"},
		"paragraph_index": 7,
		"variables": {"imprint": "Kleinverlag"},
		"macros": {"book_info": "custom"}
	}`)

	inf, err := ParseInputsFile(data)
	if err != nil {
		t.Fatalf("ParseInputsFile() error: %v", err)
	}

	if inf.Inputs.Project.Title != "Der Weg" {
		t.Errorf("project.title = %q", inf.Inputs.Project.Title)
	}
	if inf.Inputs.Content.Source != "Es war einmal." {
		t.Errorf("content.source = %q", inf.Inputs.Content.Source)
	}
	if inf.Inputs.Analysis == nil || inf.Inputs.Analysis.WritingStyle != "sparse" {
		t.Errorf("analysis = %+v", inf.Inputs.Analysis)
	}
	if inf.Inputs.ParagraphIndex != 7 {
		t.Errorf("paragraph_index = %d", inf.Inputs.ParagraphIndex)
	}
	if inf.Inputs.User["imprint"].Str() != "Kleinverlag" {
		t.Errorf("user imprint = %q", inf.Inputs.User["imprint"].Str())
	}
	if inf.Macros["book_info"] != "custom" {
		t.Errorf("macros = %+v", inf.Macros)
	}
}

func TestParseInputsFile_EmptySections(t *testing.T) {
	inf, err := ParseInputsFile([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseInputsFile() error: %v", err)
	}
	if inf.Inputs.Analysis != nil {
		t.Error("absent analysis section became non-nil")
	}
	if len(inf.Macros) != 0 {
		t.Errorf("macros = %+v", inf.Macros)
	}

	// An empty inputs file still yields a renderable environment.
	env := Build(schema.StageTranslation, inf.Inputs)
	if v, ok := env.Resolve("derived.has_analysis"); !ok || v.IsTrue() {
		t.Error("has_analysis should be present and false")
	}
}

func TestParseInputsFile_Malformed(t *testing.T) {
	if _, err := ParseInputsFile([]byte(`{"project": "nope"}`)); err == nil {
		t.Error("string project section did not fail")
	}
}
