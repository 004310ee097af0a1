package vars

import (
	"encoding/json"
	"fmt"
	"os"
)

// InputsFile is a full render input read from disk: the structured pipeline
// inputs plus user variables and macros.
type InputsFile struct {
	Inputs Inputs
	Macros map[string]string
}

// LoadInputsFile reads a render inputs JSON file of the form
//
//	{
//	  "project": {...}, "content": {...}, "context": {...},
//	  "pipeline": {...}, "analysis": {...},
//	  "paragraph_index": 3, "chapter_index": 1,
//	  "variables": {...}, "macros": {"name": "body", ...}
//	}
//
// Every section is optional.
func LoadInputsFile(path string) (*InputsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs file: %w", err)
	}
	return ParseInputsFile(data)
}

// ParseInputsFile parses inputs-file JSON content.
func ParseInputsFile(data []byte) (*InputsFile, error) {
	var raw struct {
		Project        Project           `json:"project"`
		Content        Content           `json:"content"`
		Context        Context           `json:"context"`
		Pipeline       Pipeline          `json:"pipeline"`
		Analysis       *Analysis         `json:"analysis"`
		ParagraphIndex int               `json:"paragraph_index"`
		ChapterIndex   int               `json:"chapter_index"`
		Variables      json.RawMessage   `json:"variables"`
		Macros         map[string]string `json:"macros"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse inputs file: %w", err)
	}

	in := Inputs{
		Project:        raw.Project,
		Content:        raw.Content,
		Context:        raw.Context,
		Pipeline:       raw.Pipeline,
		Analysis:       raw.Analysis,
		ParagraphIndex: raw.ParagraphIndex,
		ChapterIndex:   raw.ChapterIndex,
	}

	// The user variable section shares its format with the variables file.
	if len(raw.Variables) > 0 {
		userDoc, err := json.Marshal(map[string]json.RawMessage{"variables": raw.Variables})
		if err != nil {
			return nil, fmt.Errorf("parse variables: %w", err)
		}
		uf, err := ParseUserFile(userDoc)
		if err != nil {
			return nil, err
		}
		in.User = uf.Variables
	}

	macros := raw.Macros
	if macros == nil {
		macros = make(map[string]string)
	}

	return &InputsFile{Inputs: in, Macros: macros}, nil
}
