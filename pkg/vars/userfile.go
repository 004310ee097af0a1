package vars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"rosetta-hq/rosetta/pkg/rtl/resolver"
)

// UserFile is the parsed project variables file: user-defined template
// variables (exposed under user.*) and user-defined macros (which shadow
// the built-ins).
type UserFile struct {
	Variables map[string]resolver.Value
	Macros    map[string]string
}

// LoadUserFile reads a project variables JSON file of the form
//
//	{"variables": {...}, "macros": {"name": "body", ...}}
//
// Variable values may be strings, numbers, booleans, arrays, or objects;
// object key order is preserved.
func LoadUserFile(path string) (*UserFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variables file: %w", err)
	}
	return ParseUserFile(data)
}

// ParseUserFile parses variables-file JSON content.
func ParseUserFile(data []byte) (*UserFile, error) {
	var raw struct {
		Variables json.RawMessage   `json:"variables"`
		Macros    map[string]string `json:"macros"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse variables file: %w", err)
	}

	uf := &UserFile{
		Variables: make(map[string]resolver.Value),
		Macros:    raw.Macros,
	}
	if uf.Macros == nil {
		uf.Macros = make(map[string]string)
	}

	if len(raw.Variables) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw.Variables))
		dec.UseNumber()

		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse variables: %w", err)
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("variables must be a JSON object")
		}

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parse variables: %w", err)
			}
			key := keyTok.(string)

			v, err := decodeValue(dec)
			if err != nil {
				return nil, fmt.Errorf("parse variable %q: %w", key, err)
			}
			uf.Variables[key] = v
		}
	}

	return uf, nil
}

// decodeValue reads one JSON value from the decoder into a typed template
// value. Objects keep their key order, which json.Unmarshal into a map
// would lose.
func decodeValue(dec *json.Decoder) (resolver.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return resolver.Value{}, err
	}

	switch t := tok.(type) {
	case string:
		return resolver.String(t), nil

	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return resolver.Value{}, err
		}
		return resolver.Number(f), nil

	case bool:
		return resolver.Bool(t), nil

	case nil:
		return resolver.String(""), nil

	case json.Delim:
		switch t {
		case json.Delim('['):
			var elems []resolver.Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return resolver.Value{}, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // Consume ']'
				return resolver.Value{}, err
			}
			return resolver.Sequence(elems...), nil

		case json.Delim('{'):
			var entries []resolver.MapEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return resolver.Value{}, err
				}
				key := keyTok.(string)
				v, err := decodeValue(dec)
				if err != nil {
					return resolver.Value{}, err
				}
				entries = append(entries, resolver.MapEntry{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil { // Consume '}'
				return resolver.Value{}, err
			}
			return resolver.Mapping(entries...), nil
		}
	}

	return resolver.Value{}, fmt.Errorf("unsupported JSON value %v", tok)
}
