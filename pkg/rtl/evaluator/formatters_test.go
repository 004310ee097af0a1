package evaluator

import (
	"testing"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/resolver"
)

func TestApplyFormatter(t *testing.T) {
	terminology := resolver.StringMap("Weg", "road", "Haus", "house")
	names := resolver.Strings("Anna", "Jens")

	tests := []struct {
		name     string
		v        resolver.Value
		f        ast.Formatter
		want     string
		degraded bool
	}{
		{
			name: "list over sequence",
			v:    names,
			f:    ast.FormatterList,
			want: "- Anna\n- Jens",
		},
		{
			name: "list over mapping",
			v:    terminology,
			f:    ast.FormatterList,
			want: "- Weg: road\n- Haus: house",
		},
		{
			name:     "list over string degrades",
			v:        resolver.String("solo"),
			f:        ast.FormatterList,
			want:     "solo",
			degraded: true,
		},
		{
			name: "table over mapping",
			v:    terminology,
			f:    ast.FormatterTable,
			want: "| Term | Translation |\n|------|-------------|\n| Weg | road |\n| Haus | house |",
		},
		{
			name:     "table over sequence degrades",
			v:        names,
			f:        ast.FormatterTable,
			want:     "Anna, Jens",
			degraded: true,
		},
		{
			name: "terminology over mapping",
			v:    terminology,
			f:    ast.FormatterTerminology,
			want: "- Weg: road\n- Haus: house",
		},
		{
			name: "terminology over sequence",
			v:    names,
			f:    ast.FormatterTerminology,
			want: "- Anna\n- Jens",
		},
		{
			name:     "terminology over number degrades",
			v:        resolver.Number(7),
			f:        ast.FormatterTerminology,
			want:     "7",
			degraded: true,
		},
		{
			name: "json string",
			v:    resolver.String("hi"),
			f:    ast.FormatterJSON,
			want: `"hi"`,
		},
		{
			name: "json mapping keeps order",
			v:    terminology,
			f:    ast.FormatterJSON,
			want: `{"Weg":"road","Haus":"house"}`,
		},
		{
			name: "json sequence",
			v:    names,
			f:    ast.FormatterJSON,
			want: `["Anna","Jens"]`,
		},
		{
			name: "inline collapses whitespace",
			v:    resolver.String("one\ntwo   three"),
			f:    ast.FormatterInline,
			want: "one two three",
		},
		{
			name: "inline sequence",
			v:    names,
			f:    ast.FormatterInline,
			want: "Anna, Jens",
		},
		{
			name: "no formatter stringifies",
			v:    terminology,
			f:    ast.FormatterNone,
			want: "Weg: road, Haus: house",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := rtlErrors.NewList()
			got := applyFormatter(tt.v, tt.f, "test.path", ast.Location{}, diags)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if tt.degraded != diags.HasCategory(rtlErrors.CategoryFormat) {
				t.Errorf("format diagnostic presence = %v, want %v: %v",
					diags.HasCategory(rtlErrors.CategoryFormat), tt.degraded, diags)
			}
			if diags.HasErrors() {
				t.Errorf("formatter degradation must stay a warning: %v", diags)
			}
		})
	}
}
