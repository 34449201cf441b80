package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pure_object",
			input: `{"key":"value"}`,
			want:  `{"key":"value"}`,
		},
		{
			name:  "object_with_preamble",
			input: `Here is the analysis: {"key":"value"} done.`,
			want:  `{"key":"value"}`,
		},
		{
			name:  "markdown_wrapped_object",
			input: "```json\n{\"quality_score\":80}\n```",
			want:  `{"quality_score":80}`,
		},
		{
			name:  "pure_array",
			input: `[{"a":1}]`,
			want:  `[{"a":1}]`,
		},
		{
			name:  "array_with_preamble",
			input: `Result: [{"a":1}]`,
			want:  `[{"a":1}]`,
		},
		{
			name:  "no_json",
			input: "just some text",
			want:  "just some text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Run("valid_with_prose", func(t *testing.T) {
		content := "Sure, here it is:\n" +
			`{"problem_description":"desc","solution_concept":"concept","core_functions":["a","b"],"quality_score":72}`

		analysis, err := parseAnalysis(content)
		if err != nil {
			t.Fatalf("parseAnalysis() error = %v", err)
		}

		if analysis.SolutionConcept != "concept" || analysis.QualityScore != 72 {
			t.Errorf("analysis = %+v", analysis)
		}

		if len(analysis.CoreFunctions) != 2 {
			t.Errorf("CoreFunctions = %v, want 2 entries", analysis.CoreFunctions)
		}
	})

	t.Run("clamps_quality_score", func(t *testing.T) {
		analysis, err := parseAnalysis(`{"quality_score":140}`)
		if err != nil {
			t.Fatalf("parseAnalysis() error = %v", err)
		}

		if analysis.QualityScore != 100 {
			t.Errorf("QualityScore = %v, want clamped to 100", analysis.QualityScore)
		}

		analysis, err = parseAnalysis(`{"quality_score":-5}`)
		if err != nil {
			t.Fatalf("parseAnalysis() error = %v", err)
		}

		if analysis.QualityScore != 0 {
			t.Errorf("QualityScore = %v, want clamped to 0", analysis.QualityScore)
		}
	})

	t.Run("invalid_json", func(t *testing.T) {
		if _, err := parseAnalysis("not json at all"); err == nil {
			t.Error("expected decode error")
		}
	})
}
