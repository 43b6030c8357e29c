package worker

import (
	"reflect"
	"testing"
)

func TestExtractArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "single id",
			output: "Created widget record 9d385c0f2fb0120024f1a97a2eae4b43.",
			want:   []string{"9d385c0f2fb0120024f1a97a2eae4b43"},
		},
		{
			name: "multiple ids with duplicate",
			output: "Created 9d385c0f2fb0120024f1a97a2eae4b43 and then updated " +
				"9d385c0f2fb0120024f1a97a2eae4b43, also made aa165c0f2fb0120024f1a97a2eae4b99.",
			want: []string{
				"9d385c0f2fb0120024f1a97a2eae4b43",
				"aa165c0f2fb0120024f1a97a2eae4b99",
			},
		},
		{
			name:   "no ids",
			output: "I investigated the tables but created nothing.",
			want:   nil,
		},
		{
			name:   "too short",
			output: "id 9d385c0f2fb0120024f1a97a2eae4b4 is 31 chars",
			want:   nil,
		},
		{
			name:   "embedded in longer hex is not matched",
			output: "hash 9d385c0f2fb0120024f1a97a2eae4b43ff is 34 chars",
			want:   nil,
		},
		{
			name:   "uppercase hex is not a record id",
			output: "9D385C0F2FB0120024F1A97A2EAE4B43",
			want:   nil,
		},
		{
			name:   "first occurrence order preserved",
			output: "bb165c0f2fb0120024f1a97a2eae4b99 then 9d385c0f2fb0120024f1a97a2eae4b43",
			want: []string{
				"bb165c0f2fb0120024f1a97a2eae4b99",
				"9d385c0f2fb0120024f1a97a2eae4b43",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractArtifacts(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractArtifacts() = %v, want %v", got, tt.want)
			}
		})
	}
}
