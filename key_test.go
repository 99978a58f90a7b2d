package includedir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already slashed", "data/inner/boom", "data/inner/boom"},
		{"backslashes", `data\inner\boom`, "data/inner/boom"},
		{"mixed", `data/inner\boom`, "data/inner/boom"},
		{"single file", "foo", "foo"},
		{"empty", "", ""},
		{"no cleaning", "data/./foo", "data/./foo"},
		{"drive letter", `C:\src\data\foo`, "C:/src/data/foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}
