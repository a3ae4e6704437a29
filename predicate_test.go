package matchex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXpFromValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{name: "string", value: "cat", want: "cat"},
		{name: "string with metacharacters", value: "a+b", want: `a\+b`},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: 42, want: "42"},
		{name: "whole float", value: float64(3), want: "3"},
		{name: "fractional float", value: 3.5, wantErr: true},
		{name: "unsupported type", value: []int{1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := xpFromValue(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXpFromRegex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "fully anchored", expr: "^cat$", want: "cat"},
		{name: "start anchored", expr: "^cat", want: "cat"},
		{name: "end anchored", expr: "cat$", want: "cat"},
		{name: "unanchored gets padded", expr: "cat", want: `[^ ]*?cat[^ ]*?`},
		{name: "caret in class survives", expr: "^[^abc]+$", want: "[^abc]+"},
		{name: "escaped anchors survive", expr: `\^cat\$`, want: `[^ ]*?\^cat\$[^ ]*?`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, xpFromRegex(tt.expr))
		})
	}
}

func TestXpFromSet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pred    string
		arg     any
		want    string
		wantErr bool
	}{
		{name: "single member", pred: "IN", arg: []any{"NOUN"}, want: "NOUN"},
		{name: "several members", pred: "IN", arg: []any{"NOUN", "VERB"}, want: "(?:NOUN|VERB)"},
		{name: "string slice", pred: "IN", arg: []string{"a", "b"}, want: "(?:a|b)"},
		{name: "mixed value types", pred: "IN", arg: []any{"x", 2, true}, want: "(?:x|2|true)"},
		{name: "negated", pred: "NOT_IN", arg: []any{"DET"}, want: "(?!DET)[^ ]+"},
		{name: "not a list", pred: "IN", arg: "NOUN", wantErr: true},
		{name: "unsupported member", pred: "IN", arg: []any{1.5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := xpFromSet(tt.pred, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXpFromComparison(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pred    string
		arg     any
		want    string
		wantErr bool
	}{
		{name: "equals", pred: "==", arg: 3, want: `(?>[^ ]{3})`},
		{name: "equals zero never matches", pred: "==", arg: 0, want: neverMatch},
		{name: "not equals", pred: "!=", arg: 3, want: `(?>[^ ]{1,2}|[^ ]{4,})`},
		{name: "not equals one", pred: "!=", arg: 1, want: `(?>[^ ]{2,})`},
		{name: "at least", pred: ">=", arg: 2, want: `(?>[^ ]{2,})`},
		{name: "at least zero clamps to one", pred: ">=", arg: 0, want: `(?>[^ ]{1,})`},
		{name: "at most", pred: "<=", arg: 4, want: `(?>[^ ]{1,4})`},
		{name: "at most zero never matches", pred: "<=", arg: 0, want: neverMatch},
		{name: "greater", pred: ">", arg: 2, want: `(?>[^ ]{3,})`},
		{name: "less", pred: "<", arg: 3, want: `(?>[^ ]{1,2})`},
		{name: "less than one never matches", pred: "<", arg: 1, want: neverMatch},
		{name: "non-numeric argument", pred: "==", arg: "three", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := xpFromComparison(tt.pred, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXpFromPredicates(t *testing.T) {
	t.Parallel()
	got, err := xpFromPredicates(map[string]any{"IN": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "(?:a|b)", got)

	// lower-case predicate keys are accepted
	got, err = xpFromPredicates(map[string]any{"regex": "^x$"})
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = xpFromPredicates(map[string]any{"BETWEEN": []any{1, 2}})
	assert.Error(t, err)
}

func TestWrapQuantifier(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		q    string
		xp   string
		lazy bool
		want string
	}{
		{name: "one", q: quantOne, xp: "cat", want: "(cat)"},
		{name: "free regex", q: quantNone, xp: `\d+`, want: `(\d+)`},
		{name: "one or more", q: quantOnePlus, xp: "cat", want: `((?:cat(?:\s|^|$))+)`},
		{name: "one or more lazy", q: quantOnePlus, xp: `[^\s]+`, lazy: true, want: `((?:[^\s]+(?:\s|^|$))+?)`},
		{name: "zero or one", q: quantZeroOne, xp: "cat", want: `(cat(?:\s|^|$))?`},
		{name: "zero or more", q: quantZeroPlus, xp: "cat", want: `((?:cat(?:\s|^|$))*)`},
		{name: "negation", q: quantZero, xp: "cat", want: `(?!cat)([^ ]+)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := wrapQuantifier(tt.q, tt.xp, tt.lazy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := wrapQuantifier("2", "cat", false)
	assert.Error(t, err)
}
