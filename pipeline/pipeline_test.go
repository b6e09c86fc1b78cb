package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subject struct{ name string }

type input struct {
	seen []string
}

type result struct{ code int }

// spy returns a check that records its invocation and returns res.
func spy(name string, calls map[string]int, res *result) Check[*subject, *input, result] {
	return func(_ *subject, in *input) (*result, error) {
		calls[name]++
		in.seen = append(in.seen, name)
		return res, nil
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		resolveAt int // -1 means no check resolves
		checks    int
		expCode   int
		expCalled []string
	}{
		{
			name:      "ok/first_resolves",
			resolveAt: 0,
			checks:    4,
			expCode:   100,
			expCalled: []string{"c0"},
		},
		{
			name:      "ok/middle_resolves",
			resolveAt: 2,
			checks:    4,
			expCode:   102,
			expCalled: []string{"c0", "c1", "c2"},
		},
		{
			name:      "ok/last_resolves",
			resolveAt: 3,
			checks:    4,
			expCode:   103,
			expCalled: []string{"c0", "c1", "c2", "c3"},
		},
		{
			name:      "ok/none_resolves",
			resolveAt: -1,
			checks:    3,
			expCode:   500,
			expCalled: []string{"c0", "c1", "c2"},
		},
		{
			name:      "ok/no_checks",
			resolveAt: -1,
			checks:    0,
			expCode:   500,
			expCalled: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := map[string]int{}
			checks := make([]Check[*subject, *input, result], 0, tt.checks)
			names := []string{"c0", "c1", "c2", "c3"}
			for i := range tt.checks {
				var res *result
				if i == tt.resolveAt {
					res = &result{code: 100 + i}
				}
				checks = append(checks, spy(names[i], calls, res))
			}

			in := &input{}
			state, err := Run(Unresolved(&subject{}, in, &result{code: 500}), checks...)
			require.NoError(t, err)

			assert.Equal(t, tt.expCode, state.Value().code)
			assert.Equal(t, tt.resolveAt >= 0, state.IsResolved())
			assert.Equal(t, tt.resolveAt, state.Step())
			assert.Equal(t, tt.expCalled, in.seen)
			for i := range tt.checks {
				exp := 0
				if tt.resolveAt < 0 || i <= tt.resolveAt {
					exp = 1
				}
				assert.Equal(t, exp, calls[names[i]], "check %s", names[i])
			}
		})
	}
}

func TestRunSamePairAndMutations(t *testing.T) {
	t.Parallel()

	subj := &subject{name: "res"}
	in := &input{}

	var (
		gotSubjects []*subject
		gotInputs   []*input
	)
	record := func(s *subject, i *input) {
		gotSubjects = append(gotSubjects, s)
		gotInputs = append(gotInputs, i)
	}

	checks := []Check[*subject, *input, result]{
		func(s *subject, i *input) (*result, error) {
			record(s, i)
			i.seen = append(i.seen, "attached")
			return nil, nil
		},
		func(s *subject, i *input) (*result, error) {
			record(s, i)
			if len(i.seen) == 1 && i.seen[0] == "attached" {
				return &result{code: 200}, nil
			}
			return &result{code: 400}, nil
		},
	}

	state, err := Run(Unresolved(subj, in, &result{code: 500}), checks...)
	require.NoError(t, err)

	assert.Equal(t, 200, state.Value().code)
	for i := range gotSubjects {
		assert.Same(t, subj, gotSubjects[i])
		assert.Same(t, in, gotInputs[i])
	}
}

func TestRunError(t *testing.T) {
	t.Parallel()

	calls := map[string]int{}
	errBoom := errors.New("boom")
	in := &input{}

	checks := []Check[*subject, *input, result]{
		spy("c0", calls, nil),
		func(*subject, *input) (*result, error) {
			calls["c1"]++
			return &result{code: 999}, errBoom
		},
		spy("c2", calls, &result{code: 200}),
	}

	state, err := Run(Unresolved(&subject{}, in, &result{code: 500}), checks...)
	require.ErrorIs(t, err, errBoom)

	assert.False(t, state.IsResolved())
	assert.Equal(t, 500, state.Value().code)
	assert.Equal(t, 1, calls["c0"])
	assert.Equal(t, 1, calls["c1"])
	assert.Equal(t, 0, calls["c2"])
}

func TestBindResolvedIsIdentity(t *testing.T) {
	t.Parallel()

	state := Resolved[*subject, *input](&result{code: 204})

	called := false
	next, err := state.Bind(func(*subject, *input) (*result, error) {
		called = true
		return &result{code: 500}, nil
	})
	require.NoError(t, err)

	assert.False(t, called)
	assert.True(t, next.IsResolved())
	assert.Equal(t, 204, next.Value().code)
	assert.Same(t, state.Value(), next.Value())
}

func TestRunAlreadyResolved(t *testing.T) {
	t.Parallel()

	calls := map[string]int{}
	state, err := Run(Resolved[*subject, *input](&result{code: 304}),
		spy("c0", calls, &result{code: 200}))
	require.NoError(t, err)

	assert.Equal(t, 304, state.Value().code)
	assert.Equal(t, -1, state.Step())
	assert.Zero(t, calls["c0"])
}
