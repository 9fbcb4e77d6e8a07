package scorer

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JovelRamos/myfi-server/internal/config"
)

func newShellScorer(t *testing.T, script string) *ProcessScorer {
	t.Helper()
	return NewProcessScorer(EngineContentBased, config.EngineConfig{
		Command: "/bin/sh",
		Args:    []string{"-c", script},
	}, slog.New(slog.DiscardHandler))
}

func TestScoreParsesResults(t *testing.T) {
	s := newShellScorer(t, `echo '[
		{"id":"OL1W","title":"Dune","author_names":["Frank Herbert"],"cover_id":"11481354","similarity_score":0.91,"method":"content_based"},
		{"id":"OL2W","title":"Hyperion","author":"Dan Simmons","coverId":9781234,"similarity_score":0.64,"method":"content_based"}
	]'`)

	results, err := s.Score(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "OL1W", results[0].ID)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, []string{"Frank Herbert"}, results[0].AuthorNames)
	assert.Equal(t, "11481354", results[0].CoverID)
	assert.InDelta(t, 0.91, results[0].Score, 1e-9)

	// Legacy field spellings still decode.
	assert.Equal(t, []string{"Dan Simmons"}, results[1].AuthorNames)
	assert.Equal(t, "9781234", results[1].CoverID)
}

func TestScoreEmptyArray(t *testing.T) {
	s := newShellScorer(t, `echo '[]'`)

	results, err := s.Score(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreNonZeroExit(t *testing.T) {
	s := newShellScorer(t, `echo 'no ratings found for user' >&2; echo '[]'; exit 3`)

	results, err := s.Score(context.Background(), nil)
	assert.Nil(t, results)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.ExitCode)
	assert.Contains(t, perr.Stderr, "no ratings found")
	assert.False(t, perr.Timeout)
}

func TestScoreStdoutIgnoredOnFailure(t *testing.T) {
	// A failing engine prints an empty array before exiting; the run is
	// still a failure, never an empty success.
	s := newShellScorer(t, `echo '[{"id":"OL1W","title":"Dune","similarity_score":0.9}]'; exit 1`)

	results, err := s.Score(context.Background(), nil)
	assert.Nil(t, results)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.ExitCode)
}

func TestScoreMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"not json", `echo 'Traceback (most recent call last)'`},
		{"not an array", `echo '{"id":"OL1W"}'`},
		{"entry missing id", `echo '[{"title":"Dune","similarity_score":0.9}]'`},
		{"entry missing title", `echo '[{"id":"OL1W","similarity_score":0.9}]'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShellScorer(t, tt.script)

			results, err := s.Score(context.Background(), nil)
			assert.Nil(t, results)

			var merr *MalformedOutputError
			require.ErrorAs(t, err, &merr)
			assert.NotEmpty(t, merr.Raw)
		})
	}
}

func TestScoreContextDeadline(t *testing.T) {
	s := newShellScorer(t, `exec sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results, err := s.Score(ctx, nil)
	assert.Nil(t, results)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Timeout)
	assert.Equal(t, -1, perr.ExitCode)
}

func TestScoreContextCanceled(t *testing.T) {
	s := newShellScorer(t, `exec sleep 10`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := s.Score(ctx, nil)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Timeout)
	assert.Equal(t, -1, perr.ExitCode)
}

func TestScoreCommandNotFound(t *testing.T) {
	s := NewProcessScorer(EngineCollaborative, config.EngineConfig{
		Command: "/nonexistent/scoring-engine",
	}, slog.New(slog.DiscardHandler))

	_, err := s.Score(context.Background(), []string{"user-1"})

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, -1, perr.ExitCode)
}

func TestScoreAppendsRequestArgs(t *testing.T) {
	// $0 is the fixed arg, request args land in $1..$n.
	s := NewProcessScorer(EngineContentBased, config.EngineConfig{
		Command: "/bin/sh",
		Args:    []string{"-c", `printf '[{"id":"%s","title":"%s","similarity_score":0.5}]' "$1" "$2"`, "scorer"},
	}, slog.New(slog.DiscardHandler))

	results, err := s.Score(context.Background(), []string{"OL42W", "Anchor"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "OL42W", results[0].ID)
	assert.Equal(t, "Anchor", results[0].Title)
}

func TestProcessErrorMessage(t *testing.T) {
	assert.Contains(t, (&ProcessError{ExitCode: 2}).Error(), "code 2")
	assert.Contains(t, (&ProcessError{ExitCode: -1, Timeout: true}).Error(), "timed out")
}

var _ Scorer = (*ProcessScorer)(nil)

func TestMalformedOutputUnwrap(t *testing.T) {
	cause := errors.New("bad entry")
	err := &MalformedOutputError{Raw: "x", Err: cause}
	assert.ErrorIs(t, err, cause)
}
