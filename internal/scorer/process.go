package scorer

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/domain"
)

// ProcessScorer runs a scoring engine as a subprocess. Each Score call
// launches one process, waits for it to exit, and parses its stdout in
// full. The adapter imposes no timeout of its own; callers bound the run
// through the context, and an expired context surfaces as a ProcessError
// with a synthetic exit code.
type ProcessScorer struct {
	kind    EngineKind
	command string
	args    []string
	logger  *slog.Logger
}

// NewProcessScorer builds a subprocess-backed engine from its launch
// configuration.
func NewProcessScorer(kind EngineKind, cfg config.EngineConfig, logger *slog.Logger) *ProcessScorer {
	return &ProcessScorer{
		kind:    kind,
		command: cfg.Command,
		args:    slices.Clone(cfg.Args),
		logger:  logger.With("engine", string(kind)),
	}
}

func (p *ProcessScorer) Score(ctx context.Context, args []string) ([]domain.ScoredBook, error) {
	argv := append(slices.Clone(p.args), args...)
	cmd := exec.CommandContext(ctx, p.command, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// If the engine forks and a child inherits the pipes, don't wait on
	// the orphan after the engine itself is gone.
	cmd.WaitDelay = 5 * time.Second

	started := time.Now()
	runErr := cmd.Run()

	if runErr != nil {
		perr := &ProcessError{ExitCode: -1, Stderr: stderr.String()}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The runner kills the process on context expiry; report the
			// deadline rather than the kill signal.
			perr.ExitCode = -1
			perr.Timeout = errors.Is(ctxErr, context.DeadlineExceeded)
		}
		p.logger.Warn("scoring engine failed",
			"exit_code", perr.ExitCode,
			"timeout", perr.Timeout,
			"duration", time.Since(started),
			"stderr", truncate(perr.Stderr, 2048))
		return nil, perr
	}

	results, err := parseResults(stdout.Bytes())
	if err != nil {
		p.logger.Warn("scoring engine output rejected",
			"duration", time.Since(started),
			"error", err)
		return nil, &MalformedOutputError{Raw: stdout.String(), Err: err}
	}

	p.logger.Debug("scoring engine completed",
		"results", len(results),
		"duration", time.Since(started))
	return results, nil
}

// resultEntry mirrors one element of the engines' output array. The engines
// have drifted on field naming over time, so the author and cover fields
// each accept the variants observed in the wild.
type resultEntry struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	AuthorNames     []string `json:"author_names"`
	Author          string   `json:"author"`
	CoverID         coverRef `json:"cover_id"`
	CoverIDCamel    coverRef `json:"coverId"`
	CoverEditionKey coverRef `json:"cover_edition_key"`
	Score           float64  `json:"similarity_score"`
	Method          string   `json:"method"`
}

// coverRef tolerates covers encoded as either a JSON string or a number.
type coverRef string

func (c *coverRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*c = coverRef(unquoted)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("cover reference is neither string nor number: %s", s)
	}
	*c = coverRef(s)
	return nil
}

func (e *resultEntry) cover() string {
	for _, ref := range []coverRef{e.CoverID, e.CoverIDCamel, e.CoverEditionKey} {
		if ref != "" {
			return string(ref)
		}
	}
	return ""
}

func (e *resultEntry) authors() []string {
	if len(e.AuthorNames) > 0 {
		return e.AuthorNames
	}
	if e.Author != "" {
		return []string{e.Author}
	}
	return nil
}

func parseResults(raw []byte) ([]domain.ScoredBook, error) {
	var entries []resultEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding result array: %w", err)
	}

	results := make([]domain.ScoredBook, 0, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("entry %d is missing an id", i)
		}
		if entry.Title == "" {
			return nil, fmt.Errorf("entry %d (%s) is missing a title", i, entry.ID)
		}
		results = append(results, domain.ScoredBook{
			ID:          entry.ID,
			Title:       entry.Title,
			AuthorNames: entry.authors(),
			CoverID:     entry.cover(),
			Score:       entry.Score,
		})
	}
	return results, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
