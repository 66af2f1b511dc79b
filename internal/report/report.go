// Package report renders experiment comparisons for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/turnout/internal/core/election"
	"github.com/louisbranch/turnout/internal/experiment"
	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates an unsupported report format.
var ErrUnknownFormat = apperrors.New(apperrors.CodeReportFormatUnknown, "unknown report format")

// ParseFormat resolves a case-insensitive format name. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", apperrors.Detail(ErrUnknownFormat, map[string]string{"format": name})
	}
}

// Write renders c to w in the given format.
func Write(w io.Writer, format Format, c experiment.Comparison) error {
	switch format {
	case FormatText:
		return WriteText(w, language.AmericanEnglish, c)
	case FormatJSON:
		return WriteJSON(w, c)
	default:
		return apperrors.Detail(ErrUnknownFormat, map[string]string{"format": string(format)})
	}
}

// WriteText prints the two intervals and the overlap conclusion, formatting
// counts for tag. The seed is printed as plain digits so it can be fed back
// through TURNOUT_SEED.
func WriteText(w io.Writer, tag language.Tag, c experiment.Comparison) error {
	p := message.NewPrinter(tag)

	lines := []string{
		p.Sprintf("Run %s (seed %s, %d workers)", c.RunID, strconv.FormatInt(c.Seed, 10), c.Workers),
		resultLine(p, c.Baseline),
		resultLine(p, c.Treatment),
		conclusionLine(c),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func resultLine(p *message.Printer, r experiment.Result) string {
	return p.Sprintf("P(%s wins | %s) = %s (n = %d).",
		"Bloc "+election.Challenger.String(), r.Scenario.Name, r.Interval, r.Estimate.Trials)
}

func conclusionLine(c experiment.Comparison) string {
	switch c.Conclusion() {
	case experiment.ConclusionInconclusive:
		return ">> Conclusion: Inconclusive, a confidence interval has zero width."
	case experiment.ConclusionSeparated:
		return ">> Conclusion: These two populations are NOT equal."
	default:
		return ">> Conclusion: These two populations are equal."
	}
}

// Document is the JSON shape of a comparison.
type Document struct {
	RunID       string         `json:"run_id"`
	Seed        int64          `json:"seed"`
	Workers     int            `json:"workers"`
	Baseline    ResultDocument `json:"baseline"`
	Treatment   ResultDocument `json:"treatment"`
	Overlap     bool           `json:"overlap"`
	Degenerate  bool           `json:"degenerate"`
	Conclusion  string         `json:"conclusion"`
	Significant bool           `json:"significant"`
}

// ResultDocument is the JSON shape of a single scenario result.
type ResultDocument struct {
	Scenario       string  `json:"scenario"`
	ElectorateSize int     `json:"electorate_size"`
	TurnoutA       float64 `json:"turnout_a"`
	TurnoutB       float64 `json:"turnout_b"`
	Trials         int     `json:"trials"`
	Wins           int     `json:"wins"`
	Proportion     float64 `json:"proportion"`
	Lower          float64 `json:"lower"`
	Upper          float64 `json:"upper"`
	ElapsedMS      int64   `json:"elapsed_ms"`
}

// NewDocument converts a comparison into its JSON shape.
func NewDocument(c experiment.Comparison) Document {
	return Document{
		RunID:       c.RunID.String(),
		Seed:        c.Seed,
		Workers:     c.Workers,
		Baseline:    newResultDocument(c.Baseline),
		Treatment:   newResultDocument(c.Treatment),
		Overlap:     c.Overlap,
		Degenerate:  c.Degenerate,
		Conclusion:  string(c.Conclusion()),
		Significant: c.Significant(),
	}
}

func newResultDocument(r experiment.Result) ResultDocument {
	return ResultDocument{
		Scenario:       r.Scenario.Name,
		ElectorateSize: r.Scenario.Election.Size,
		TurnoutA:       r.Scenario.Election.TurnoutA,
		TurnoutB:       r.Scenario.Election.TurnoutB,
		Trials:         r.Estimate.Trials,
		Wins:           r.Estimate.Successes,
		Proportion:     r.Estimate.Proportion(),
		Lower:          r.Interval.Lower,
		Upper:          r.Interval.Upper,
		ElapsedMS:      r.Elapsed.Milliseconds(),
	}
}

// WriteJSON encodes c as an indented JSON document.
func WriteJSON(w io.Writer, c experiment.Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(c)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
