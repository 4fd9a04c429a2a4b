// Package phh parses poker hand-history files in the .phhs text format.
//
// A file is a sequence of hand records. A line starting with "[" delimits
// records; every other non-blank line is a "key = value" field. List-valued
// fields use bracket syntax with ", " separators. The Scanner yields one
// RawHand per record, lazily, in file order.
package phh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawHand is one parsed hand record, prior to normalization.
// List fields are positionally aligned with Players; Winnings stays nil
// when the source record omits the field.
type RawHand struct {
	Variant string
	Venue   string
	Table   string
	Day     string
	Month   string
	Year    string
	HandID  string

	Players        []string
	StartingStacks []float64
	Winnings       []float64
	Actions        []string
}

// ParseError reports a structural grammar violation. Structural errors fail
// the whole file: a batch refresh must not silently under-populate the store.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Scanner reads RawHand records from a hand-history stream. It is not
// restartable; reparse by reopening the source.
type Scanner struct {
	r    *bufio.Scanner
	line int

	cur           *RawHand
	pending       *RawHand
	pendingFields int
	err           error
	done          bool
}

// NewScanner wraps r for record-at-a-time scanning.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewScanner(r)}
}

// Scan advances to the next record. It returns false at end of input or on
// the first structural error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	for s.r.Scan() {
		s.line++
		line := strings.TrimSpace(s.r.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			// Delimiter: closes the accumulating record, opens a new one.
			// The delimiter's own content carries no data.
			closed := s.pending
			hadFields := s.pendingFields > 0
			s.pending = &RawHand{}
			s.pendingFields = 0
			if closed != nil && hadFields {
				s.cur = closed
				return true
			}
			continue
		}

		if s.pending == nil {
			s.pending = &RawHand{}
		}
		if err := applyField(s.pending, line); err != nil {
			s.err = &ParseError{Line: s.line, Msg: err.Error()}
			return false
		}
		s.pendingFields++
	}

	if err := s.r.Err(); err != nil {
		s.err = err
		return false
	}

	s.done = true
	if s.pending != nil && s.pendingFields > 0 {
		s.cur = s.pending
		s.pending = nil
		s.pendingFields = 0
		return true
	}
	return false
}

// Hand returns the record produced by the last successful Scan.
func (s *Scanner) Hand() RawHand {
	if s.cur == nil {
		return RawHand{}
	}
	return *s.cur
}

// Err returns the first error encountered while scanning.
func (s *Scanner) Err() error {
	return s.err
}

func applyField(h *RawHand, line string) error {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return fmt.Errorf("field line without '=' separator: %q", line)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "variant":
		h.Variant = value
	case "venue":
		h.Venue = value
	case "table":
		h.Table = value
	case "day":
		h.Day = value
	case "month":
		h.Month = value
	case "year":
		h.Year = value
	case "hand":
		h.HandID = value
	case "players":
		h.Players = splitTokens(value)
	case "starting_stacks":
		nums, err := splitNumbers(value)
		if err != nil {
			return fmt.Errorf("starting_stacks: %w", err)
		}
		h.StartingStacks = nums
	case "winnings":
		nums, err := splitNumbers(value)
		if err != nil {
			return fmt.Errorf("winnings: %w", err)
		}
		h.Winnings = nums
	case "actions":
		h.Actions = splitTokens(value)
	default:
		// Unrecognized keys are skipped for forward compatibility.
	}
	return nil
}

// splitTokens strips the surrounding bracket pair, splits on ", ", and
// unquotes each element.
func splitTokens(value string) []string {
	inner := stripBrackets(value)
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ", ")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, unquote(strings.TrimSpace(p)))
	}
	return tokens
}

func splitNumbers(value string) ([]float64, error) {
	inner := stripBrackets(value)
	if inner == "" {
		// Present but empty is distinct from absent: the normalizer
		// length-checks any list the record actually carries.
		return []float64{}, nil
	}
	parts := strings.Split(inner, ", ")
	nums := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as number", p)
		}
		nums = append(nums, f)
	}
	return nums, nil
}

func stripBrackets(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	return strings.TrimSpace(value)
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
