package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownToken is the wire form of an "I don't know" answer ("Tidak Tahu").
const UnknownToken = "TT"

type answerKind uint8

const (
	answerMissing answerKind = iota
	answerScored
	answerUnknown
)

// Answer is a single Likert response: either a score 1..5 or Unknown.
// The zero value is an unanswered item.
type Answer struct {
	kind  answerKind
	value int
}

// Answers holds one tier's responses: risk code -> item code -> answer.
type Answers map[string]map[string]Answer

// Scored builds an answered item. v must be within 1..5.
func Scored(v int) (Answer, error) {
	if v < 1 || v > 5 {
		return Answer{}, fmt.Errorf("%w: answer %d outside 1..5", ErrInvalidInput, v)
	}
	return Answer{kind: answerScored, value: v}, nil
}

// Unknown builds an "I don't know" answer.
func Unknown() Answer {
	return Answer{kind: answerUnknown}
}

// IsUnknown reports whether the respondent answered "unknown".
func (a Answer) IsUnknown() bool { return a.kind == answerUnknown }

// Value returns the Likert score, if there is one.
func (a Answer) Value() (int, bool) {
	return a.value, a.kind == answerScored
}

func (a Answer) String() string {
	switch a.kind {
	case answerScored:
		return strconv.Itoa(a.value)
	case answerUnknown:
		return UnknownToken
	default:
		return ""
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerScored:
		return []byte(strconv.Itoa(a.value)), nil
	case answerUnknown:
		return json.Marshal(UnknownToken)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return a.parse(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: answer %s", ErrInvalidInput, data)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("%w: answer %s is not an integer", ErrInvalidInput, data)
	}
	parsed, err := Scored(int(f))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Answer) MarshalYAML() (interface{}, error) {
	switch a.kind {
	case answerScored:
		return a.value, nil
	case answerUnknown:
		return UnknownToken, nil
	default:
		return nil, nil
	}
}

func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: answer at line %d is not a scalar", ErrInvalidInput, node.Line)
	}
	if node.Tag == "!!null" {
		*a = Answer{}
		return nil
	}
	return a.parse(node.Value)
}

// parse accepts the unknown sentinels ("TT", "unknown") and numeric strings.
func (a *Answer) parse(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		*a = Answer{}
		return nil
	case strings.EqualFold(s, UnknownToken), strings.EqualFold(s, "unknown"):
		*a = Unknown()
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: answer %q", ErrInvalidInput, s)
	}
	parsed, err := Scored(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
