package question

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// AnswerKey is the correct answer of a question. The concrete shape is
// fixed by the question type:
//
//	single choice       ChoiceIndex
//	multi choice        ChoiceSet
//	true/false, match   Statements
//	fill-in, essay      FreeText
type AnswerKey interface {
	answerKey()
}

// ChoiceIndex is a zero-based option position.
type ChoiceIndex int

// ChoiceSet holds zero-based option positions in authoring order.
type ChoiceSet []int

// Statements holds one verdict per statement.
type Statements []bool

type FreeText string

func (ChoiceIndex) answerKey() {}
func (ChoiceSet) answerKey()   {}
func (Statements) answerKey()  {}
func (FreeText) answerKey()    {}

const keySeparator = ", "

// Falsy tokens (S, SALAH, TS, TIDAK SESUAI, FALSE, 0) need no table: every
// token outside this set reads as false.
var truthyTokens = map[string]bool{"B": true, "BENAR": true, "SESUAI": true, "TRUE": true, "1": true, "T": true}

// DefaultAnswerKey returns the key used when nothing usable was supplied.
func DefaultAnswerKey(t Type) AnswerKey {
	switch t {
	case TypeMultiChoice:
		return ChoiceSet{}
	case TypeTrueFalse, TypeMatch:
		return Statements{}
	case TypeFillIn, TypeEssay:
		return FreeText("")
	default:
		return ChoiceIndex(0)
	}
}

// Conform returns key when its shape is legal for t and the type default
// otherwise.
func Conform(t Type, key AnswerKey) AnswerKey {
	switch t {
	case TypeMultiChoice:
		if v, ok := key.(ChoiceSet); ok && v != nil {
			return v
		}
	case TypeTrueFalse, TypeMatch:
		if v, ok := key.(Statements); ok && v != nil {
			return v
		}
	case TypeFillIn, TypeEssay:
		if v, ok := key.(FreeText); ok {
			return v
		}
	default:
		if v, ok := key.(ChoiceIndex); ok {
			return v
		}
	}
	return DefaultAnswerKey(t)
}

// EncodeAnswerKey prints key in the spreadsheet notation for t.
func EncodeAnswerKey(t Type, key AnswerKey) string {
	switch v := Conform(t, key).(type) {
	case ChoiceIndex:
		return choiceLabel(int(v))
	case ChoiceSet:
		sorted := append([]int(nil), v...)
		sort.Ints(sorted)
		labels := make([]string, 0, len(sorted))
		for _, idx := range sorted {
			labels = append(labels, choiceLabel(idx))
		}
		return strings.Join(labels, keySeparator)
	case Statements:
		yes, no := t.StatementLabels()
		labels := make([]string, 0, len(v))
		for _, ok := range v {
			if ok {
				labels = append(labels, yes)
			} else {
				labels = append(labels, no)
			}
		}
		return strings.Join(labels, keySeparator)
	case FreeText:
		return string(v)
	default:
		return ""
	}
}

// DecodeAnswerKey parses a hand-typed key cell. It never fails: anything it
// cannot read resolves to the documented default for t.
func DecodeAnswerKey(t Type, raw string) AnswerKey {
	switch t {
	case TypeMultiChoice:
		return decodeChoiceSet(raw)
	case TypeTrueFalse, TypeMatch:
		return decodeStatements(t, raw)
	case TypeFillIn, TypeEssay:
		return FreeText(strings.TrimSpace(raw))
	default:
		return decodeChoiceIndex(raw)
	}
}

// choiceLabel prints A..E; positions past E have no letter in the sheet
// notation and are printed as integers so they parse back unchanged.
func choiceLabel(idx int) string {
	if idx >= 0 && idx < MaxOptions {
		return OptionLabel(idx)
	}
	return strconv.Itoa(idx)
}

func letterIndex(c byte) (int, bool) {
	if c >= 'A' && c < 'A'+MaxOptions {
		return int(c - 'A'), true
	}
	return 0, false
}

func decodeChoiceIndex(raw string) AnswerKey {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ChoiceIndex(0)
	}
	if idx, ok := letterIndex(s[0]); ok {
		return ChoiceIndex(idx)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return ChoiceIndex(0)
	}
	return ChoiceIndex(n)
}

func decodeChoiceSet(raw string) AnswerKey {
	out := ChoiceSet{}
	for _, tok := range splitKeyTokens(raw) {
		if len(tok) == 1 {
			if idx, ok := letterIndex(tok[0]); ok {
				out = append(out, idx)
				continue
			}
		}
		if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
			out = append(out, n)
		}
	}
	return out
}

func decodeStatements(t Type, raw string) AnswerKey {
	out := Statements{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, tok := range splitKeyTokens(raw) {
		out = append(out, statementVerdict(t, tok))
	}
	return out
}

// statementVerdict reads one statement token. "S" is Salah (false) on a
// true/false question but Sesuai (true) on a match question.
func statementVerdict(t Type, tok string) bool {
	if tok == "S" {
		return t == TypeMatch
	}
	return truthyTokens[tok]
}

// splitKeyTokens splits on commas and semicolons, keeping empty fields so
// "B,,S" still names three statements.
func splitKeyTokens(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, ";", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToUpper(strings.TrimSpace(p)))
	}
	return out
}

// MarshalAnswerKey serialises key as JSON for storage.
func MarshalAnswerKey(t Type, key AnswerKey) ([]byte, error) {
	return json.Marshal(Conform(t, key))
}

// UnmarshalAnswerKey reads a stored key. Malformed JSON or a shape that does
// not fit t yields the type default.
func UnmarshalAnswerKey(t Type, raw []byte) AnswerKey {
	if len(raw) == 0 {
		return DefaultAnswerKey(t)
	}
	switch t {
	case TypeMultiChoice:
		var v []int
		if err := json.Unmarshal(raw, &v); err != nil || v == nil {
			return DefaultAnswerKey(t)
		}
		return ChoiceSet(v)
	case TypeTrueFalse, TypeMatch:
		var v []bool
		if err := json.Unmarshal(raw, &v); err != nil || v == nil {
			return DefaultAnswerKey(t)
		}
		return Statements(v)
	case TypeFillIn, TypeEssay:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return DefaultAnswerKey(t)
		}
		return FreeText(v)
	default:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
			return DefaultAnswerKey(t)
		}
		return ChoiceIndex(v)
	}
}
