// Package alignment turns character-level speech alignment into word tokens.
//
// A speech service reports one timestamp pair per narration character,
// spaces included. [Tokenize] groups those characters into words and gives
// each word the start time of its first character and the end time of its
// last. When no alignment exists yet, the same call falls back to uniform
// 0.5 second slots per word so that previews and renders keep working; the
// returned [Tokens] carry [SourceEstimate] in that case and their times are
// not synchronized with any audio.
package alignment

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/matzehuels/slidemotion/pkg/errors"
)

// EstimatedWordSeconds is the slot length of one word in the fallback timing.
const EstimatedWordSeconds = 0.5

// Alignment is the per-character timing produced by a speech-alignment
// service. The three slices are parallel.
type Alignment struct {
	Characters                 []string  `json:"characters"`
	CharacterStartTimesSeconds []float64 `json:"character_start_times_seconds"`
	CharacterEndTimesSeconds   []float64 `json:"character_end_times_seconds"`
}

// Len returns the number of usable characters: the length of the shortest of
// the three parallel slices.
func (a Alignment) Len() int {
	return min(len(a.Characters), len(a.CharacterStartTimesSeconds), len(a.CharacterEndTimesSeconds))
}

// Text concatenates the aligned characters.
func (a Alignment) Text() string {
	return strings.Join(a.Characters[:a.Len()], "")
}

// Validate reports mismatched slice lengths and inverted or negative times.
// Tokenize tolerates both; Validate exists for callers that want to reject
// such input at the boundary.
func (a Alignment) Validate() error {
	n := len(a.Characters)
	if len(a.CharacterStartTimesSeconds) != n || len(a.CharacterEndTimesSeconds) != n {
		return errors.New(errors.ErrCodeInvalidAlignment,
			"alignment arrays differ in length: %d characters, %d starts, %d ends",
			n, len(a.CharacterStartTimesSeconds), len(a.CharacterEndTimesSeconds))
	}
	for i := range n {
		s, e := a.CharacterStartTimesSeconds[i], a.CharacterEndTimesSeconds[i]
		if s < 0 || e < s {
			return errors.New(errors.ErrCodeInvalidAlignment,
				"character %d has invalid times [%g, %g]", i, s, e)
		}
	}
	return nil
}

// Parse decodes an alignment from JSON.
func Parse(data []byte) (Alignment, error) {
	var a Alignment
	if err := json.Unmarshal(data, &a); err != nil {
		return Alignment{}, errors.Wrap(errors.ErrCodeInvalidAlignment, err, "decode alignment")
	}
	return a, nil
}

// ReadFile reads an alignment JSON file.
func ReadFile(path string) (Alignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Alignment{}, fmt.Errorf("open %s: %w", path, err)
	}
	return Parse(data)
}

// Source tells where word timings came from.
type Source string

const (
	// SourceAlignment timings are derived from real speech alignment.
	SourceAlignment Source = "alignment"
	// SourceEstimate timings are uniform placeholder slots.
	SourceEstimate Source = "estimate"
)

// Word is one narration word with its time span in seconds.
type Word struct {
	Index int     `json:"index"`
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Tokens is an ordered word list together with the origin of its timings.
type Tokens struct {
	Source Source `json:"source"`
	Words  []Word `json:"words"`
}

// Estimated reports whether the timings are placeholder estimates.
func (t Tokens) Estimated() bool { return t.Source == SourceEstimate }

// Len returns the number of words.
func (t Tokens) Len() int { return len(t.Words) }

// Text joins the words with single spaces.
func (t Tokens) Text() string {
	words := make([]string, len(t.Words))
	for i, w := range t.Words {
		words[i] = w.Word
	}
	return strings.Join(words, " ")
}

// Duration returns the end time of the last word, or zero.
func (t Tokens) Duration() float64 {
	if len(t.Words) == 0 {
		return 0
	}
	return t.Words[len(t.Words)-1].End
}

// Tokenize derives word tokens for narration. A nil alignment selects the
// estimate fallback over narration; otherwise the alignment alone is used and
// narration is ignored.
func Tokenize(a *Alignment, narration string) Tokens {
	if a == nil {
		return Tokens{Source: SourceEstimate, Words: Estimate(narration)}
	}
	return Tokens{Source: SourceAlignment, Words: FromAlignment(*a)}
}

// FromAlignment scans the aligned characters and closes a word on every
// whitespace character and at the end of input. Runs of whitespace produce no
// empty words. Extra entries in longer slices are ignored.
func FromAlignment(a Alignment) []Word {
	n := a.Len()
	words := make([]Word, 0, n/4)

	var (
		buf   strings.Builder
		start float64
		end   float64
		open  bool
	)
	flush := func() {
		if !open {
			return
		}
		words = append(words, Word{Index: len(words), Word: buf.String(), Start: start, End: end})
		buf.Reset()
		open = false
	}

	for i := range n {
		ch := a.Characters[i]
		if isSpace(ch) {
			flush()
			continue
		}
		if !open {
			start = a.CharacterStartTimesSeconds[i]
			open = true
		}
		buf.WriteString(ch)
		end = a.CharacterEndTimesSeconds[i]
	}
	flush()
	return words
}

// Estimate assigns each whitespace-separated word of narration a uniform
// EstimatedWordSeconds slot.
func Estimate(narration string) []Word {
	fields := strings.Fields(narration)
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{
			Index: i,
			Word:  f,
			Start: float64(i) * EstimatedWordSeconds,
			End:   float64(i+1) * EstimatedWordSeconds,
		}
	}
	return words
}

// Count returns the number of words in narration, using the same word
// boundaries as the tokenizer.
func Count(narration string) int {
	return len(strings.Fields(narration))
}

// isSpace reports whether an alignment character is a word boundary. Empty
// entries count as boundaries.
func isSpace(ch string) bool {
	for _, r := range ch {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
