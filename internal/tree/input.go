package tree

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/dateparse"
)

// longest unquoted due phrase tried after "due:"
const maxDueWords = 4

// ParseInput reads inline markup from a typed line:
//
//	#tag  @context  !3  due:tomorrow  due:"next friday"  due:next friday
//
// Markers are removed from the description and labels are lower-cased. An
// unquoted due phrase takes the longest run of following words that parses.
// When the due text is not understood the returned Input still carries
// everything else and the error wraps dateparse.ErrUnrecognized; callers pick
// between rejecting the line and dropping only the date.
func ParseInput(raw string, now time.Time) (Input, error) {
	in := Input{Raw: strings.TrimSpace(raw), CreatedAt: now}
	words := strings.Fields(raw)
	var desc []string
	var dueErr error

	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case len(w) > 1 && w[0] == '#':
			if l := trimLabel(w[1:]); l != "" {
				in.Tags = append(in.Tags, l)
				continue
			}
		case len(w) > 1 && w[0] == '@':
			if l := trimLabel(w[1:]); l != "" {
				in.Contexts = append(in.Contexts, l)
				continue
			}
		case len(w) == 2 && w[0] == '!' && w[1] >= '0' && w[1] <= '5':
			in.Priority, _ = strconv.Atoi(w[1:])
			continue
		case strings.HasPrefix(strings.ToLower(w), "due:"):
			consumed, err := applyDue(&in, words[i:], now)
			if err != nil {
				dueErr = err
			}
			i += consumed - 1
			continue
		}
		desc = append(desc, w)
	}

	in.Description = strings.Join(desc, " ")
	if in.Description == "" {
		return in, fmt.Errorf("%w: empty description", ErrInvalidValue)
	}
	return in, dueErr
}

// applyDue parses the due phrase at the head of words and returns how many
// words it used
func applyDue(in *Input, words []string, now time.Time) (int, error) {
	first := words[0][len("due:"):]

	// quoted: due:"next friday"
	if strings.HasPrefix(first, `"`) {
		phrase := []string{strings.TrimPrefix(first, `"`)}
		n := 1
		for !strings.HasSuffix(phrase[len(phrase)-1], `"`) && n < len(words) {
			phrase = append(phrase, words[n])
			n++
		}
		text := strings.TrimSuffix(strings.Join(phrase, " "), `"`)
		return n, setDue(in, text, now)
	}

	limit := min(maxDueWords, len(words))
	for n := limit; n >= 1; n-- {
		text := strings.Join(append([]string{first}, words[1:n]...), " ")
		if setDue(in, text, now) == nil {
			return n, nil
		}
	}
	return 1, setDue(in, first, now)
}

func setDue(in *Input, text string, now time.Time) error {
	r, err := dateparse.Parse(text, now)
	if err != nil {
		return err
	}
	switch r.Kind {
	case dateparse.KindRecurrence:
		rec := r.Recurrence
		in.Recurrence = &rec
		if in.DueDate == nil {
			due := dateparse.EndOfDay(now)
			in.DueDate = &due
		}
	default:
		due := r.Due
		in.DueDate = &due
	}
	return nil
}

func trimLabel(s string) string {
	return strings.ToLower(strings.TrimRight(s, ",.;:!?"))
}
