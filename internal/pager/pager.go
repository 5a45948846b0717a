// Package pager shows result rows in numbered batches and lets the user pick one.
package pager

import (
	"strconv"
)

// Prompter is the terminal surface a pager needs.
type Prompter interface {
	AskTrimmed(prompt string) (string, error)
	YesNo(prompt string) (bool, error)
	Say(format string, args ...any)
}

// SkipToken declines a row selection.
const SkipToken = "s"

// Labels are the per-listing texts.
type Labels struct {
	Heading   string // printed before each batch when set
	More      string // asked while rows remain
	Exhausted string // printed when every row was shown without a stop
	Empty     string // printed instead of anything else for zero rows
	Select    string // row selection prompt
}

// TweetLabels are used for feeds, search results and author histories.
var TweetLabels = Labels{
	More:      "More tweets [Y/N]: ",
	Exhausted: "No more tweets.",
	Empty:     "Nothing to show.",
	Select:    "Enter the row number for more options [or s to skip]: ",
}

// UserLabels are used for user search results and follower lists.
var UserLabels = Labels{
	More:      "Show more users [Y/N]? ",
	Exhausted: "No more users.",
	Empty:     "Nothing to show.",
	Select:    "Enter the user number to see more details [or s to skip]: ",
}

// Pager pages rows of T.
type Pager[T any] struct {
	IO        Prompter
	BatchSize int
	Render    func(row T) string
	Labels    Labels
	// Selectable enables the row selection prompt after paging stops.
	Selectable bool
}

// Result describes one paging session.
type Result[T any] struct {
	Shown    int  // rows displayed, numbered 1..Shown
	Stopped  bool // the user declined more rows, or input ran out
	Selected int  // 0-based index of the chosen row, -1 for none
	Row      T
}

// Run pages through rows. Row numbers continue across batches.
func (p Pager[T]) Run(rows []T) Result[T] {
	res := Result[T]{Selected: -1}
	if len(rows) == 0 {
		p.IO.Say("%s", p.Labels.Empty)
		return res
	}
	size := p.BatchSize
	if size <= 0 {
		size = len(rows)
	}
	for res.Shown < len(rows) {
		end := res.Shown + size
		if end > len(rows) {
			end = len(rows)
		}
		if p.Labels.Heading != "" {
			p.IO.Say("%s", p.Labels.Heading)
		}
		for i := res.Shown; i < end; i++ {
			p.IO.Say("%d. %s", i+1, p.Render(rows[i]))
		}
		res.Shown = end
		if res.Shown == len(rows) {
			break
		}
		p.IO.Say("")
		more, err := p.IO.YesNo(p.Labels.More)
		if err != nil || !more {
			res.Stopped = true
			break
		}
	}
	if !res.Stopped {
		p.IO.Say("%s", p.Labels.Exhausted)
	}
	if p.Selectable {
		if n := p.selectRow(res.Shown); n > 0 {
			res.Selected = n - 1
			res.Row = rows[n-1]
		}
	}
	return res
}

// selectRow asks for a row number in 1..shown. It returns 0 on skip or
// exhausted input and re-prompts on anything else out of range.
func (p Pager[T]) selectRow(shown int) int {
	for {
		ans, err := p.IO.AskTrimmed(p.Labels.Select)
		if err != nil || ans == SkipToken {
			return 0
		}
		n, err := strconv.Atoi(ans)
		switch {
		case err != nil:
			p.IO.Say("Invalid Option")
		case n < 1 || n > shown:
			p.IO.Say("Row out of bounds. Try Again.")
		default:
			return n
		}
	}
}
