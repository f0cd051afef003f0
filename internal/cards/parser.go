package cards

import (
	"regexp"
	"strconv"
	"strings"
)

// Verb is the card mutation requested by an action tag.
type Verb string

const (
	VerbAdd    Verb = "ADD"
	VerbRemove Verb = "REMOVE"
)

// Action is one parsed card action. Quantity is meaningless when All is
// set (REMOVE ... QUANTITY:ALL deletes the card outright).
type Action struct {
	Verb     Verb
	Title    string
	Quantity int
	All      bool
}

// Tag format embedded in agent output (case-insensitive, whitespace
// tolerant around ':' and '|'):
//
//	[CARD_ACTION:ADD|TITLE:product name|QUANTITY:3]
//	[CARD_ACTION:REMOVE|TITLE:product name|QUANTITY:ALL]
var (
	actionPattern = regexp.MustCompile(`(?i)\[CARD_ACTION\s*:\s*(ADD|REMOVE)\s*\|\s*TITLE\s*:\s*([^|]+?)\s*\|\s*QUANTITY\s*:\s*(ALL|\d+)\s*\]`)
	stripPattern  = regexp.MustCompile(`(?i)\[CARD_ACTION[^\]]+\]\s*`)
)

// ParseAction extracts the first card-action tag from agent output and
// returns the text to display alongside it. Only the first well-formed tag
// is acted on, but every CARD_ACTION bracket run is stripped from the
// display text so malformed or trailing tags never leak into the UI.
// Display text keeps its original line breaks; HTML escaping is the
// renderer's job.
func ParseAction(raw string) (string, *Action) {
	display := strings.TrimSpace(stripPattern.ReplaceAllString(raw, ""))

	m := actionPattern.FindStringSubmatch(raw)
	if m == nil {
		return display, nil
	}

	action := &Action{
		Verb:  Verb(strings.ToUpper(m[1])),
		Title: strings.TrimSpace(m[2]),
	}

	if strings.EqualFold(m[3], "ALL") {
		action.All = true
		return display, action
	}

	qty, err := strconv.Atoi(m[3])
	if err != nil {
		// The grammar only admits digit runs here, but an absurdly long
		// run can still overflow Atoi.
		qty = 1
	}
	action.Quantity = qty
	return display, action
}
