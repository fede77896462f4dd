// Package intent classifies telegram chat messages into the opportunity
// intents the ranking core understands
// Heuristics only, tuned for the RU/EN startup chats the companion watches;
// a wrong guess degrades to the default reply intent downstream
package intent

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent is the classified conversational shape of a message
type Intent string

// Message intents; None means the message is not worth surfacing at all
const (
	None   Intent = ""
	Reply  Intent = "reply"
	Topic  Intent = "topic"
	Person Intent = "person"
)

// SenderStats summarize how active a sender has been in the chat recently
type SenderStats struct {
	MessageCount     int
	LongMessageCount int
}

// Result carries the classification plus whether the message should be
// surfaced; Reason is display/debug only
type Result struct {
	Intent  Intent
	Include bool
	Reason  string
}

var linkRe = regexp.MustCompile(`(?i)https?://\S+`)

// question markers, checked against normalized text with space padding so
// short words match whole tokens only
var questionMarkers = []string{
	" как ", " кто ", " почему ", " зачем ", " где ", " куда ", " когда ",
	" подскаж", " посовет",
	" help", " how ", " anyone ", " recommend",
}

var promoMarkers = []string{
	"подпис", "подпиш", "канал", "промо", "скидк", "курс", "обучен",
	"инвайт", "реферал", "реклама", "купите", "продам", "прайс", "в лс",
}

var firstPersonMarkers = []string{
	" я ", " мы ", " мне ", " мой ", " моя ", " наши ",
}

var experienceMarkers = []string{
	"ошиб", "сработ", "не сработ", "если бы", "я делал", "мы делал",
}

var mentionRe = regexp.MustCompile(`@\w+`)

// fold chain mirrors the NFKC + casefold + strip-marks pipeline used for
// all heuristic text matching
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// normalize folds case, strips marks and collapses whitespace runs to a
// single space
func normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := foldPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	return strings.Join(strings.Fields(ns), " ")
}

func hasLink(t string) bool { return linkRe.MatchString(t) }

func looksLikeQuestion(t string) bool {
	if t == "" {
		return false
	}
	if strings.Contains(t, "?") {
		return true
	}
	padded := " " + t + " "
	for _, m := range questionMarkers {
		if strings.Contains(padded, m) {
			return true
		}
	}
	return false
}

func looksLikePromo(t string) bool {
	if t == "" {
		return false
	}
	for _, m := range promoMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return mentionRe.MatchString(t)
}

func looksFirstPerson(t string) bool {
	padded := " " + t + " "
	for _, m := range firstPersonMarkers {
		if strings.Contains(padded, m) {
			return true
		}
	}
	return false
}

// looksLikeTopic is a longer first person post someone could discuss
func looksLikeTopic(t string) bool {
	return len([]rune(t)) >= 80 && looksFirstPerson(t)
}

// looksLikeThoughtful is a long, linkless, first person experience post
func looksLikeThoughtful(t string) bool {
	if len([]rune(t)) < 120 || hasLink(t) || !looksFirstPerson(t) {
		return false
	}
	for _, m := range experienceMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

// Classify maps a message plus sender activity to an intent and an include
// decision; empty and promo texts are excluded outright
func Classify(text string, stats SenderStats) Result {
	t := normalize(text)
	if t == "" {
		return Result{Intent: Reply, Include: false, Reason: "empty"}
	}
	if looksLikePromo(t) {
		return Result{Intent: Reply, Include: false, Reason: "promo"}
	}

	link := hasLink(t)
	isQuestion := looksLikeQuestion(t)
	isTopic := looksLikeTopic(t)
	isPerson := looksLikeThoughtful(t) && (stats.MessageCount >= 3 || stats.LongMessageCount >= 2)

	var in Intent
	var reason string
	switch {
	case isQuestion:
		in, reason = Reply, "question"
	case isPerson:
		in, reason = Person, "thoughtful-active"
	case isTopic:
		in, reason = Topic, "topic"
	case link:
		in, reason = Topic, "link"
	default:
		in, reason = Reply, "default"
	}

	include := link || isQuestion || isTopic || isPerson
	return Result{Intent: in, Include: include, Reason: reason}
}
