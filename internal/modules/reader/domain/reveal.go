package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type Mode string

const (
	ModeWord Mode = "word"
	ModeChar Mode = "char"
)

const (
	MinSpeed = 1
	MaxSpeed = 10

	speedStep = 40 * time.Millisecond
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeWord:
		return ModeWord, nil
	case ModeChar:
		return ModeChar, nil
	default:
		return "", fmt.Errorf("unsupported reveal mode %q", raw)
	}
}

func ClampSpeed(speed int) int {
	return min(max(speed, MinSpeed), MaxSpeed)
}

type Pause int

const (
	PauseNone Pause = iota
	PauseClause
	PauseSentence
	PauseParagraph
)

func (p Pause) factor() time.Duration {
	switch p {
	case PauseClause:
		return 2
	case PauseSentence:
		return 3
	case PauseParagraph:
		return 4
	default:
		return 1
	}
}

// Token is one reveal unit. Lead is the whitespace that precedes it, so
// concatenating Lead+Text over all tokens rebuilds the normalized text.
type Token struct {
	Lead  string
	Text  string
	Pause Pause
}

func Tokenize(text string, mode Mode) []Token {
	var tokens []Token
	for p, para := range Paragraphs(text) {
		words := strings.Fields(para)
		for w, word := range words {
			lead := ""
			if w > 0 {
				lead = " "
			} else if p > 0 {
				lead = "\n\n"
			}
			last := w == len(words)-1
			if mode == ModeChar {
				tokens = appendRunes(tokens, lead, word, last)
				continue
			}
			tokens = append(tokens, Token{Lead: lead, Text: word, Pause: pauseAfter(word, last)})
		}
	}
	return tokens
}

func appendRunes(tokens []Token, lead, word string, lastInParagraph bool) []Token {
	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		ch := word[:size]
		word = word[size:]
		var pause Pause
		if len(word) == 0 {
			pause = pauseAfter(ch, lastInParagraph)
		} else {
			pause = punctuationPause(r)
		}
		tokens = append(tokens, Token{Lead: lead, Text: ch, Pause: pause})
		lead = ""
	}
	return tokens
}

func pauseAfter(word string, paragraphEnd bool) Pause {
	if paragraphEnd {
		return PauseParagraph
	}
	trimmed := strings.TrimRight(word, "\"')]}»”’")
	if trimmed == "" {
		return PauseNone
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	return punctuationPause(r)
}

func punctuationPause(r rune) Pause {
	switch r {
	case '.', '!', '?', '…':
		return PauseSentence
	case ',', ';', ':':
		return PauseClause
	default:
		return PauseNone
	}
}

// Delay is the wait after revealing tok. Speed 10 is fastest.
func Delay(tok Token, speed int, mode Mode) time.Duration {
	base := time.Duration(MaxSpeed+1-ClampSpeed(speed)) * speedStep
	if mode == ModeChar {
		base /= 5
	}
	return base * tok.Pause.factor()
}

// Cursor walks a token list one unit at a time.
type Cursor struct {
	tokens  []Token
	pos     int
	speed   int
	mode    Mode
	visible strings.Builder
}

func NewCursor(text string, mode Mode, speed int) *Cursor {
	return &Cursor{tokens: Tokenize(text, mode), speed: ClampSpeed(speed), mode: mode}
}

// Step reveals the next unit and returns it with the pause that should follow.
func (c *Cursor) Step() (Token, time.Duration, bool) {
	if c.Done() {
		return Token{}, 0, false
	}
	tok := c.tokens[c.pos]
	c.pos++
	c.visible.WriteString(tok.Lead)
	c.visible.WriteString(tok.Text)
	return tok, Delay(tok, c.speed, c.mode), true
}

func (c *Cursor) Complete() {
	for !c.Done() {
		c.Step()
	}
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

func (c *Cursor) SetSpeed(speed int) {
	c.speed = ClampSpeed(speed)
}

func (c *Cursor) Speed() int {
	return c.speed
}

func (c *Cursor) Position() (int, int) {
	return c.pos, len(c.tokens)
}

func (c *Cursor) Visible() string {
	return c.visible.String()
}
