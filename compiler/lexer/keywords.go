package lexer

// keywords maps bareword lexemes that win over plain STRING recognition.
// Checked after a bareword run is scanned; anything not present here is
// an ordinary STRING token whose Literal is the lexeme itself.
var keywords = map[string]TokenType{
	"not":   NOT,
	"and":   AND,
	"or":    OR,
	"true":  BOOLEAN,
	"false": BOOLEAN,
}

// lookupKeyword reports the token type for a bareword lexeme, if it is a
// keyword, and the typed literal to attach (only BOOLEAN carries one).
func lookupKeyword(word string) (TokenType, interface{}, bool) {
	tt, ok := keywords[word]
	if !ok {
		return STRING, nil, false
	}
	if tt == BOOLEAN {
		return BOOLEAN, word == "true", true
	}
	return tt, nil, true
}
