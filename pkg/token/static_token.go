package token

import "strings"

// StaticToken is a TokenProvider wrapper for a static token
type StaticToken struct {
	token string
}

func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: strings.TrimSpace(token)}
}

func (t *StaticToken) Token() string {
	return t.token
}
