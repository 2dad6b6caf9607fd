// Package form validates submitted fields and binds them onto models.
package form

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// Choice is a submitted select value. It accepts a JSON string, number or
// null so that API clients and HTML forms can post the same field.
type Choice string

func (c *Choice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Choice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Choice(n.String())
	return nil
}

func (c Choice) Empty() bool { return strings.TrimSpace(string(c)) == "" }

// ID parses the choice as a primary key.
func (c Choice) ID() (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(string(c)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
