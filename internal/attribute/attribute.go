package attribute

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attribute names one substitutable field of a plugin project.
type Attribute string

const (
	Name    Attribute = "name"
	Company Attribute = "company"
	Subtype Attribute = "subtype"
	Mfgr    Attribute = "mfgr"
	URL     Attribute = "url"
	Email   Attribute = "email"
	UIDA    Attribute = "uida"
	UIDB    Attribute = "uidb"
)

// ErrUnknownAttribute is returned when a name is outside the allowlist.
var ErrUnknownAttribute = errors.New("unrecognized attribute")

// Placeholder holds the literal tokens an attribute replaces. Lower is empty
// when the attribute has no lowercase form.
type Placeholder struct {
	Token string
	Lower string
}

var placeholders = map[Attribute]Placeholder{
	Name:    {Token: "llllPluginNamellll", Lower: "llllpluginnamellll"},
	Company: {Token: "llllCompanyNamellll", Lower: "llllcompanynamellll"},
	Subtype: {Token: "llllSubtypellll"},
	Mfgr:    {Token: "llllMfgrllll"},
	URL:     {Token: "llllURLllll"},
	Email:   {Token: "llllEmailllll"},
	UIDA:    {Token: "0xAAAAAAAA, 0xAAAAAAAA, 0xAAAAAAAA, 0xAAAAAAAA"},
	UIDB:    {Token: "0xBBBBBBBB, 0xBBBBBBBB, 0xBBBBBBBB, 0xBBBBBBBB"},
}

// all lists every attribute in canonical order.
var all = []Attribute{Name, Company, Mfgr, Subtype, URL, Email, UIDA, UIDB}

// optional is the positional order of the clone command's trailing arguments.
var optional = []Attribute{Company, Mfgr, Subtype, URL, Email}

// Parse converts a user-supplied name into an Attribute.
func Parse(s string) (Attribute, error) {
	a := Attribute(s)
	if _, ok := placeholders[a]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownAttribute, s)
	}
	return a, nil
}

// Resolve returns the placeholder tokens for a.
func Resolve(a Attribute) (Placeholder, error) {
	p, ok := placeholders[a]
	if !ok {
		return Placeholder{}, fmt.Errorf("%w %q", ErrUnknownAttribute, string(a))
	}
	return p, nil
}

// All returns every known attribute in canonical order.
func All() []Attribute {
	out := make([]Attribute, len(all))
	copy(out, all)
	return out
}

// Optional returns the attributes the clone command accepts positionally
// after the plugin name, in argument order.
func Optional() []Attribute {
	out := make([]Attribute, len(optional))
	copy(out, optional)
	return out
}

// IsUID reports whether a is one of the identifier slots.
func IsUID(a Attribute) bool {
	return a == UIDA || a == UIDB
}

// Lower folds s to lowercase using Unicode case rules. A Caser keeps state,
// so each call gets its own.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func (a Attribute) String() string { return string(a) }
