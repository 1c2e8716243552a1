package style

import (
	"fmt"
	"strconv"
	"strings"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/value"
)

// Kind is a symbolic style category. The host resolves it against its theme.
type Kind int

const (
	KindNormal Kind = iota
	KindUndef
	KindHighImp
	KindWarn
	KindDontCare
	KindWeak
	KindError
	KindEvent

	// KindCustom means the style carries an explicit color.
	KindCustom
)

var kindKeywords = map[string]Kind{
	"default":  KindNormal,
	"normal":   KindNormal,
	"undef":    KindUndef,
	"highimp":  KindHighImp,
	"warn":     KindWarn,
	"dontcare": KindDontCare,
	"weak":     KindWeak,
	"error":    KindError,
	"event":    KindEvent,
}

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "default"
	case KindUndef:
		return "undef"
	case KindHighImp:
		return "highimp"
	case KindWarn:
		return "warn"
	case KindDontCare:
		return "dontcare"
	case KindWeak:
		return "weak"
	case KindError:
		return "error"
	case KindEvent:
		return "event"
	case KindCustom:
		return "custom"
	}
	return fmt.Sprintf("<invalid kind %d>", int(k))
}

// ThemeColor returns the theme color identifier of k. KindCustom has none.
func (k Kind) ThemeColor() string {
	if k == KindCustom || k < KindNormal || k > KindCustom {
		return ""
	}
	return "variable_" + k.String()
}

type RGB struct {
	R uint8
	G uint8
	B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style is either a Kind or, when Kind is KindCustom, an explicit color.
type Style struct {
	Kind  Kind
	Color RGB
}

// Default is the style of a line without a style token.
var Default = Style{Kind: KindNormal}

func Custom(c RGB) Style {
	return Style{
		Kind:  KindCustom,
		Color: c,
	}
}

func (s Style) String() string {
	if s.Kind == KindCustom {
		return s.Color.String()
	}
	return s.Kind.String()
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	st, err := Resolve(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Resolver turns style tokens into styles.
type Resolver struct {
	// Colors resolves color names. nil means DefaultColors.
	Colors ColorTable
}

// Resolve accepts a kind keyword, a 3 or 6 digit hex color with or without a leading #, or a color name. All
// three are case-insensitive. An empty token is the default style.
func (r *Resolver) Resolve(token string) (Style, error) {
	if token == "" {
		return Default, nil
	}

	if c, ok := parseHexColor(token); ok {
		return Custom(c), nil
	}

	lower := strings.ToLower(token)
	if k, ok := kindKeywords[lower]; ok {
		return Style{Kind: k}, nil
	}

	colors := r.Colors
	if colors == nil {
		colors = DefaultColors
	}
	if c, ok := colors.Lookup(lower); ok {
		return Custom(c), nil
	}

	return Style{}, verr.Detail(verr.ErrUnknownStyle, "%v", token)
}

var defaultResolver = &Resolver{}

// Resolve resolves token with the default color table.
func Resolve(token string) (Style, error) {
	return defaultResolver.Resolve(token)
}

func parseHexColor(token string) (RGB, bool) {
	hex := strings.TrimPrefix(token, "#")
	switch len(hex) {
	case 3:
		var expanded [6]byte
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded[:])
	case 6:
	default:
		return RGB{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
	}, true
}

// KindOf returns the kind a value is displayed with when no table entry covers it.
func KindOf(v value.Value) Kind {
	s := v.String()
	switch {
	case strings.ContainsRune(s, rune(value.Unknown)):
		return KindUndef
	case strings.ContainsRune(s, rune(value.HighImpedance)):
		return KindHighImp
	case strings.ContainsRune(s, rune(value.DontCare)):
		return KindDontCare
	case strings.ContainsAny(s, string([]byte{byte(value.Uninitialized), byte(value.WeakUnknown)})):
		return KindUndef
	case strings.ContainsAny(s, string([]byte{byte(value.WeakHigh), byte(value.WeakLow)})):
		return KindWeak
	}
	return KindNormal
}
