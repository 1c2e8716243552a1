package spec

import verr "github.com/nihei9/wavelabel/error"

var (
	// header errors
	synErrDuplicateName   = verr.Detail(verr.ErrMalformedHeader, "Name is declared more than once")
	synErrDuplicateBits   = verr.Detail(verr.ErrMalformedHeader, "Bits is declared more than once")
	synErrEmptyName       = verr.Detail(verr.ErrMalformedHeader, "Name must not be empty")
	synErrNonPositiveBits = verr.Detail(verr.ErrMalformedHeader, "Bits must be a positive integer")

	// line errors
	synErrMissingLabel   = verr.Detail(verr.ErrMalformedLine, "a value must be followed by display text")
	synErrEmptyLabel     = verr.Detail(verr.ErrMalformedLine, "display text must not be empty")
	synErrUnclosedQuote  = verr.Detail(verr.ErrMalformedLine, "unclosed quote")
	synErrUnclosedStyle  = verr.Detail(verr.ErrMalformedLine, "a style annotation must be closed with ]")
	synErrEmptyStyle     = verr.Detail(verr.ErrMalformedLine, "a style annotation must not be empty")
	synErrTextAfterStyle = verr.Detail(verr.ErrMalformedLine, "unexpected text after the style")
)
