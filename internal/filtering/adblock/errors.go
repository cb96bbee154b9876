package adblock

import "errors"

var (
	// ErrEmptyRule indicates a blank line or a comment
	ErrEmptyRule = errors.New("empty rule")

	// ErrCosmeticRule indicates an element-hiding rule, which network matching ignores
	ErrCosmeticRule = errors.New("cosmetic rule")

	// ErrUnsupportedOption indicates a $option the matcher cannot honor
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrInvalidPattern indicates a rule whose pattern does not compile
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidSnapshot indicates serialized matcher data that cannot be decoded
	ErrInvalidSnapshot = errors.New("invalid matcher snapshot")
)
