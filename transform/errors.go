package transform

import "errors"

var (
	ErrNoAngleOrMatrix = errors.New("transform needs an angle or a matrix and params")
	ErrAmbiguousConfig = errors.New("transform takes an angle or a matrix, not both")
	ErrBadVariant      = errors.New("invalid transform variant")
	ErrBadSymbol       = errors.New("invalid parameter symbol")
	ErrParamMismatch   = errors.New("params do not match the free parameters of the matrix")
	ErrInvalidOperand  = errors.New("operand should be a transform, or a numeric or symbolic array")
	ErrShape           = errors.New("incompatible matrix dimensions")

	ErrArgCount        = errors.New("argument number mismatch")
	ErrMixedArgs       = errors.New("combination of positional and keyword arguments not supported")
	ErrLengthMismatch  = errors.New("input arrays do not have the same size")
	ErrUnknownParam    = errors.New("unknown parameter")
	ErrInvalidArgument = errors.New("argument should be a number or an array of numbers")

	ErrSyntax = errors.New("transform syntax error")
)
