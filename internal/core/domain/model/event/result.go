package event

import (
	"fmt"

	"pickingpacking/internal/pkg/errs"
)

// ResultCode classifies the outcome of a consumed event.
type ResultCode int

const (
	UnknownResult ResultCode = iota
	Applied
	InvalidTransition
	InvalidPayload
)

func getResultCodeStrings() map[ResultCode]string {
	return map[ResultCode]string{
		UnknownResult:     "UNKNOWN",
		Applied:           "APPLIED",
		InvalidTransition: "INVALID_TRANSITION",
		InvalidPayload:    "INVALID_PAYLOAD",
	}
}

// ParseResultCode converts the stored name of a result code back to its value.
func ParseResultCode(name string) (ResultCode, error) {
	for c, str := range getResultCodeStrings() {
		if c != UnknownResult && str == name {
			return c, nil
		}
	}
	return UnknownResult, errs.NewValueIsInvalidErrorWithCause("result is invalid", fmt.Errorf("%q is not a result code", name))
}

func (c ResultCode) Validate() error {
	if c <= UnknownResult || c > InvalidPayload {
		return errs.NewValueIsInvalidErrorWithCause("result is invalid", fmt.Errorf("%d is not a result code", c))
	}
	return nil
}

func (c ResultCode) String() string {
	if str, ok := getResultCodeStrings()[c]; ok {
		return str
	}
	return "UNKNOWN"
}

// Result is the outcome written to an event when the controller consumes it.
type Result struct {
	Code   ResultCode
	Detail string
}

// NewResult builds a validated result.
func NewResult(code ResultCode, detail string) (Result, error) {
	if err := code.Validate(); err != nil {
		return Result{}, err
	}
	return Result{Code: code, Detail: detail}, nil
}

func (r Result) String() string {
	if r.Detail == "" {
		return r.Code.String()
	}
	return r.Code.String() + ": " + r.Detail
}
