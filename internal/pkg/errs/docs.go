// Package errs provides the error vocabulary shared by the fulfillment core and
// its adapters.
//
// Every error kind is a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired, ErrVersionIsInvalid) plus a struct
// carrying the offending parameter and an optional cause. The structs unwrap to
// their sentinel, so callers classify failures with errors.Is and read details
// with errors.As:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return ctx.JSON(http.StatusNotFound, problem)
//	}
//
// Constructors in the domain model aggregate several of these with errors.Join,
// and the caller still matches each kind individually.
package errs
