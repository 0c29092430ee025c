// Package ecode defines the business error codes returned by the API and the
// error type services use to report them.
//
// Error codes follow the numbering scheme:
//   - 0: Success (OK)
//   - -100 to -199: Authentication/authorization errors
//   - -400 to -499: Request and resource errors
//   - -500+: Server errors
//
// Services return *Error values built with the constructors in this package:
//
//	if task == nil {
//	    return nil, ecode.NotFoundErr(ecode.NotExist("task"))
//	}
//
// Transport code maps them to HTTP statuses through ToHTTPStatus:
//
//	httpStatus := ecode.ToHTTPStatus(ecode.NotFound)
//	// Returns: 404
package ecode
