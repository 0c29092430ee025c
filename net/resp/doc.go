// Package resp writes the JSON envelopes returned by the HTTP API.
//
// Success responses carry the payload as the body:
//
//	resp.Success(w, view)
//	resp.WithStatusCode(w, http.StatusCreated, request)
//
// Failures carry a business code and message:
//
//	{"code": -409, "message": "task is not open"}
//
// Services report failures as *ecode.Error; FromError turns them into an
// Exception with the matching HTTP status:
//
//	resp.Fail(w, resp.FromError(err))
package resp
