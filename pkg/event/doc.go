// Package event runs one request through a route's middleware pipeline.
//
// A route handler is wrapped with an ordered MiddlewareSet:
//
//	START -> ON_REQUEST -> HANDLER -> ON_BEFORE_RESPONSE -> RESPONDED
//	                 \________ ERROR -> ON_ERROR -> RESPONDED
//
// onRequest hooks run sequentially and may abort the request by returning
// an error. The handler's result is threaded through onBeforeResponse hooks;
// a hook returning nil leaves the result unchanged. On error, onError hooks
// are tried in order until one returns a non-empty ErrorPayload, which is
// sent verbatim. Otherwise a generic {"error": message} body is sent with
// the error's status (default 500). Panics in any stage are recovered and
// handled like returned errors, so a request can never take the process
// down.
package event
