// Package resp writes JSON responses and renders failures.
//
// Handlers return data with Success or Created and report failures with
// Abort. The Responder middleware turns the recorded error into the
// structured error body:
//
//	{
//	  "status": 409,
//	  "code": "DUPLICATE_ERROR",
//	  "message": "Email already exists",
//	  "errors": {...},                       // validation only
//	  "timestamp": "2024-01-01T00:00:00Z"
//	}
//
// Typed ecode errors keep their status. Errors matched by a registered
// Classifier (such as the data layer's connection classifier) use the
// error it returns. Anything else becomes a 500 without internal detail.
package resp
