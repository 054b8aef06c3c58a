// Package ecode defines the typed error every service operation fails with,
// the machine readable error kinds and their HTTP status mapping.
//
// # Error Kinds
//
//	ecode.KindValidation      // 400: malformed input, Details holds field -> message
//	ecode.KindAuthentication  // 401: missing or bad credentials / token
//	ecode.KindAuthorization   // 403: authenticated but role not permitted
//	ecode.KindNotFound        // 404: resource does not exist
//	ecode.KindDuplicate       // 409: unique field already taken
//	ecode.KindTooManyRequests // 429: rate limit exceeded
//	ecode.KindInternal        // 500: anything unclassified
//	ecode.KindUnavailable     // 503: database connection unavailable
//
// # Creating Errors
//
//	return ecode.Validation("Validation failed", map[string]string{
//	    "email": "The field 'email' must be a valid email address.",
//	})
//
//	return ecode.Authentication("Invalid credentials")
//	return ecode.Duplicate("User")          // "User already exists"
//	return ecode.Unavailable(err)           // wraps the driver error
//
// # Inspecting Errors
//
//	if e, ok := ecode.As(err); ok {
//	    log.Printf("%s %d", e.Kind, e.Status)
//	}
//
//	if ecode.IsKind(err, ecode.KindNotFound) {
//	    // ...
//	}

package ecode
