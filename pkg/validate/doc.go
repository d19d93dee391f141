// Package validate provides field-level validation error collection.
//
// Errors maps field names to messages and implements the error interface,
// so synchronous client-side checks can be surfaced next to form fields
// before any network call is made:
//
//	errs := validate.Errors{}
//	if req.Code == "" {
//	    errs.Add("code", "code is required")
//	}
//	if !errs.Valid() {
//	    return errs
//	}
package validate
