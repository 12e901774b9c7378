package schema

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Validation - Structural Checks on Candidate Documents
// =============================================================================

// FieldError is a single field-scoped validation finding.
type FieldError struct {
	Field   string `json:"field" bson:"field"`
	Message string `json:"message" bson:"message"`
}

// Result is the outcome of validating a candidate document. Errors make the
// document invalid; warnings do not.
type Result struct {
	Valid    bool         `json:"valid" bson:"valid"`
	Errors   []FieldError `json:"errors,omitempty" bson:"errors,omitempty"`
	Warnings []FieldError `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// requiredFields are the top-level keys every document must carry.
var requiredFields = []string{"version", "site_id", "canvas", "room", "equipmentArrays"}

// Validate checks a candidate document in its generic decoded form.
//
// All findings are reported, not just the first: a document missing three
// fields produces three errors. A version field unequal to CurrentVersion is
// not an error; stale versions are a migration concern, not a structural
// one.
//
// Validate never panics. Documents come from unsanitized user input, so any
// internal fault is recovered and surfaced as a single field:"unknown"
// error with Valid=false.
func Validate(doc map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Valid:  false,
				Errors: []FieldError{{Field: "unknown", Message: fmt.Sprintf("internal validation fault: %v", r)}},
			}
		}
	}()

	var errs, warns []FieldError

	if doc == nil {
		return Result{
			Valid:  false,
			Errors: []FieldError{{Field: "document", Message: "document is empty"}},
		}
	}

	for _, field := range requiredFields {
		if _, ok := doc[field]; !ok {
			errs = append(errs, FieldError{Field: field, Message: "required field is missing"})
		}
	}

	if raw, ok := doc["room"]; ok {
		if room, ok := raw.(map[string]any); ok {
			if w, ok := asNumber(room["width"]); !ok || w <= 0 {
				errs = append(errs, FieldError{Field: "room.width", Message: "must be a positive number"})
			}
			if d, ok := asNumber(room["depth"]); !ok || d <= 0 {
				errs = append(errs, FieldError{Field: "room.depth", Message: "must be a positive number"})
			}
		} else {
			errs = append(errs, FieldError{Field: "room", Message: "must be an object"})
		}
	}

	if raw, ok := doc["equipmentArrays"]; ok {
		if arrays, ok := raw.([]any); ok {
			if len(arrays) == 0 {
				warns = append(warns, FieldError{Field: "equipmentArrays", Message: "array is empty; layout places no equipment"})
			}
		} else {
			errs = append(errs, FieldError{Field: "equipmentArrays", Message: "must be an array"})
		}
	}

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// ValidateBytes decodes raw JSON and validates it. Malformed JSON is
// reported as a validation error rather than a fault, since the input is
// user-supplied.
func ValidateBytes(data []byte) Result {
	raw, err := Decode(data)
	if err != nil {
		return Result{
			Valid:  false,
			Errors: []FieldError{{Field: "document", Message: fmt.Sprintf("not valid JSON: %v", err)}},
		}
	}
	return Validate(raw)
}

// ValidateDocument validates a typed document by passing it through its
// serialized form. Convenient for callers that already hold a *Document.
func ValidateDocument(d *Document) Result {
	if d == nil {
		return Validate(nil)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return Result{
			Valid:  false,
			Errors: []FieldError{{Field: "unknown", Message: fmt.Sprintf("internal validation fault: %v", err)}},
		}
	}
	return ValidateBytes(data)
}

// asNumber extracts a float from a decoded JSON value.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
