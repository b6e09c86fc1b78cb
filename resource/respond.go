package resource

import (
	"fmt"
	"net/http"

	"go.hackfix.me/hypersphere/pipeline"
)

// Check is a single step of request evaluation. It returns a response to stop
// the evaluation, or nil to continue with the next check.
type Check = pipeline.Check[Resource, *Request, Response]

// Step is a named Check.
type Step struct {
	Name  string
	Check Check
}

// Result is the outcome of Evaluate.
type Result struct {
	Response *Response
	// ResolvedBy is the name of the step that produced the response. It is
	// empty if no step resolved the evaluation.
	ResolvedBy string
	// Checked are the names of the steps that ran, in order.
	Checked []string
}

// OK responds with 200 OK. It always resolves, so it's used as the final step.
func OK(Resource, *Request) (*Response, error) {
	return NewResponse(http.StatusOK), nil
}

// DefaultSteps returns the standard evaluation order.
func DefaultSteps() []Step {
	return []Step{
		{"available", CheckAvailable},
		{"method_known", MethodKnown},
		{"uri_length", URILengthWithinLimit},
		{"method_allowed", MethodAllowed},
		{"request_valid", RequestValid},
		{"authenticate", Authenticate},
		{"authorize", Authorize},
		{"entity", ProcessEntity},
		{"accept_media_type", AcceptMediaType},
		{"accept_language", AcceptLanguage},
		{"accept_charset", AcceptCharset},
		{"accept_encoding", AcceptEncoding},
		{"ok", OK},
	}
}

// Respond evaluates req against res using DefaultSteps, and returns the
// response.
func Respond(res Resource, req *Request) (*Response, error) {
	result, err := Evaluate(res, req, DefaultSteps()...)
	if err != nil {
		return nil, err
	}
	return result.Response, nil
}

// Evaluate runs steps in order against res and req until one of them produces
// a response. If no step does, the response has status 500. If a step returns
// an error, evaluation stops and the error is returned along with the steps
// that ran. Slots written by a previous evaluation of req are cleared first.
func Evaluate(res Resource, req *Request, steps ...Step) (Result, error) {
	var result Result
	req.reset()

	checks := make([]Check, len(steps))
	for i, step := range steps {
		checks[i] = func(res Resource, req *Request) (*Response, error) {
			result.Checked = append(result.Checked, step.Name)
			return step.Check(res, req)
		}
	}

	state := pipeline.Unresolved(res, req, NewResponse(http.StatusInternalServerError))
	state, err := pipeline.Run(state, checks...)
	if err != nil {
		failed := result.Checked[len(result.Checked)-1]
		req.logger().Debug("request evaluation failed",
			"method", req.Method, "path", req.Path, "check", failed, "error", err.Error())
		return result, fmt.Errorf("check '%s' failed: %w", failed, err)
	}

	result.Response = state.Value()
	if i := state.Step(); i >= 0 {
		result.ResolvedBy = steps[i].Name
	}

	req.logger().Debug("request evaluated",
		"method", req.Method, "path", req.Path,
		"resolved_by", result.ResolvedBy, "status", result.Response.StatusCode)

	return result, nil
}
