package dispatch

import "fmt"

// ResultKind tags an ActionResult.
type ResultKind string

const (
	ResultSuccess           ResultKind = "success"
	ResultError             ResultKind = "error"
	ResultNeedsConfirmation ResultKind = "needs_confirmation"
)

// ActionResult is the tagged outcome of one dispatched command. A
// needs-confirmation result carries a resumable Confirm closure that
// performs the deferred side effect when the user agrees.
type ActionResult struct {
	Kind        ResultKind
	Message     string
	Description string
	Confirm     func() ActionResult
}

// Success builds a success result.
func Success(format string, args ...interface{}) ActionResult {
	return ActionResult{Kind: ResultSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failure builds an error result.
func Failure(message string) ActionResult {
	return ActionResult{Kind: ResultError, Message: message}
}

// NeedsConfirmation builds a confirmation request around a resumable action.
func NeedsConfirmation(description string, confirm func() ActionResult) ActionResult {
	return ActionResult{Kind: ResultNeedsConfirmation, Description: description, Confirm: confirm}
}
