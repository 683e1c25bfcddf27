package services

import (
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the uniform outcome of a structure mutation. Code is empty on
// success and carries the failure category otherwise.
type Result struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Code    domainagg.ErrorCode `json:"-"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

func success(message string, data any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// failure turns err into an error result. Store-side failures get the
// operation's generic message; caller mistakes keep their own.
func failure(err error, persistenceMessage string) Result {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodePersistence
	}
	msg := domainagg.MessageOf(err)
	if domainagg.IsPersistence(err) || code == domainagg.CodePersistence || msg == "" {
		msg = persistenceMessage
	}
	return Result{Status: StatusError, Message: msg, Code: code}
}

func invalid(message string) Result {
	return Result{Status: StatusError, Message: message, Code: domainagg.CodeValidation}
}
