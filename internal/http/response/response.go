package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecraft-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr writes err with the status derived from its code.
func RespondErr(c *gin.Context, err error) {
	status, code, msg := classify(err)
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// RespondResult writes a mutation result envelope.
func RespondResult(c *gin.Context, res services.Result) {
	status := http.StatusOK
	if !res.OK() {
		status = StatusFor(res.Code)
	}
	c.JSON(status, res)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
