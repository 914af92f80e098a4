// Package response is the error envelope for the façade. Success bodies are
// the upstream entity or array reshaped by the handler, written directly;
// only failures wear the envelope.
package response

import "github.com/gin-gonic/gin"

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Error builds the envelope, customMsg overriding the default.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Code: code, Msg: msg}
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(CodeBadRequest, Error(CodeBadRequest, msg))
}

func NotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(CodeNotFound, Error(CodeNotFound, msg))
}

// Internal covers upstream failures and anything unanticipated alike; the
// upstream detail rides along in msg.
func Internal(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(CodeServerError, Error(CodeServerError, msg))
}
