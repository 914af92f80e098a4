package response

// Error codes mirror HTTP status semantics directly.
const (
	CodeOK          = 0
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeServerError = 500
)

// CodeMsgMap centralizes the default code → msg mapping.
var CodeMsgMap = map[int]string{
	CodeOK:          "OK",
	CodeBadRequest:  "Bad Request",
	CodeNotFound:    "Not Found",
	CodeServerError: "Internal Server Error",
}
