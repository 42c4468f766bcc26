package handler

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(code, message string) *Response {
	return &Response{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}
