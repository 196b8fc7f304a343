package response

// AppError 统一错误包装
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，code 即 HTTP 状态码
func WrapError(code int, message string, err error) *AppError {
	if code < 400 || code > 599 {
		code = CodeInternal
	}
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
