// Package types defines configuration and error types shared across latex-insight.
package types

// Config 应用配置
type Config struct {
	Compiler string `json:"compiler" toml:"compiler"` // "pdflatex", "xelatex" 或 "lualatex"

	// 标签解析
	LabelCommands                map[string]int    `json:"label_commands" toml:"label_commands"`                                   // 命令名 -> 标签参数位置（从 1 开始）
	LabelAsParameterEnvironments []string          `json:"label_as_parameter_environments" toml:"label_as_parameter_environments"` // 通过 label= 选项携带标签的环境
	LabeledEnvironments          map[string]string `json:"labeled_environments" toml:"labeled_environments"`                       // 环境名 -> 惯用标签前缀

	// 数学模式判定
	MathEnvironments   []string `json:"math_environments" toml:"math_environments"`
	TextInMathCommands []string `json:"text_in_math_commands" toml:"text_in_math_commands"`

	// 编译日志
	MultilineWarnings []string `json:"multiline_warnings" toml:"multiline_warnings"` // 额外的多行警告前缀
	LogLineWidth      int      `json:"log_line_width" toml:"log_line_width"`         // 编译器硬换行宽度，默认 79

	Concurrency  int    `json:"concurrency" toml:"concurrency"`       // 同时分析的文件数
	StubCacheDir string `json:"stub_cache_dir" toml:"stub_cache_dir"` // 为空则不持久化
	LogFile      string `json:"log_file" toml:"log_file"`
	LogLevel     string `json:"log_level" toml:"log_level"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrEncoding     ErrorCode = "ENCODING_ERROR"
	ErrCache        ErrorCode = "CACHE_ERROR"
	ErrEdit         ErrorCode = "EDIT_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode of the first AppError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrInternal
}
