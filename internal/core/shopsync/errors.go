package shopsync

import (
	"errors"
	"fmt"
)

// ErrorKind はリモート CMS エラーの分類です。
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindAuth       ErrorKind = "auth"
	ErrKindRateLimit  ErrorKind = "rate_limit"
	ErrKindNetwork    ErrorKind = "network"
)

// RemoteError はリモート CMS 呼び出しの失敗を分類付きで表します。
type RemoteError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRateLimit はエラーがレート制限によるものかどうかを返します。
// レート制限のみが同期実行内でリトライされます。
func IsRateLimit(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == ErrKindRateLimit
}
