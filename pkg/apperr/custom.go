package apperr

import "fmt"

// StoreError はValkeyとの操作エラーを表す。
type StoreError struct {
	Operation string // 操作名（GET, HSET, ZADD等）
	Key       string // 操作対象のキー
	Cause     error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: operation=%s, key=%s, cause=%v",
			e.Operation, e.Key, e.Cause)
	}
	return fmt.Sprintf("store error: operation=%s, key=%s", e.Operation, e.Key)
}

// Unwrap は根本原因を返す。
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError はStoreErrorを生成する。
func NewStoreError(operation, key string, cause error) *StoreError {
	return &StoreError{
		Operation: operation,
		Key:       key,
		Cause:     cause,
	}
}

// BackendError は認証バックエンドとの通信エラーを表す。
type BackendError struct {
	BackendID string // バックエンドの識別子（radius, radclient, local）
	Cause     error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error: backendID=%s, cause=%v", e.BackendID, e.Cause)
	}
	return fmt.Sprintf("backend error: backendID=%s", e.BackendID)
}

// Unwrap は根本原因を返す。
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// NewBackendError はBackendErrorを生成する。
func NewBackendError(backendID string, cause error) *BackendError {
	return &BackendError{
		BackendID: backendID,
		Cause:     cause,
	}
}

// ValidationError はバリデーションエラーを表す。
type ValidationError struct {
	Field   string // エラーが発生したフィールド名
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field=%s, message=%s", e.Field, e.Message)
}

// NewValidationError はValidationErrorを生成する。
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
