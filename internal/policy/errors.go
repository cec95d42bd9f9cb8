package policy

import "errors"

var (
	// ErrSpecNotFound はポリシー定義が存在しない場合のエラー
	ErrSpecNotFound = errors.New("policy spec not found")
)
