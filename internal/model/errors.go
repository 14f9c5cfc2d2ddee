package model

import "errors"

// 名额引擎的错误分类，handler 按类别映射到 HTTP 状态码，不做笼统失败。
var (
	ErrNotFound      = errors.New("group not found")
	ErrFull          = errors.New("no slots available")
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
	ErrForbidden     = errors.New("admin role required")
)
