package grid

import "errors"

var (
	// ErrNotLoaded 会话尚未加载订单
	ErrNotLoaded = errors.New("order not loaded")
	// ErrRowIndexOutOfRange 行下标越界
	ErrRowIndexOutOfRange = errors.New("row index out of range")
	// ErrUnknownColumn 列不存在
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnNotEditable 固定列与公式列只读
	ErrColumnNotEditable = errors.New("column is not editable")
	// ErrNotFound 远端返回 404
	ErrNotFound = errors.New("not found")
	// ErrRequestFailed 远端请求失败
	ErrRequestFailed = errors.New("request failed")
)
