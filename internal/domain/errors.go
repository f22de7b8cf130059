package domain

import "errors"

var (
	// ErrLookup 表示引用了不存在的员工、组或子组
	ErrLookup = errors.New("lookup error")
	// ErrConfiguration 表示数据本身不合法，比如重复的变量名或缺少父组的子组
	ErrConfiguration = errors.New("configuration error")
	// ErrSolverContract 表示求解器返回的结果违反了约定
	ErrSolverContract = errors.New("solver contract violation")
	// ErrUnknownLabel 表示无法识别的班次标签
	ErrUnknownLabel = errors.New("unknown label")
)
