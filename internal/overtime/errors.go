package overtime

import "errors"

// 引擎对外只暴露这几类错误，调用方用 errors.Is 判断。
// repository 层负责把存储层的约束冲突映射成这里的错误。
var (
	// ErrValidation 表示输入不合法（日期/时间格式错误、结束早于开始等）。
	ErrValidation = errors.New("输入不合法")

	// ErrPermission 表示操作者没有权限对目标执行该操作。
	ErrPermission = errors.New("权限不足")

	// ErrConflict 表示违反唯一性约束（同一天重复记录、申报窗口重叠、重复团队等）。
	ErrConflict = errors.New("操作冲突")

	// ErrNotFound 表示目标不存在，或对操作者不可见。
	ErrNotFound = errors.New("目标不存在")

	// ErrPeriodClosed 表示没有覆盖该日期的申报窗口。
	ErrPeriodClosed = errors.New("申报窗口未开放")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
