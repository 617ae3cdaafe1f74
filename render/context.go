package render

import "sync/atomic"

// Context 是渲染与绘制回调的执行凭证。一个 Context 同一时刻只能被一个调用持有，
// Render 及其生成的绘制回调都通过它检查，跨 goroutine 并发使用会立即 panic。
//
// 通常由布局/绘制所在的 goroutine 创建并独占。
type Context struct {
	busy atomic.Bool
}

// NewContext 创建一个新的执行凭证。
func NewContext() *Context { return &Context{} }

// enter 占用凭证并返回释放函数。
func (c *Context) enter() func() {
	if c == nil {
		panic("render: nil render context")
	}
	if !c.busy.CompareAndSwap(false, true) {
		panic("render: render context used concurrently")
	}
	return func() { c.busy.Store(false) }
}
