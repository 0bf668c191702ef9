package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/mdmkit/mdmkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("group", cel.DynType),
		cel.Variable("batch", cel.DynType),
	)
	return env, err
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是复核路由规则的解释器，使用 CEL (Common Expression Language) 实现。
// 规则在重复组上求值，决定该组进入哪个人工复核队列。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：group.score < 0.7 / group.size > 3
//   - 档位：group.confidence == "medium"
//   - 逻辑：group.confidence == "low" && group.size >= 4
//   - 批次参数：batch.scene == "erp_import"
//
// 示例：
//   - `group.score < 0.7 && group.size > 3` → 低分大组转高级复核队列
//   - `group.action == "manual_review"` → 所有待复核组
type Eval struct {
	group *core.DuplicateGroup
	rctx  *core.ResolveContext
	env   *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(group *core.DuplicateGroup, rctx *core.ResolveContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		group: group,
		rctx:  rctx,
		env:   env,
	}
}

// Evaluate 解析并执行规则表达式，返回布尔结果。
// 空表达式恒为 true（无条件路由）。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	group := map[string]interface{}{
		"id":         e.group.GroupID,
		"score":      e.group.SimilarityScore,
		"size":       e.group.Size(),
		"confidence": string(e.group.ConfidenceLevel),
		"action":     string(e.group.RecommendedAction),
		"category":   e.group.SuggestedCategory,
	}

	batch := map[string]interface{}{}
	if e.rctx != nil {
		batch["id"] = e.rctx.BatchID
		for k, v := range e.rctx.Params {
			batch[k] = v
		}
	}

	return map[string]interface{}{
		"group": group,
		"batch": batch,
	}
}
