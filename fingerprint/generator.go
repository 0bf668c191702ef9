package fingerprint

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/utils"
)

const defaultCacheSize = 4096

// Generator 为记录生成指纹，并按 (code, source_system) 做 LRU 缓存。
// 指纹是确定性的，缓存只省去重复批次里的重复计算，不影响结果。
type Generator struct {
	cache *lru.Cache[string, *core.Fingerprint]
}

// NewGenerator 创建指纹生成器。size <= 0 时使用默认容量。
func NewGenerator(size int) (*Generator, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *core.Fingerprint](size)
	if err != nil {
		return nil, err
	}
	return &Generator{cache: cache}, nil
}

// Generate 返回记录的指纹，优先命中缓存。
func (g *Generator) Generate(identity *core.MaterialIdentity) *core.Fingerprint {
	key := identity.Key()
	if fp, ok := g.cache.Get(key); ok {
		return fp
	}
	fp := Fingerprint(identity)
	g.cache.Add(key, fp)
	return fp
}

// Node 是指纹生成的 Pipeline 节点：为每条记录补充 Fingerprint 并打标。
type Node struct {
	Generator *Generator

	// Store 可选；设置后指纹会随批次落库供审计（落库失败不阻断分析）。
	Store core.FingerprintStore
}

func (n *Node) Name() string        { return "fingerprint" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFingerprint }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	gen := n.Generator
	if gen == nil {
		g, err := NewGenerator(0)
		if err != nil {
			return nil, err
		}
		gen = g
		n.Generator = g
	}

	for _, rec := range records {
		rec.Fingerprint = gen.Generate(rec.Identity)
		rec.PutLabel("combined_hash", utils.Label{
			Value:  rec.Fingerprint.CombinedHash,
			Source: "fingerprint",
		})
	}
	return records, nil
}
