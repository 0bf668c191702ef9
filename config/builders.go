package config

import (
	"fmt"

	"github.com/mdmkit/mdmkit/assemble"
	"github.com/mdmkit/mdmkit/cluster"
	"github.com/mdmkit/mdmkit/filter"
	"github.com/mdmkit/mdmkit/fingerprint"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/conv"
	"github.com/mdmkit/mdmkit/similarity"
)

func init() {
	Register("filter", buildFilterNode)
	Register("fingerprint", buildFingerprintNode)
	Register("similarity", buildSimilarityNode)
	Register("cluster.dbscan", buildClusterNode)
	Register("assemble", buildAssembleNode)
}

func buildFilterNode(config map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := config["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		switch filterType {
		case "malformed":
			filters = append(filters, filter.NewMalformedFilter())

		case "seen_fingerprint":
			// 指纹存储需要程序化注入，配置驱动下只启用布隆快筛
			capacity := uint(conv.ConfigGetInt64(filterMap, "capacity", 0))
			rate := conv.ConfigGetFloat64(filterMap, "false_positive_rate", 0.01)
			filters = append(filters, filter.NewSeenFingerprintFilter(nil, capacity, rate))

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func buildFingerprintNode(config map[string]interface{}) (pipeline.Node, error) {
	size := int(conv.ConfigGetInt64(config, "cache_size", 0))
	gen, err := fingerprint.NewGenerator(size)
	if err != nil {
		return nil, err
	}
	return &fingerprint.Node{Generator: gen}, nil
}

func buildSimilarityNode(config map[string]interface{}) (pipeline.Node, error) {
	engine := similarity.NewEngine()
	if n := conv.ConfigGetInt64(config, "parallelism", 0); n > 0 {
		engine.Parallelism = int(n)
	}
	return &similarity.Node{Engine: engine}, nil
}

func buildClusterNode(config map[string]interface{}) (pipeline.Node, error) {
	return &cluster.Node{}, nil
}

func buildAssembleNode(config map[string]interface{}) (pipeline.Node, error) {
	node := &assemble.Node{}

	switch conv.ConfigGet[string](config, "master_strategy", "") {
	case "", "first_in_batch":
		node.Strategy = assemble.FirstInBatch{}
	case "source_priority":
		order := conv.SliceAnyToString(config["source_order"])
		if len(order) == 0 {
			return nil, fmt.Errorf("source_priority strategy requires source_order")
		}
		node.Strategy = assemble.SourcePriority{Order: order}
	default:
		return nil, fmt.Errorf("unknown master strategy: %v", config["master_strategy"])
	}

	rulesConfig, ok := config["routing"].([]interface{})
	if ok {
		for _, rc := range rulesConfig {
			ruleMap, ok := rc.(map[string]interface{})
			if !ok {
				continue
			}
			node.Routing = append(node.Routing, assemble.RoutingRule{
				Queue: conv.ConfigGet[string](ruleMap, "queue", ""),
				Expr:  conv.ConfigGet[string](ruleMap, "expr", ""),
			})
		}
	}

	return node, nil
}
