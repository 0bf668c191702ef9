package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mdmkit/mdmkit/core"
)

// 存储键前缀约定。所有类型化适配器共享同一个 KV 后端，靠前缀隔离。
const (
	keyPrefixFingerprint = "mdm:fp:"
	keyPrefixGroup       = "mdm:group:"
	keyPrefixFeedback    = "mdm:feedback:"
	keyWeights           = "mdm:weights:current"
)

// TypedStore 把通用 KV 后端适配为领域对象的类型化存储，
// 统一实现 core.FingerprintStore / GroupStore / FeedbackStore / WeightsStore。
// 序列化使用 JSON，键按前缀隔离。
type TypedStore struct {
	kv core.Store
}

func NewTypedStore(kv core.Store) *TypedStore {
	return &TypedStore{kv: kv}
}

func fingerprintKey(code, sourceSystem string) string {
	return keyPrefixFingerprint + code + "|" + sourceSystem
}

func (s *TypedStore) SaveFingerprint(ctx context.Context, identity *core.MaterialIdentity, fp *core.Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, fingerprintKey(identity.Code, identity.SourceSystem), data)
}

func (s *TypedStore) GetFingerprint(ctx context.Context, code, sourceSystem string) (*core.Fingerprint, error) {
	data, err := s.kv.Get(ctx, fingerprintKey(code, sourceSystem))
	if err != nil {
		return nil, err
	}
	var fp core.Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, err
	}
	return &fp, nil
}

func (s *TypedStore) BatchSaveFingerprints(ctx context.Context, records []*core.Record) error {
	kvs := make(map[string][]byte, len(records))
	for _, r := range records {
		if r.Identity == nil || r.Fingerprint == nil {
			continue
		}
		data, err := json.Marshal(r.Fingerprint)
		if err != nil {
			return err
		}
		kvs[fingerprintKey(r.Identity.Code, r.Identity.SourceSystem)] = data
	}
	if len(kvs) == 0 {
		return nil
	}
	return s.kv.BatchSet(ctx, kvs)
}

func (s *TypedStore) SaveGroup(ctx context.Context, group *core.DuplicateGroup) error {
	data, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyPrefixGroup+group.GroupID, data)
}

func (s *TypedStore) GetGroup(ctx context.Context, groupID string) (*core.DuplicateGroup, error) {
	data, err := s.kv.Get(ctx, keyPrefixGroup+groupID)
	if err != nil {
		return nil, err
	}
	var group core.DuplicateGroup
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *TypedStore) SaveFeedback(ctx context.Context, fb *core.LearningFeedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return err
	}
	key := keyPrefixFeedback + fb.GroupID + ":" + strconv.FormatInt(fb.Timestamp.UnixNano(), 10)
	return s.kv.Set(ctx, key, data)
}

func (s *TypedStore) SaveWeights(ctx context.Context, weights core.SimilarityWeights) error {
	data, err := json.Marshal(weights)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyWeights, data)
}

func (s *TypedStore) LoadWeights(ctx context.Context) (core.SimilarityWeights, error) {
	data, err := s.kv.Get(ctx, keyWeights)
	if err != nil {
		return nil, err
	}
	var weights core.SimilarityWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, err
	}
	return weights, nil
}

var (
	_ core.FingerprintStore = (*TypedStore)(nil)
	_ core.GroupStore       = (*TypedStore)(nil)
	_ core.FeedbackStore    = (*TypedStore)(nil)
	_ core.WeightsStore     = (*TypedStore)(nil)
)
