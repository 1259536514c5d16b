package quota

import (
	"context"
	"time"

	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// Recorder 用量记账器。只在下游动作成功后调用；
// 实现为存储层单条原子自增，不做读后写。
type Recorder struct {
	policy *Policy
	stores *StoreSet
	// strict 为 true 时写入失败使请求失败；默认记录日志并放行
	strict bool
	now    func() time.Time
}

// NewRecorder 创建用量记账器
func NewRecorder(policy *Policy, stores *StoreSet, strict bool) *Recorder {
	return &Recorder{
		policy: policy,
		stores: stores,
		strict: strict,
		now:    time.Now,
	}
}

// Record 为一次已成功的特性调用计一次用量，返回新计数。
// 演示身份不计数。主存储失败时尝试备用存储；
// 全部失败时按 strict 配置决定报错还是降级放行。
func (r *Recorder) Record(ctx context.Context, id entity.Identity, feature entity.Feature) (int, error) {
	if id.IsDemo() {
		return 0, nil
	}

	limit := r.policy.LimitFor(id, feature)
	periodKey := limit.Period.PeriodKey(r.now().UTC())

	count, err := r.increment(ctx, r.stores.For(id), "primary", id, feature, periodKey)
	if err == nil {
		return count, nil
	}

	if fallback := r.stores.FallbackFor(id); fallback != nil {
		count, fbErr := r.increment(ctx, fallback, "fallback", id, feature, periodKey)
		if fbErr == nil {
			return count, nil
		}
		err = fbErr
	}

	if r.strict {
		return 0, apperrors.Wrap(err, apperrors.CodeUsageRecordFailed, "failed to record usage")
	}

	logger.Warn(ctx, "usage record failed, continuing",
		"identity_key", id.QuotaKey(),
		"feature", feature,
		"error", err,
	)
	return 0, nil
}

func (r *Recorder) increment(ctx context.Context, store repository.UsageCounterStore, label string, id entity.Identity, feature entity.Feature, periodKey string) (int, error) {
	count, err := store.Increment(ctx, id.QuotaKey(), feature, periodKey)
	if err != nil {
		metrics.QuotaUsageRecordFailures.WithLabelValues(string(feature), label).Inc()
		return 0, err
	}
	return count, nil
}
